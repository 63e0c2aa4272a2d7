package calendar

import (
	"fmt"
	"github.com/pkg/errors"
	"time"
)

// ErrInvalidDate is returned for values that are not date-like, e.g. a zero time.Time or malformed text.
var ErrInvalidDate = errors.New("invalid date")

// Date is a calendar day without time-of-day or location. It is comparable and used as the key of a Table.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in its own location, dropping the time-of-day.
func DateOf(t time.Time) (Date, error) {
	if t.IsZero() {
		return Date{}, errors.Wrap(ErrInvalidDate, "zero time")
	}

	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}, nil
}

// ParseDate parses an ISO 8601 date (yyyy-mm-dd).
func ParseDate(text string) (Date, error) {
	t, err := time.Parse(time.DateOnly, text)
	if err != nil {
		return Date{}, errors.Wrapf(ErrInvalidDate, "%q is not an ISO date", text)
	}

	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// MustParseDate is like ParseDate but panics on error.
func MustParseDate(text string) Date {
	d, err := ParseDate(text)
	if err != nil {
		panic(err)
	}

	return d
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the date n calendar days after d. Month and year boundaries are normalized.
func (d Date) AddDays(n int) Date {
	y, m, day := d.In(time.UTC).AddDate(0, 0, n).Date()
	return Date{Year: y, Month: m, Day: day}
}

func (d Date) Compare(o Date) int {
	return d.In(time.UTC).Compare(o.In(time.UTC))
}

func (d Date) Before(o Date) bool {
	return d.Compare(o) < 0
}

func (d Date) After(o Date) bool {
	return d.Compare(o) > 0
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// String returns the ISO 8601 representation, which is also the key format of the calendar data files.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}
