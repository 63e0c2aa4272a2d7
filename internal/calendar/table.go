package calendar

import (
	"database/sql"
	"github.com/pkg/errors"
	"slices"
	"strings"
	"time"
)

// ErrDayNotInData is returned when a date is absent from the calendar table.
var ErrDayNotInData = errors.New("day not in data")

// DayInfo describes a single calendar date of the term.
type DayInfo struct {
	Date      Date
	InSession bool
	Cycle     sql.NullString
	Variant   Variant
	Testing   sql.NullString
	Events    sql.NullString
}

// NullableText converts a raw cell of the calendar data into an optional value. Empty cells and the literal
// "None" used by the data files are absent.
func NullableText(raw string) sql.NullString {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "None" {
		return sql.NullString{}
	}

	return sql.NullString{String: raw, Valid: true}
}

// Table maps calendar dates to their DayInfo. It is immutable once created by NewTable.
type Table struct {
	days map[Date]*DayInfo

	// dates contains all keys of days in ascending order.
	dates []Date
}

// NewTable builds a Table from the given days. Dates must be unique.
func NewTable(days []DayInfo) (*Table, error) {
	t := &Table{
		days:  make(map[Date]*DayInfo, len(days)),
		dates: make([]Date, 0, len(days)),
	}

	for i := range days {
		day := days[i]
		if day.Date.IsZero() {
			return nil, errors.Wrapf(ErrInvalidDate, "row %d has no date", i)
		}
		if _, ok := t.days[day.Date]; ok {
			return nil, errors.Errorf("duplicate calendar date %s", day.Date)
		}

		t.days[day.Date] = &day
		t.dates = append(t.dates, day.Date)
	}

	slices.SortFunc(t.dates, Date.Compare)

	return t, nil
}

// DayInfo returns the information of the calendar date of t. The time-of-day of t is ignored.
func (t *Table) DayInfo(at time.Time) (*DayInfo, error) {
	d, err := DateOf(at)
	if err != nil {
		return nil, err
	}

	return t.Lookup(d)
}

// Lookup returns the DayInfo stored for d.
func (t *Table) Lookup(d Date) (*DayInfo, error) {
	info, ok := t.days[d]
	if !ok {
		return nil, errors.Wrapf(ErrDayNotInData, "unable to access %s from the data", d)
	}

	// Hand out a copy so that callers can't modify the table.
	c := *info
	return &c, nil
}

// Contains reports whether d is present in the table.
func (t *Table) Contains(d Date) bool {
	_, ok := t.days[d]
	return ok
}

// First returns the earliest date of the table or the zero Date if it is empty.
func (t *Table) First() Date {
	if len(t.dates) == 0 {
		return Date{}
	}

	return t.dates[0]
}

// Last returns the latest date of the table or the zero Date if it is empty.
func (t *Table) Last() Date {
	if len(t.dates) == 0 {
		return Date{}
	}

	return t.dates[len(t.dates)-1]
}

func (t *Table) Len() int {
	return len(t.dates)
}

// Dates returns all dates of the table in ascending order.
func (t *Table) Dates() []Date {
	return slices.Clone(t.dates)
}
