package clock

import (
	"fmt"
	"github.com/pkg/errors"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTime is returned for textual clock times that are malformed or out of their 12/24-hour range.
var ErrInvalidTime = errors.New("invalid time")

// ParseTwelveHour converts a 12-hour clock time like "1:00 PM" into its 24-hour form "13:00".
//
// The text must carry an AM or PM marker and a colon separated hour and minute, optionally followed by seconds
// which are kept ("1:00:30 PM" is "13:00:30"). 12 AM maps to hour 00 and 12 PM stays 12, every other PM hour is
// shifted by twelve.
func ParseTwelveHour(text string) (string, error) {
	upper := strings.ToUpper(strings.TrimSpace(text))

	var pm bool
	switch {
	case strings.HasSuffix(upper, "PM"):
		pm = true
	case strings.HasSuffix(upper, "AM"):
	default:
		return "", errors.Wrapf(ErrInvalidTime, "%q has no AM/PM marker", text)
	}

	hour, minute, second, err := splitClock(strings.TrimSpace(upper[:len(upper)-2]))
	if err != nil {
		return "", errors.Wrapf(err, "cannot parse %q", text)
	}
	if hour > 12 {
		return "", errors.Wrapf(ErrInvalidTime, "hour %d of %q exceeds 12", hour, text)
	}

	if hour == 12 {
		hour = 0
	}
	if pm {
		hour += 12
	}

	return New(hour, minute, second).String(), nil
}

// MinutesSinceMidnight returns hour*60+minute of a colon separated clock time, e.g. 550 for "09:10".
// Seconds are accepted but don't count.
func MinutesSinceMidnight(text string) (int, error) {
	hour, minute, _, err := splitClock(strings.TrimSpace(text))
	if err != nil {
		return 0, errors.Wrapf(err, "cannot parse %q", text)
	}
	if hour > 24 {
		return 0, errors.Wrapf(ErrInvalidTime, "hour %d of %q exceeds 24", hour, text)
	}

	return hour*60 + minute, nil
}

// splitClock parses "H:MM" or "H:MM:SS". The hour is only checked for being non-negative.
func splitClock(text string) (hour, minute, second int, err error) {
	parts := strings.Split(text, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, errors.Wrap(ErrInvalidTime, "expected hour:minute[:second]")
	}

	values := make([]int, 3)
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 {
			return 0, 0, 0, errors.Wrapf(ErrInvalidTime, "invalid component %q", part)
		}
		values[i] = v
	}

	if values[1] > 59 || values[2] > 59 {
		return 0, 0, 0, errors.Wrapf(ErrInvalidTime, "%q is out of range", text)
	}

	return values[0], values[1], values[2], nil
}

// Time is a naive wall clock time of day without any date or location.
type Time struct {
	Hour   int
	Minute int
	Second int
}

// New returns the clock time h:m:s.
func New(h, m, s int) Time {
	return Time{Hour: h, Minute: m, Second: s}
}

// Parse reads a clock time either in 24-hour form ("09:10", "09:10:30") or in 12-hour form ("9:10 AM",
// "9:10:30 AM").
func Parse(text string) (Time, error) {
	text = strings.TrimSpace(text)

	upper := strings.ToUpper(text)
	if strings.HasSuffix(upper, "AM") || strings.HasSuffix(upper, "PM") {
		converted, err := ParseTwelveHour(text)
		if err != nil {
			return Time{}, err
		}
		text = converted
	}

	hour, minute, second, err := splitClock(text)
	if err != nil {
		return Time{}, errors.Wrapf(err, "cannot parse %q", text)
	}
	if hour > 23 {
		return Time{}, errors.Wrapf(ErrInvalidTime, "%q is out of range", text)
	}

	return New(hour, minute, second), nil
}

// MustParse is like Parse but panics on error. Meant for tests and static tables.
func MustParse(text string) Time {
	t, err := Parse(text)
	if err != nil {
		panic(err)
	}

	return t
}

// Of returns the clock time of t in its own location.
func Of(t time.Time) Time {
	h, m, s := t.Clock()
	return New(h, m, s)
}

// Seconds returns the number of seconds since midnight.
func (t Time) Seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// Compare returns -1, 0 or +1 depending on whether t is before, equal to or after o.
func (t Time) Compare(o Time) int {
	switch a, b := t.Seconds(), o.Seconds(); {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (t Time) Before(o Time) bool {
	return t.Compare(o) < 0
}

func (t Time) After(o Time) bool {
	return t.Compare(o) > 0
}

// On combines the clock time with the given calendar day in loc.
func (t Time) On(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, t.Hour, t.Minute, t.Second, 0, loc)
}

func (t Time) String() string {
	if t.Second != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	}

	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
