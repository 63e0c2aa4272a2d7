package schedule

import (
	"github.com/pkg/errors"
	"github.com/stuyutils/schoolday/internal/calendar"
	"github.com/stuyutils/schoolday/internal/clock"
	"strings"
	"time"
)

// ParseTimestamp reads a query time in the location of now.
//
// Accepted are a date with a clock time ("2024-01-08 09:10", "2024-01-08 9:10 AM"), a bare date meaning its
// midnight, or a bare clock time on the date of now. An empty text returns now.
func ParseTimestamp(text string, now time.Time) (time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return now, nil
	}

	first, rest, _ := strings.Cut(text, " ")

	var date calendar.Date
	if strings.Contains(first, "-") {
		d, err := calendar.ParseDate(first)
		if err != nil {
			return time.Time{}, err
		}
		date = d
		text = strings.TrimSpace(rest)
	} else {
		d, err := calendar.DateOf(now)
		if err != nil {
			return time.Time{}, errors.Wrap(err, "cannot resolve today")
		}
		date = d
	}

	var tod clock.Time
	if text != "" {
		var err error
		if tod, err = clock.Parse(text); err != nil {
			return time.Time{}, err
		}
	}

	return tod.On(date.Year, date.Month, date.Day, now.Location()), nil
}
