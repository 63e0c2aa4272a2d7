package loader

import (
	"github.com/pkg/errors"
	"github.com/stuyutils/schoolday/internal/bell"
	"github.com/stuyutils/schoolday/internal/calendar"
	"github.com/stuyutils/schoolday/internal/clock"
	"strconv"
	"strings"
)

// Column names accepted in the header row of calendar data, mapped to their canonical name.
var calendarColumns = map[string]string{
	"date":       "date",
	"day":        "date",
	"in_session": "in_session",
	"in session": "in_session",
	"school":     "in_session",
	"cycle":      "cycle",
	"schedule":   "schedule",
	"period":     "schedule",
	"variant":    "schedule",
	"testing":    "testing",
	"events":     "events",
	"event":      "events",
}

// Column names accepted in the header row of bell schedule data.
var bellColumns = map[string]string{
	"period": "name",
	"name":   "name",
	"start":  "start",
	"end":    "end",
}

// header maps canonical column names to their index within a row.
type header map[string]int

func parseHeader(row []string, aliases map[string]string, required ...string) (header, error) {
	h := make(header, len(row))
	for i, cell := range row {
		name, ok := aliases[strings.ToLower(strings.TrimSpace(cell))]
		if !ok {
			continue
		}
		if _, ok := h[name]; ok {
			return nil, errors.Errorf("column %q appears twice in header", name)
		}
		h[name] = i
	}

	for _, name := range required {
		if _, ok := h[name]; !ok {
			return nil, errors.Errorf("header lacks the %q column", name)
		}
	}

	return h, nil
}

// get returns the trimmed cell of the named column, or "" if the column is absent or the row is too short.
func (h header) get(row []string, name string) string {
	i, ok := h[name]
	if !ok || i >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[i])
}

func (h header) has(name string) bool {
	_, ok := h[name]
	return ok
}

// isBlank reports whether every cell of row is empty. Spreadsheets tend to end with such rows.
func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}

// ParseCalendarRows converts raw calendar rows, the first one being the header, into DayInfo values.
//
// Without an in-session column, a day is in session if it has a cycle, which is how the term data files
// mark school days.
func ParseCalendarRows(rows [][]string) ([]calendar.DayInfo, error) {
	if len(rows) == 0 {
		return nil, errors.New("calendar data is empty")
	}

	h, err := parseHeader(rows[0], calendarColumns, "date")
	if err != nil {
		return nil, errors.Wrap(err, "invalid calendar header")
	}

	days := make([]calendar.DayInfo, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}

		date, err := calendar.ParseDate(h.get(row, "date"))
		if err != nil {
			return nil, errors.Wrapf(err, "calendar row %d", i+2)
		}

		day := calendar.DayInfo{
			Date:    date,
			Cycle:   calendar.NullableText(h.get(row, "cycle")),
			Variant: calendar.ParseVariant(h.get(row, "schedule")),
			Testing: calendar.NullableText(h.get(row, "testing")),
			Events:  calendar.NullableText(h.get(row, "events")),
		}

		if h.has("in_session") {
			day.InSession, err = parseBool(h.get(row, "in_session"))
			if err != nil {
				return nil, errors.Wrapf(err, "calendar row %d", i+2)
			}
		} else {
			day.InSession = day.Cycle.Valid
		}

		days = append(days, day)
	}

	return days, nil
}

// ParseBellRows converts raw bell schedule rows, the first one being the header, into the schedule of v.
func ParseBellRows(v calendar.Variant, rows [][]string) (*bell.Schedule, error) {
	if len(rows) == 0 {
		return nil, errors.Errorf("bell schedule %s is empty", v)
	}

	h, err := parseHeader(rows[0], bellColumns, "name", "start", "end")
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s bell schedule header", v)
	}

	periods := make([]bell.Period, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}

		p, err := parsePeriod(h.get(row, "name"), h.get(row, "start"), h.get(row, "end"))
		if err != nil {
			return nil, errors.Wrapf(err, "%s bell schedule row %d", v, i+2)
		}
		periods = append(periods, p)
	}

	return bell.NewSchedule(v, periods)
}

func parsePeriod(name, start, end string) (bell.Period, error) {
	s, err := clock.Parse(start)
	if err != nil {
		return bell.Period{}, errors.Wrapf(err, "start of %q", name)
	}

	e, err := clock.Parse(end)
	if err != nil {
		return bell.Period{}, errors.Wrapf(err, "end of %q", name)
	}

	return bell.Period{Name: name, Start: s, End: e}, nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "y", "yes":
		return true, nil
	case "", "n", "no", "none":
		return false, nil
	}

	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.Errorf("%q is not a boolean", raw)
	}

	return b, nil
}
