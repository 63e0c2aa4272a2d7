package loader

import (
	"context"
	"encoding/csv"
	"github.com/pkg/errors"
	"github.com/stuyutils/schoolday/internal/bell"
	"github.com/stuyutils/schoolday/internal/calendar"
	"io"
	"os"
)

// CSVSource reads one calendar file and one file per bell schedule variant.
type CSVSource struct {
	CalendarFile string
	// BellFiles maps variant names to files.
	BellFiles map[string]string
}

// Calendar implements the Source interface.
func (s *CSVSource) Calendar(context.Context) ([]calendar.DayInfo, error) {
	rows, err := readCSVFile(s.CalendarFile)
	if err != nil {
		return nil, err
	}

	return ParseCalendarRows(rows)
}

// BellSchedules implements the Source interface.
func (s *CSVSource) BellSchedules(context.Context) ([]*bell.Schedule, error) {
	schedules := make([]*bell.Schedule, 0, len(s.BellFiles))
	for _, v := range calendar.Variants {
		path, ok := lookupVariant(s.BellFiles, v)
		if !ok {
			continue
		}

		rows, err := readCSVFile(path)
		if err != nil {
			return nil, err
		}

		schedule, err := ParseBellRows(v, rows)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot parse %q", path)
		}
		schedules = append(schedules, schedule)
	}

	return schedules, nil
}

// ReadCSV reads all records of r. Records may have a varying number of fields.
func ReadCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	return cr.ReadAll()
}

func readCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %q", path)
	}

	return rows, nil
}

// lookupVariant returns the entry of m whose key names v, ignoring case.
func lookupVariant(m map[string]string, v calendar.Variant) (string, bool) {
	for name, value := range m {
		if calendar.ParseVariant(name) == v && value != "" {
			return value, true
		}
	}

	return "", false
}
