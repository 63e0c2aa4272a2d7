package loader

import (
	"context"
	"github.com/pkg/errors"
	"github.com/stuyutils/schoolday/internal/bell"
	"github.com/stuyutils/schoolday/internal/calendar"
	"github.com/xuri/excelize/v2"
	"slices"
)

// DefaultCalendarSheet is the sheet holding the calendar rows if no other one is configured.
const DefaultCalendarSheet = "Calendar"

// WorkbookSource reads a spreadsheet with one calendar sheet and one sheet per bell schedule variant.
//
// Bell schedule sheets default to the variant name, e.g. "Regular". A missing sheet of a variant other than
// Regular is skipped so that the variant falls back to the Regular schedule.
type WorkbookSource struct {
	Path          string
	CalendarSheet string
	// BellSheets maps variant names to sheet names, overriding the defaults.
	BellSheets map[string]string
}

// Calendar implements the Source interface.
func (s *WorkbookSource) Calendar(context.Context) ([]calendar.DayInfo, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open workbook %q", s.Path)
	}
	defer func() { _ = f.Close() }()

	sheet := s.CalendarSheet
	if sheet == "" {
		sheet = DefaultCalendarSheet
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read sheet %q", sheet)
	}

	return ParseCalendarRows(rows)
}

// BellSchedules implements the Source interface.
func (s *WorkbookSource) BellSchedules(context.Context) ([]*bell.Schedule, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open workbook %q", s.Path)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()

	var schedules []*bell.Schedule
	for _, v := range calendar.Variants {
		sheet, ok := lookupVariant(s.BellSheets, v)
		if !ok {
			sheet = v.String()
		}
		if !slices.Contains(sheets, sheet) {
			if v == calendar.Regular {
				return nil, errors.Errorf("workbook %q has no %q sheet", s.Path, sheet)
			}
			continue
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read sheet %q", sheet)
		}

		schedule, err := ParseBellRows(v, rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}

	return schedules, nil
}
