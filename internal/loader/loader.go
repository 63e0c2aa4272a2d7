package loader

import (
	"context"
	"github.com/pkg/errors"
	"github.com/stuyutils/schoolday/internal/bell"
	"github.com/stuyutils/schoolday/internal/calendar"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"strings"
	"time"
)

// ErrNotImplemented is returned for source formats that are deliberately not supported.
var ErrNotImplemented = errors.New("not implemented")

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatSQL  = "sql"
)

// Config describes where the calendar and bell schedule data is read from.
type Config struct {
	Format string `yaml:"format" default:"csv"`

	// Calendar is the calendar file for csv or the sheet name for xlsx.
	Calendar string `yaml:"calendar"`

	// Bell maps a variant name to its file for csv or to its sheet name for xlsx.
	// Variants without an entry fall back to the Regular schedule.
	Bell map[string]string `yaml:"bell"`

	// Workbook is the spreadsheet file for xlsx.
	Workbook string `yaml:"workbook"`

	Database DatabaseConfig `yaml:"database"`

	// Term generates the calendar instead of reading it from the source if its start is set.
	Term TermConfig `yaml:"term"`
}

// DatabaseConfig selects the database for the sql format.
type DatabaseConfig struct {
	Driver string `yaml:"driver" default:"sqlite3"`
	DSN    string `yaml:"dsn"`
}

// Validate checks that the config names everything its format requires. The format is normalized to lower case.
func (c *Config) Validate() error {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))

	switch c.Format {
	case FormatCSV:
		if c.Calendar == "" && c.Term.Start == "" {
			return errors.New("csv source requires a calendar file or a term")
		}
		if _, ok := lookupVariant(c.Bell, calendar.Regular); !ok {
			return errors.New("csv source requires a Regular bell schedule file")
		}
	case FormatXLSX:
		if c.Workbook == "" {
			return errors.New("xlsx source requires a workbook")
		}
	case FormatSQL:
		if c.Database.Driver == "" || c.Database.DSN == "" {
			return errors.New("sql source requires a database driver and dsn")
		}
	case "xls", "ods":
		return errors.Wrapf(ErrNotImplemented, "%s source format", c.Format)
	default:
		return errors.Errorf("unknown source format %q", c.Format)
	}

	for name := range c.Bell {
		if !calendar.ParseVariant(name).Known() {
			return errors.Errorf("bell schedule for unknown variant %q", name)
		}
	}

	if c.Term.Start != "" {
		if err := c.Term.Validate(); err != nil {
			return errors.Wrap(err, "invalid term")
		}
	}

	return nil
}

// Source provides the raw tables. Both methods may be called concurrently.
type Source interface {
	Calendar(ctx context.Context) ([]calendar.DayInfo, error)
	BellSchedules(ctx context.Context) ([]*bell.Schedule, error)
}

// NewSource returns the Source described by c. Sources holding resources implement io.Closer.
func NewSource(c *Config) (Source, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var src Source
	switch c.Format {
	case FormatCSV:
		src = &CSVSource{CalendarFile: c.Calendar, BellFiles: c.Bell}
	case FormatXLSX:
		src = &WorkbookSource{Path: c.Workbook, CalendarSheet: c.Calendar, BellSheets: c.Bell}
	case FormatSQL:
		db, err := OpenDatabase(c.Database)
		if err != nil {
			return nil, err
		}
		src = NewSQLSource(db)
	}

	if c.Term.Start != "" {
		src = &termSource{Source: src, term: c.Term}
	}

	return src, nil
}

// Data is the loaded, immutable schedule data.
type Data struct {
	Table   *calendar.Table
	Catalog *bell.Catalog
}

// Load reads the calendar and the bell schedules of src concurrently and builds the lookup tables from them.
func Load(ctx context.Context, src Source, logger *zap.SugaredLogger) (*Data, error) {
	start := time.Now()

	var days []calendar.DayInfo
	var schedules []*bell.Schedule

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		days, err = src.Calendar(ctx)
		return errors.Wrap(err, "cannot load calendar")
	})
	g.Go(func() (err error) {
		schedules, err = src.BellSchedules(ctx)
		return errors.Wrap(err, "cannot load bell schedules")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	table, err := calendar.NewTable(days)
	if err != nil {
		return nil, errors.Wrap(err, "invalid calendar")
	}

	catalog, err := bell.NewCatalog(schedules...)
	if err != nil {
		return nil, errors.Wrap(err, "invalid bell schedules")
	}

	for _, s := range schedules {
		logger.Debugw("Loaded bell schedule",
			zap.Stringer("variant", s.Variant),
			zap.Int("periods", len(s.Periods)))
	}
	logger.Infow("Loaded schedule data",
		zap.Int("days", table.Len()),
		zap.Stringer("first", table.First()),
		zap.Stringer("last", table.Last()),
		zap.Duration("took", time.Since(start)))

	return &Data{Table: table, Catalog: catalog}, nil
}
