package loader

import (
	"context"
	"database/sql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/stuyutils/schoolday/internal/bell"
	"github.com/stuyutils/schoolday/internal/calendar"
	"strings"
)

// Schema lists the statements creating the tables read by SQLSource. Dates and times are stored as ISO text.
var Schema = []string{
	`CREATE TABLE term_day (
		date TEXT NOT NULL PRIMARY KEY,
		in_session BOOLEAN NOT NULL,
		cycle TEXT,
		schedule TEXT,
		testing TEXT,
		events TEXT
	)`,
	`CREATE TABLE bell_period (
		schedule TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		PRIMARY KEY (schedule, position)
	)`,
}

type termDayRow struct {
	Date      string         `db:"date"`
	InSession bool           `db:"in_session"`
	Cycle     sql.NullString `db:"cycle"`
	Schedule  sql.NullString `db:"schedule"`
	Testing   sql.NullString `db:"testing"`
	Events    sql.NullString `db:"events"`
}

type bellPeriodRow struct {
	Schedule  string `db:"schedule"`
	Position  int    `db:"position"`
	Name      string `db:"name"`
	StartTime string `db:"start_time"`
	EndTime   string `db:"end_time"`
}

// OpenDatabase opens the database described by c. The connection is established lazily.
func OpenDatabase(c DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open(c.Driver, c.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %s database", c.Driver)
	}

	return db, nil
}

// SQLSource reads the calendar from the term_day and the bell schedules from the bell_period table.
type SQLSource struct {
	db *sqlx.DB
}

func NewSQLSource(db *sqlx.DB) *SQLSource {
	return &SQLSource{db: db}
}

// Calendar implements the Source interface.
func (s *SQLSource) Calendar(ctx context.Context) ([]calendar.DayInfo, error) {
	var rows []termDayRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT date, in_session, cycle, schedule, testing, events FROM term_day ORDER BY date`)
	if err != nil {
		return nil, errors.Wrap(err, "cannot select term days")
	}

	days := make([]calendar.DayInfo, 0, len(rows))
	for _, row := range rows {
		date, err := calendar.ParseDate(isoDate(row.Date))
		if err != nil {
			return nil, err
		}

		days = append(days, calendar.DayInfo{
			Date:      date,
			InSession: row.InSession,
			Cycle:     calendar.NullableText(row.Cycle.String),
			Variant:   calendar.ParseVariant(row.Schedule.String),
			Testing:   calendar.NullableText(row.Testing.String),
			Events:    calendar.NullableText(row.Events.String),
		})
	}

	return days, nil
}

// BellSchedules implements the Source interface.
func (s *SQLSource) BellSchedules(ctx context.Context) ([]*bell.Schedule, error) {
	var rows []bellPeriodRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT schedule, position, name, start_time, end_time FROM bell_period ORDER BY schedule, position`)
	if err != nil {
		return nil, errors.Wrap(err, "cannot select bell periods")
	}

	periodsByVariant := make(map[calendar.Variant][]bell.Period)
	for _, row := range rows {
		v := calendar.ParseVariant(row.Schedule)
		if !v.Known() {
			return nil, errors.Errorf("bell period %q belongs to unknown schedule %q", row.Name, row.Schedule)
		}

		p, err := parsePeriod(row.Name, row.StartTime, row.EndTime)
		if err != nil {
			return nil, errors.Wrapf(err, "%s bell period #%d", v, row.Position)
		}
		periodsByVariant[v] = append(periodsByVariant[v], p)
	}

	var schedules []*bell.Schedule
	for _, v := range calendar.Variants {
		periods, ok := periodsByVariant[v]
		if !ok {
			continue
		}

		schedule, err := bell.NewSchedule(v, periods)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}

	return schedules, nil
}

// Close closes the underlying database.
func (s *SQLSource) Close() error {
	return s.db.Close()
}

// isoDate strips a time component some drivers append when DATE columns are scanned into strings.
func isoDate(value string) string {
	value = strings.TrimSpace(value)
	if len(value) > len("2006-01-02") {
		return value[:len("2006-01-02")]
	}

	return value
}
