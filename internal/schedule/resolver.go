package schedule

import (
	"github.com/pkg/errors"
	"github.com/stuyutils/schoolday/internal/bell"
	"github.com/stuyutils/schoolday/internal/calendar"
	"go.uber.org/zap"
	"strings"
	"time"
)

// ErrScheduleExhausted is returned when a forward search runs past the last date of the calendar table.
var ErrScheduleExhausted = errors.New("schedule data exhausted")

// passingPrefix marks the short breaks between two periods in the bell schedule data.
const passingPrefix = "Passing"

// Resolver answers day and period queries against a calendar table and a bell schedule catalog.
//
// Both are never modified, so a Resolver may be shared by concurrent callers once created.
type Resolver struct {
	table   *calendar.Table
	catalog *bell.Catalog
	logger  *zap.SugaredLogger

	skipPassing bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for debug output. The default, also kept for a nil logger, discards everything.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithSkipPassing makes NextClass step over periods named "Passing ..." instead of returning them.
func WithSkipPassing(skip bool) Option {
	return func(r *Resolver) {
		r.skipPassing = skip
	}
}

func NewResolver(table *calendar.Table, catalog *bell.Catalog, opts ...Option) *Resolver {
	r := &Resolver{
		table:   table,
		catalog: catalog,
		logger:  zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// DayInfo returns the calendar information of the date of t.
func (r *Resolver) DayInfo(t time.Time) (*calendar.DayInfo, error) {
	return r.table.DayInfo(t)
}

// NextSchoolDay returns the date of t if it is in session, or else the next date of the table that is.
//
// With forceSame, the date of t is returned regardless of whether school is in session.
// In both cases the date of t must be present in the table.
func (r *Resolver) NextSchoolDay(t time.Time, forceSame bool) (calendar.Date, error) {
	info, err := r.table.DayInfo(t)
	if err != nil {
		return calendar.Date{}, err
	}

	if forceSame || info.InSession {
		return info.Date, nil
	}

	next, err := r.nextSchoolDayAfter(info.Date)
	if err != nil {
		return calendar.Date{}, err
	}

	return next.Date, nil
}

// nextSchoolDayAfter scans forward from the day after d up to the last date of the table.
func (r *Resolver) nextSchoolDayAfter(d calendar.Date) (*calendar.DayInfo, error) {
	last := r.table.Last()
	for next := d.AddDays(1); !next.After(last); next = next.AddDays(1) {
		if !r.table.Contains(next) {
			continue
		}

		info, err := r.table.Lookup(next)
		if err != nil {
			return nil, err
		}
		if info.InSession {
			return info, nil
		}
	}

	return nil, errors.Wrapf(ErrScheduleExhausted, "no school day after %s up to %s", d, last)
}

// BellSchedule returns the classes of the date of t, or of the next school day if t is not in session.
//
// The period clock times are combined with the resolved date in the location of t.
func (r *Resolver) BellSchedule(t time.Time) (*Day, error) {
	info, err := r.table.DayInfo(t)
	if err != nil {
		return nil, err
	}

	if !info.InSession {
		r.logger.Debugw("Day is not in session, using the next school day",
			zap.Stringer("date", info.Date))

		info, err = r.nextSchoolDayAfter(info.Date)
		if err != nil {
			return nil, err
		}
	}

	return r.dayOf(info, t.Location()), nil
}

// dayOf combines the bell schedule applying to info with its date.
func (r *Resolver) dayOf(info *calendar.DayInfo, loc *time.Location) *Day {
	s := r.catalog.Schedule(info.Variant)
	if s.Variant != info.Variant {
		r.logger.Debugw("Falling back to a different bell schedule",
			zap.Stringer("date", info.Date),
			zap.Stringer("variant", info.Variant),
			zap.Stringer("fallback", s.Variant))
	}

	day := &Day{
		Date:    info.Date,
		Info:    *info,
		Variant: s.Variant,
		Classes: make([]Class, 0, len(s.Periods)),
	}
	for _, p := range s.Periods {
		day.Classes = append(day.Classes, Class{
			Name:  p.Name,
			Start: p.Start.On(info.Date.Year, info.Date.Month, info.Date.Day, loc),
			End:   p.End.On(info.Date.Year, info.Date.Month, info.Date.Day, loc),
		})
	}

	return day
}

// CurrentClass returns the first class in schedule order containing t, or nil if no class is taking place.
func (r *Resolver) CurrentClass(t time.Time) (*Class, error) {
	day, err := r.BellSchedule(t)
	if err != nil {
		return nil, err
	}

	return day.Class(t), nil
}

// CurrentPeriod returns the name of the current class or an empty string if no class is taking place.
func (r *Resolver) CurrentPeriod(t time.Time) (string, error) {
	c, err := r.CurrentClass(t)
	if err != nil || c == nil {
		return "", err
	}

	return c.Name, nil
}

// NextClass returns the class following the one taking place at t.
//
// If no class is taking place, the first class starting after t is returned, which is the first class of the day
// before school starts. After the last class of a day, or on a day not in session, the first class of the next
// school day is returned.
func (r *Resolver) NextClass(t time.Time) (*Class, error) {
	day, err := r.BellSchedule(t)
	if err != nil {
		return nil, err
	}

	from := len(day.Classes)
	if current := day.index(t); current >= 0 {
		from = current + 1
	} else {
		for i := range day.Classes {
			if day.Classes[i].Start.After(t) {
				from = i
				break
			}
		}
	}

	if c := r.upcoming(day, from); c != nil {
		return c, nil
	}

	return r.firstClassAfter(day.Date, t.Location())
}

// firstClassAfter returns the first class of the next school day after d that has any classes.
func (r *Resolver) firstClassAfter(d calendar.Date, loc *time.Location) (*Class, error) {
	for {
		info, err := r.nextSchoolDayAfter(d)
		if err != nil {
			return nil, err
		}

		if c := r.upcoming(r.dayOf(info, loc), 0); c != nil {
			return c, nil
		}

		r.logger.Debugw("School day has no classes, continuing search", zap.Stringer("date", info.Date))
		d = info.Date
	}
}

// upcoming returns the first class of day at or after index from, stepping over passing periods if configured.
func (r *Resolver) upcoming(day *Day, from int) *Class {
	for i := from; i < len(day.Classes); i++ {
		c := day.Classes[i]
		if r.skipPassing && strings.HasPrefix(c.Name, passingPrefix) {
			continue
		}

		return &c
	}

	return nil
}
