package bell

import (
	"github.com/pkg/errors"
	"github.com/stuyutils/schoolday/internal/calendar"
	"github.com/stuyutils/schoolday/internal/clock"
	"slices"
)

// Period is a named block of the school day with fixed wall clock boundaries.
type Period struct {
	Name  string
	Start clock.Time
	End   clock.Time
}

// Schedule holds the periods of one variant in the order they occur during the day.
type Schedule struct {
	Variant calendar.Variant
	Periods []Period
}

// NewSchedule validates the given periods and returns a Schedule for v.
//
// Every period must end no earlier than it starts, names must be unique and periods must be listed
// chronologically, i.e. no period may start before its predecessor.
func NewSchedule(v calendar.Variant, periods []Period) (*Schedule, error) {
	if !v.Known() {
		return nil, errors.Errorf("cannot create a bell schedule for variant %s", v)
	}

	seen := make(map[string]struct{}, len(periods))
	for i, p := range periods {
		if p.Name == "" {
			return nil, errors.Errorf("%s period #%d has no name", v, i)
		}
		if _, ok := seen[p.Name]; ok {
			return nil, errors.Errorf("%s period %q is listed twice", v, p.Name)
		}
		seen[p.Name] = struct{}{}

		if p.End.Before(p.Start) {
			return nil, errors.Errorf("%s period %q ends at %s before it starts at %s", v, p.Name, p.End, p.Start)
		}
		if i > 0 && p.Start.Before(periods[i-1].Start) {
			return nil, errors.Errorf("%s period %q starts before the preceding period %q", v, p.Name, periods[i-1].Name)
		}
	}

	return &Schedule{Variant: v, Periods: slices.Clone(periods)}, nil
}

// Index returns the position of the period with the given name or -1.
func (s *Schedule) Index(name string) int {
	return slices.IndexFunc(s.Periods, func(p Period) bool {
		return p.Name == name
	})
}

// First returns the first period of the day. ok is false for an empty schedule.
func (s *Schedule) First() (p Period, ok bool) {
	if len(s.Periods) == 0 {
		return Period{}, false
	}

	return s.Periods[0], true
}

// Last returns the last period of the day. ok is false for an empty schedule.
func (s *Schedule) Last() (p Period, ok bool) {
	if len(s.Periods) == 0 {
		return Period{}, false
	}

	return s.Periods[len(s.Periods)-1], true
}

// Catalog maps a variant to its bell schedule. It is immutable once created by NewCatalog.
type Catalog struct {
	schedules map[calendar.Variant]*Schedule
}

// NewCatalog builds a Catalog from the given schedules. A Regular schedule is mandatory as it serves as the
// fallback for days without a known variant.
func NewCatalog(schedules ...*Schedule) (*Catalog, error) {
	c := &Catalog{schedules: make(map[calendar.Variant]*Schedule, len(schedules))}

	for _, s := range schedules {
		if s == nil {
			continue
		}
		if _, ok := c.schedules[s.Variant]; ok {
			return nil, errors.Errorf("bell schedule %s is defined twice", s.Variant)
		}
		c.schedules[s.Variant] = s
	}

	if _, ok := c.schedules[calendar.Regular]; !ok {
		return nil, errors.New("bell schedule catalog lacks the Regular schedule")
	}

	return c, nil
}

// Schedule returns the schedule of v. Days without a variant, unrecognized labels and variants without a
// schedule of their own fall back to Regular.
func (c *Catalog) Schedule(v calendar.Variant) *Schedule {
	if s, ok := c.schedules[v]; ok {
		return s
	}

	return c.schedules[calendar.Regular]
}

// Has reports whether v has a schedule of its own.
func (c *Catalog) Has(v calendar.Variant) bool {
	_, ok := c.schedules[v]
	return ok
}
