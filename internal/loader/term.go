package loader

import (
	"context"
	"github.com/pkg/errors"
	"github.com/stuyutils/schoolday/internal/calendar"
	"github.com/teambition/rrule-go"
	"time"
)

// TermConfig generates a calendar from a few rules instead of listing every single day.
type TermConfig struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`

	// SchoolDays is an RFC 5545 RRULE selecting the days in session, starting at Start.
	SchoolDays string `yaml:"school-days" default:"FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR"`

	// Cycles rotate over the days in session. Days not in session don't advance the rotation.
	Cycles []string `yaml:"cycles" default:"[\"A\",\"B\"]"`

	Variant string `yaml:"variant" default:"Regular"`

	Overrides []DayOverride `yaml:"overrides"`
}

// DayOverride changes single generated days, e.g. holidays or conference days.
type DayOverride struct {
	Date      string `yaml:"date"`
	InSession *bool  `yaml:"in-session"`
	Cycle     string `yaml:"cycle"`
	Variant   string `yaml:"variant"`
	Testing   string `yaml:"testing"`
	Events    string `yaml:"events"`
}

func (c *TermConfig) Validate() error {
	start, err := calendar.ParseDate(c.Start)
	if err != nil {
		return errors.Wrap(err, "start")
	}
	end, err := calendar.ParseDate(c.End)
	if err != nil {
		return errors.Wrap(err, "end")
	}
	if end.Before(start) {
		return errors.Errorf("term ends on %s before it starts on %s", end, start)
	}

	if _, err := rrule.StrToROptionInLocation(c.SchoolDays, time.UTC); err != nil {
		return errors.Wrapf(err, "invalid school-days rule %q", c.SchoolDays)
	}

	for _, o := range c.Overrides {
		if _, err := calendar.ParseDate(o.Date); err != nil {
			return errors.Wrap(err, "override")
		}
	}

	return nil
}

// GenerateTerm returns one DayInfo for every date from the term start up to and including its end.
func GenerateTerm(c TermConfig) ([]calendar.DayInfo, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	start := calendar.MustParseDate(c.Start)
	end := calendar.MustParseDate(c.End)

	option, err := rrule.StrToROptionInLocation(c.SchoolDays, time.UTC)
	if err != nil {
		return nil, err
	}
	option.Dtstart = start.In(time.UTC)
	if option.Until.IsZero() && option.Count == 0 {
		option.Until = end.In(time.UTC)
	}

	rule, err := rrule.NewRRule(*option)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid school-days rule %q", c.SchoolDays)
	}

	schoolDays := make(map[calendar.Date]bool)
	for _, t := range rule.Between(start.In(time.UTC), end.In(time.UTC), true) {
		d, _ := calendar.DateOf(t)
		schoolDays[d] = true
	}

	overrides := make(map[calendar.Date]DayOverride, len(c.Overrides))
	for _, o := range c.Overrides {
		overrides[calendar.MustParseDate(o.Date)] = o
	}

	variant := calendar.ParseVariant(c.Variant)

	var days []calendar.DayInfo
	var rotation int
	for d := start; !d.After(end); d = d.AddDays(1) {
		day := calendar.DayInfo{Date: d, InSession: schoolDays[d]}

		o, overridden := overrides[d]
		if overridden && o.InSession != nil {
			day.InSession = *o.InSession
		}

		if day.InSession {
			day.Variant = variant
			if len(c.Cycles) > 0 {
				day.Cycle = calendar.NullableText(c.Cycles[rotation%len(c.Cycles)])
				rotation++
			}
		}

		if overridden {
			if o.Cycle != "" {
				day.Cycle = calendar.NullableText(o.Cycle)
			}
			if o.Variant != "" {
				day.Variant = calendar.ParseVariant(o.Variant)
			}
			day.Testing = calendar.NullableText(o.Testing)
			day.Events = calendar.NullableText(o.Events)
		}

		days = append(days, day)
	}

	return days, nil
}

// termSource replaces the calendar of the embedded Source by a generated one.
type termSource struct {
	Source
	term TermConfig
}

func (s *termSource) Calendar(context.Context) ([]calendar.DayInfo, error) {
	return GenerateTerm(s.term)
}

// Close closes the embedded Source if it holds any resources.
func (s *termSource) Close() error {
	if c, ok := s.Source.(interface{ Close() error }); ok {
		return c.Close()
	}

	return nil
}
