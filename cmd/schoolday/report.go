package main

import (
	"fmt"
	"github.com/pkg/errors"
	"github.com/stuyutils/schoolday/internal/calendar"
	"github.com/stuyutils/schoolday/internal/schedule"
	"io"
	"time"
)

// report prints what is going on at school at t, followed by up to transitions upcoming class boundaries.
func report(w io.Writer, r *schedule.Resolver, t time.Time, transitions int) error {
	info, err := r.DayInfo(t)
	if err != nil {
		return err
	}

	printDayInfo(w, info)

	day, err := r.BellSchedule(t)
	if err != nil {
		if errors.Is(err, schedule.ErrScheduleExhausted) {
			_, _ = fmt.Fprintln(w, "No school day left in the calendar.")
			return nil
		}

		return err
	}

	if day.Date != info.Date {
		_, _ = fmt.Fprintf(w, "Next school day: %s\n", day.Date)
	}
	_, _ = fmt.Fprintf(w, "Bell schedule: %s, %d classes\n", day.Variant, len(day.Classes))

	current, err := r.CurrentClass(t)
	if err != nil {
		return err
	}
	if current != nil {
		_, _ = fmt.Fprintf(w, "Current class: %s, %s left\n", current, current.End.Sub(t))
	} else {
		_, _ = fmt.Fprintln(w, "Current class: none")
	}

	next, err := r.NextClass(t)
	switch {
	case errors.Is(err, schedule.ErrScheduleExhausted):
		_, _ = fmt.Fprintln(w, "Next class: none left in the calendar")
	case err != nil:
		return err
	default:
		var on string
		if d, _ := calendar.DateOf(next.Start); d != info.Date {
			on = " on " + d.String()
		}
		_, _ = fmt.Fprintf(w, "Next class: %s%s, starts in %s\n", next, on, next.Start.Sub(t))
	}

	printTransitions(w, day, t, transitions)

	return nil
}

func printDayInfo(w io.Writer, info *calendar.DayInfo) {
	state := "not in session"
	if info.InSession {
		state = "in session"
	}
	_, _ = fmt.Fprintf(w, "%s (%s): %s\n", info.Date, info.Date.In(time.UTC).Weekday(), state)

	if info.Cycle.Valid {
		_, _ = fmt.Fprintf(w, "  cycle: %s\n", info.Cycle.String)
	}
	if info.Variant != calendar.VariantNone {
		_, _ = fmt.Fprintf(w, "  schedule: %s\n", info.Variant)
	}
	if info.Testing.Valid {
		_, _ = fmt.Fprintf(w, "  testing: %s\n", info.Testing.String)
	}
	if info.Events.Valid {
		_, _ = fmt.Fprintf(w, "  events: %s\n", info.Events.String)
	}
}

func printTransitions(w io.Writer, day *schedule.Day, base time.Time, limit int) {
	if limit <= 0 {
		return
	}

	_, _ = fmt.Fprintln(w, "Upcoming transitions:")

	transitions := 0
	for t := day.NextTransition(base); transitions < limit && !t.IsZero(); t = day.NextTransition(t) {
		for _, c := range day.Classes {
			if c.End.Equal(t) {
				_, _ = fmt.Fprintf(w, "  %s  %s ends\n", t.Format(time.DateTime), c.Name)
			}
			if c.Start.Equal(t) {
				_, _ = fmt.Fprintf(w, "  %s  %s starts\n", t.Format(time.DateTime), c.Name)
			}
		}
		transitions++
	}

	if transitions == 0 {
		_, _ = fmt.Fprintln(w, "  no transition left on this day")
	}
}
