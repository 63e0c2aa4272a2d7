package schedule

import (
	"github.com/stuyutils/schoolday/internal/calendar"
	"time"
)

// Class is a period of a concrete school day, i.e. a bell.Period combined with a calendar date.
type Class struct {
	Name  string
	Start time.Time
	End   time.Time
}

// Contains returns whether t lies within the class. Both boundaries are inclusive, so a class that ends at
// 10:05 still contains 10:05:00 but no longer 10:05:01.
func (c *Class) Contains(t time.Time) bool {
	return !t.Before(c.Start) && !t.After(c.End)
}

// Duration returns the length of the class.
func (c *Class) Duration() time.Duration {
	return c.End.Sub(c.Start)
}

func (c *Class) String() string {
	return c.Name + " (" + c.Start.Format(time.TimeOnly) + "-" + c.End.Format(time.TimeOnly) + ")"
}

// Day is the resolved bell schedule of a single school day.
type Day struct {
	// Date is the school day the classes belong to. It differs from the queried date if that one was not in session.
	Date calendar.Date
	Info calendar.DayInfo

	// Variant is the variant whose bell schedule was applied, after falling back to Regular if necessary.
	Variant calendar.Variant

	// Classes are ordered as in the bell schedule.
	Classes []Class
}

// index returns the position of the first class containing t or -1.
func (d *Day) index(t time.Time) int {
	for i := range d.Classes {
		if d.Classes[i].Contains(t) {
			return i
		}
	}

	return -1
}

// Class returns the first class in schedule order that contains t, or nil.
func (d *Day) Class(t time.Time) *Class {
	if i := d.index(t); i >= 0 {
		c := d.Classes[i]
		return &c
	}

	return nil
}

// Contains returns whether any class of the day covers t.
func (d *Day) Contains(t time.Time) bool {
	return d.index(t) >= 0
}

// Lookup returns the class with the given name, or nil.
func (d *Day) Lookup(name string) *Class {
	for _, c := range d.Classes {
		if c.Name == name {
			return &c
		}
	}

	return nil
}

// NextTransition returns the earliest class start or end strictly after base.
//
// The zero time.Time is returned if there is no such boundary left on this day.
func (d *Day) NextTransition(base time.Time) time.Time {
	var transition time.Time
	for _, c := range d.Classes {
		for _, boundary := range [...]time.Time{c.Start, c.End} {
			if boundary.After(base) && (transition.IsZero() || boundary.Before(transition)) {
				transition = boundary
			}
		}
	}

	return transition
}
