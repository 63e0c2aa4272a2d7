package schedule_test

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stuyutils/schoolday/internal/bell"
	"github.com/stuyutils/schoolday/internal/calendar"
	"github.com/stuyutils/schoolday/internal/clock"
	"github.com/stuyutils/schoolday/internal/schedule"
	"go.uber.org/zap/zaptest"
	"testing"
	"time"
)

func TestResolver(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t)

	t.Run("DayNotInData", func(t *testing.T) {
		missing := at("2024-02-01 09:00:00")

		_, err := r.DayInfo(missing)
		assert.ErrorIs(t, err, calendar.ErrDayNotInData)

		for _, forceSame := range []bool{false, true} {
			_, err = r.NextSchoolDay(missing, forceSame)
			assert.ErrorIs(t, err, calendar.ErrDayNotInData)
		}

		_, err = r.BellSchedule(missing)
		assert.ErrorIs(t, err, calendar.ErrDayNotInData)

		_, err = r.CurrentClass(missing)
		assert.ErrorIs(t, err, calendar.ErrDayNotInData)

		_, err = r.NextClass(missing)
		assert.ErrorIs(t, err, calendar.ErrDayNotInData)

		_, err = r.CurrentPeriod(missing)
		assert.ErrorIs(t, err, calendar.ErrDayNotInData)
	})

	t.Run("InvalidDate", func(t *testing.T) {
		_, err := r.BellSchedule(time.Time{})
		assert.ErrorIs(t, err, calendar.ErrInvalidDate)

		_, err = r.NextClass(time.Time{})
		assert.ErrorIs(t, err, calendar.ErrInvalidDate)
	})

	t.Run("DayInfo", func(t *testing.T) {
		info, err := r.DayInfo(at("2024-01-08 15:00:00"))
		require.NoError(t, err)
		assert.Equal(t, calendar.MustParseDate("2024-01-08"), info.Date)
		assert.True(t, info.InSession)
		assert.Equal(t, "B", info.Cycle.String)
		assert.Equal(t, calendar.Regular, info.Variant)
	})
}

func TestResolver_NextSchoolDay(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t)

	t.Run("ForceSame", func(t *testing.T) {
		for _, day := range []string{"2024-01-06", "2024-01-07", "2024-01-08", "2024-01-12"} {
			got, err := r.NextSchoolDay(at(day+" 12:00:00"), true)
			require.NoError(t, err)
			assert.Equal(t, calendar.MustParseDate(day), got)
		}
	})

	t.Run("InSession", func(t *testing.T) {
		got, err := r.NextSchoolDay(at("2024-01-08 23:00:00"), false)
		require.NoError(t, err)
		assert.Equal(t, calendar.MustParseDate("2024-01-08"), got)
	})

	t.Run("SkipsDaysNotInSession", func(t *testing.T) {
		for _, day := range []string{"2024-01-06", "2024-01-07"} {
			got, err := r.NextSchoolDay(at(day+" 00:00:00"), false)
			require.NoError(t, err)
			assert.Equal(t, calendar.MustParseDate("2024-01-08"), got)
		}
	})

	t.Run("SkipsDatesMissingFromTable", func(t *testing.T) {
		r := newResolver(t, []calendar.DayInfo{
			{Date: calendar.MustParseDate("2024-03-01")},
			{Date: calendar.MustParseDate("2024-03-05"), InSession: true},
		})

		got, err := r.NextSchoolDay(at("2024-03-01 08:00:00"), false)
		require.NoError(t, err)
		assert.Equal(t, calendar.MustParseDate("2024-03-05"), got)
	})

	t.Run("Exhausted", func(t *testing.T) {
		_, err := r.NextSchoolDay(at("2024-01-12 08:00:00"), false)
		assert.ErrorIs(t, err, schedule.ErrScheduleExhausted)
	})
}

func TestResolver_BellSchedule(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t)

	t.Run("SchoolDay", func(t *testing.T) {
		day, err := r.BellSchedule(at("2024-01-08 06:00:00"))
		require.NoError(t, err)
		assert.Equal(t, calendar.MustParseDate("2024-01-08"), day.Date)
		assert.Equal(t, calendar.Regular, day.Variant)
		assert.Equal(t, []schedule.Class{
			{Name: "Homeroom", Start: at("2024-01-08 08:00:00"), End: at("2024-01-08 08:05:00")},
			{Name: "Period 1", Start: at("2024-01-08 08:10:00"), End: at("2024-01-08 09:00:00")},
			{Name: "Period 2", Start: at("2024-01-08 09:05:00"), End: at("2024-01-08 09:55:00")},
		}, day.Classes)
	})

	t.Run("DayNotInSessionUsesNextSchoolDay", func(t *testing.T) {
		sunday, err := r.BellSchedule(at("2024-01-07 12:00:00"))
		require.NoError(t, err)
		monday, err := r.BellSchedule(at("2024-01-08 12:00:00"))
		require.NoError(t, err)

		assert.Equal(t, monday, sunday)
	})

	t.Run("Variant", func(t *testing.T) {
		day, err := r.BellSchedule(at("2024-01-09 12:00:00"))
		require.NoError(t, err)
		assert.Equal(t, calendar.Conference, day.Variant)
		assert.Equal(t, calendar.Conference, day.Info.Variant)
	})

	t.Run("FallbackToRegular", func(t *testing.T) {
		for _, day := range []string{"2024-01-10", "2024-01-11"} {
			got, err := r.BellSchedule(at(day + " 12:00:00"))
			require.NoError(t, err)
			assert.Equalf(t, calendar.Regular, got.Variant, "bell schedule of %s", day)
			assert.Len(t, got.Classes, 3)
		}
	})

	t.Run("KeepsLocation", func(t *testing.T) {
		loc := time.FixedZone("EST", -5*60*60)
		day, err := r.BellSchedule(time.Date(2024, time.January, 8, 8, 30, 0, 0, loc))
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, time.January, 8, 8, 0, 0, 0, loc), day.Classes[0].Start)
	})

	t.Run("Exhausted", func(t *testing.T) {
		_, err := r.BellSchedule(at("2024-01-12 12:00:00"))
		assert.ErrorIs(t, err, schedule.ErrScheduleExhausted)
	})
}

func TestResolver_CurrentClass(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t)

	t.Run("WithinPeriod", func(t *testing.T) {
		c, err := r.CurrentClass(at("2024-01-08 08:30:00"))
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, &schedule.Class{
			Name:  "Period 1",
			Start: at("2024-01-08 08:10:00"),
			End:   at("2024-01-08 09:00:00"),
		}, c)
	})

	t.Run("ClosedInterval", func(t *testing.T) {
		for _, ts := range []string{"2024-01-05 09:10:00", "2024-01-05 10:05:00"} {
			name, err := r.CurrentPeriod(at(ts))
			require.NoError(t, err)
			assert.Equalf(t, "Period 1", name, "period at %s", ts)
		}

		c, err := r.CurrentClass(at("2024-01-05 10:05:01"))
		require.NoError(t, err)
		assert.Nil(t, c)
	})

	t.Run("BeforeAndAfterSchool", func(t *testing.T) {
		for _, ts := range []string{"2024-01-08 07:59:59", "2024-01-08 09:55:01", "2024-01-08 18:00:00"} {
			c, err := r.CurrentClass(at(ts))
			require.NoError(t, err)
			assert.Nilf(t, c, "class at %s", ts)
		}
	})

	t.Run("BetweenPeriods", func(t *testing.T) {
		name, err := r.CurrentPeriod(at("2024-01-08 08:07:00"))
		require.NoError(t, err)
		assert.Empty(t, name)
	})

	t.Run("DayNotInSession", func(t *testing.T) {
		c, err := r.CurrentClass(at("2024-01-07 08:30:00"))
		require.NoError(t, err)
		assert.Nil(t, c, "classes of the next school day must not cover a weekend")
	})

	t.Run("SharedBoundaryPrefersEarlierPeriod", func(t *testing.T) {
		name, err := r.CurrentPeriod(at("2024-01-09 08:40:00"))
		require.NoError(t, err)
		assert.Equal(t, "Period 1", name)
	})
}

func TestResolver_NextClass(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t)

	tests := []struct {
		name  string
		at    string
		want  string
		start string
	}{
		{"FollowingPeriod", "2024-01-08 08:30:00", "Period 2", "2024-01-08 09:05:00"},
		{"BeforeSchool", "2024-01-08 06:00:00", "Homeroom", "2024-01-08 08:00:00"},
		{"BetweenPeriods", "2024-01-08 08:07:00", "Period 1", "2024-01-08 08:10:00"},
		{"DuringLastPeriod", "2024-01-08 09:30:00", "Period 1", "2024-01-09 08:00:00"},
		{"AfterSchool", "2024-01-08 16:00:00", "Period 1", "2024-01-09 08:00:00"},
		{"DayNotInSession", "2024-01-06 12:00:00", "Homeroom", "2024-01-08 08:00:00"},
		{"PassingPeriodIsReturned", "2024-01-09 08:20:00", "Passing 1-2", "2024-01-09 08:40:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := r.NextClass(at(tt.at))
			require.NoError(t, err)
			require.NotNil(t, c)
			assert.Equal(t, tt.want, c.Name)
			assert.Equal(t, at(tt.start), c.Start)
		})
	}

	t.Run("SkipPassing", func(t *testing.T) {
		r := newTestResolver(t, schedule.WithSkipPassing(true))

		c, err := r.NextClass(at("2024-01-09 08:20:00"))
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, "Period 2", c.Name)
	})

	t.Run("Exhausted", func(t *testing.T) {
		_, err := r.NextClass(at("2024-01-11 16:00:00"))
		assert.ErrorIs(t, err, schedule.ErrScheduleExhausted)
	})

	t.Run("SkipsSchoolDaysWithoutClasses", func(t *testing.T) {
		r := newResolver(t, []calendar.DayInfo{
			{Date: calendar.MustParseDate("2024-03-04"), InSession: true, Variant: calendar.Regular},
			{Date: calendar.MustParseDate("2024-03-05"), InSession: true, Variant: calendar.PTC},
			{Date: calendar.MustParseDate("2024-03-06"), InSession: true, Variant: calendar.Regular},
		})

		c, err := r.NextClass(at("2024-03-04 17:00:00"))
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, at("2024-03-06 08:00:00"), c.Start)
	})
}

func TestWithLogger(t *testing.T) {
	t.Parallel()

	table, err := calendar.NewTable([]calendar.DayInfo{
		{Date: calendar.MustParseDate("2024-01-07")},
		{Date: calendar.MustParseDate("2024-01-08"), InSession: true, Variant: calendar.Unrecognized},
	})
	require.NoError(t, err)
	catalog, err := bell.NewCatalog(mustSchedule(t, calendar.Regular, "Period 1", "08:10", "09:00"))
	require.NoError(t, err)

	r := schedule.NewResolver(table, catalog, schedule.WithLogger(nil))

	// Both the day not in session and the variant fallback are logged.
	var day *schedule.Day
	require.NotPanics(t, func() { day, err = r.BellSchedule(at("2024-01-07 12:00:00")) })
	require.NoError(t, err)
	assert.Equal(t, calendar.MustParseDate("2024-01-08"), day.Date)
	assert.Equal(t, calendar.Regular, day.Variant)
}

func TestDay(t *testing.T) {
	t.Parallel()

	r := newTestResolver(t)
	day, err := r.BellSchedule(at("2024-01-08 00:00:00"))
	require.NoError(t, err)

	t.Run("Contains", func(t *testing.T) {
		assert.True(t, day.Contains(at("2024-01-08 08:05:00")))
		assert.False(t, day.Contains(at("2024-01-08 08:06:00")))
	})

	t.Run("Lookup", func(t *testing.T) {
		c := day.Lookup("Period 2")
		require.NotNil(t, c)
		assert.Equal(t, 50*time.Minute, c.Duration())
		assert.Nil(t, day.Lookup("Period 9"))
	})

	t.Run("NextTransition", func(t *testing.T) {
		assert.Equal(t, at("2024-01-08 08:00:00"), day.NextTransition(at("2024-01-08 07:00:00")))
		assert.Equal(t, at("2024-01-08 08:05:00"), day.NextTransition(at("2024-01-08 08:00:00")))
		assert.Equal(t, at("2024-01-08 09:00:00"), day.NextTransition(at("2024-01-08 08:30:00")))
		assert.True(t, day.NextTransition(at("2024-01-08 09:55:00")).IsZero())
	})
}

func newTestResolver(t *testing.T, opts ...schedule.Option) *schedule.Resolver {
	return newResolver(t, []calendar.DayInfo{
		{Date: calendar.MustParseDate("2024-01-05"), InSession: true, Cycle: calendar.NullableText("A"), Variant: calendar.Homeroom},
		{Date: calendar.MustParseDate("2024-01-06")},
		{Date: calendar.MustParseDate("2024-01-07")},
		{Date: calendar.MustParseDate("2024-01-08"), InSession: true, Cycle: calendar.NullableText("B"), Variant: calendar.Regular},
		{Date: calendar.MustParseDate("2024-01-09"), InSession: true, Cycle: calendar.NullableText("A"), Variant: calendar.Conference},
		{Date: calendar.MustParseDate("2024-01-10"), InSession: true, Cycle: calendar.NullableText("B"), Variant: calendar.VariantNone},
		{Date: calendar.MustParseDate("2024-01-11"), InSession: true, Cycle: calendar.NullableText("A"), Variant: calendar.Unrecognized},
		{Date: calendar.MustParseDate("2024-01-12"), Events: calendar.NullableText("Staff Development")},
	}, opts...)
}

func newResolver(t *testing.T, days []calendar.DayInfo, opts ...schedule.Option) *schedule.Resolver {
	table, err := calendar.NewTable(days)
	require.NoError(t, err)

	regular := mustSchedule(t, calendar.Regular,
		"Homeroom", "08:00", "08:05",
		"Period 1", "08:10", "09:00",
		"Period 2", "09:05", "09:55")
	conference := mustSchedule(t, calendar.Conference,
		"Period 1", "08:00", "08:40",
		"Passing 1-2", "08:40", "08:45",
		"Period 2", "08:45", "09:25")
	homeroom := mustSchedule(t, calendar.Homeroom,
		"Homeroom", "08:45", "09:05",
		"Period 1", "09:10", "10:05")
	ptc := mustSchedule(t, calendar.PTC)

	catalog, err := bell.NewCatalog(regular, conference, homeroom, ptc)
	require.NoError(t, err)

	opts = append([]schedule.Option{schedule.WithLogger(zaptest.NewLogger(t).Sugar())}, opts...)
	return schedule.NewResolver(table, catalog, opts...)
}

// mustSchedule builds a bell schedule from name, start and end triples.
func mustSchedule(t *testing.T, v calendar.Variant, fields ...string) *bell.Schedule {
	require.Zero(t, len(fields)%3, "fields must be name, start, end triples")

	var periods []bell.Period
	for i := 0; i < len(fields); i += 3 {
		periods = append(periods, bell.Period{
			Name:  fields[i],
			Start: clock.MustParse(fields[i+1]),
			End:   clock.MustParse(fields[i+2]),
		})
	}

	s, err := bell.NewSchedule(v, periods)
	require.NoError(t, err)

	return s
}

func at(value string) time.Time {
	t, err := time.ParseInLocation(time.DateTime, value, time.UTC)
	if err != nil {
		panic(err)
	}

	return t
}
