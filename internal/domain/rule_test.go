package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in     string
		minute int
		ok     bool
	}{
		{"00:00", 0, true},
		{"07:30", 450, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"-1:00", 0, false},
		{"noon", 0, false},
		{"", 0, false},
	}

	for _, c := range cases {
		minute, err := ParseClock(c.in)
		if !c.ok {
			assert.Error(t, err, "input %q", c.in)
			continue
		}
		require.NoError(t, err, "input %q", c.in)
		assert.Equal(t, c.minute, minute, "input %q", c.in)
	}
}

func TestFormatClockRoundTrip(t *testing.T) {
	for _, s := range []string{"00:00", "07:30", "18:05", "23:59"} {
		minute, err := ParseClock(s)
		require.NoError(t, err)
		assert.Equal(t, s, FormatClock(minute))
	}
}

func TestMatchesTimeOfDay(t *testing.T) {
	morning := PricingRule{StartMinute: 7 * 60, EndMinute: 10 * 60}

	assert.True(t, morning.MatchesTimeOfDay(7*60), "start is inclusive")
	assert.True(t, morning.MatchesTimeOfDay(9*60+59))
	assert.False(t, morning.MatchesTimeOfDay(10*60), "end is exclusive")
	assert.False(t, morning.MatchesTimeOfDay(6*60+59))
}

func TestMatchesTimeOfDayWrapsMidnight(t *testing.T) {
	night := PricingRule{StartMinute: 22 * 60, EndMinute: 2 * 60}

	assert.True(t, night.MatchesTimeOfDay(22*60))
	assert.True(t, night.MatchesTimeOfDay(23*60+30))
	assert.True(t, night.MatchesTimeOfDay(0))
	assert.True(t, night.MatchesTimeOfDay(1*60+59))
	assert.False(t, night.MatchesTimeOfDay(2*60), "end is exclusive across the wrap")
	assert.False(t, night.MatchesTimeOfDay(12*60))
}

func TestMatchesTimeOfDayDegenerateRangeCoversDay(t *testing.T) {
	allDay := PricingRule{StartMinute: 9 * 60, EndMinute: 9 * 60}

	for _, minute := range []int{0, 9 * 60, 12 * 60, 1439} {
		assert.True(t, allDay.MatchesTimeOfDay(minute), "minute %d", minute)
	}
}

func TestMatchesWeekday(t *testing.T) {
	weekdaysOnly := PricingRule{Weekdays: []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
	}}
	assert.True(t, weekdaysOnly.MatchesWeekday(time.Wednesday))
	assert.False(t, weekdaysOnly.MatchesWeekday(time.Sunday))

	anyDay := PricingRule{}
	assert.True(t, anyDay.MatchesWeekday(time.Sunday), "empty set matches every weekday")
}

func TestEffectiveMultiplierCappedByOwnMax(t *testing.T) {
	rule := PricingRule{Multiplier: 2.5, MaxMultiplier: 2.0}
	assert.Equal(t, 2.0, rule.EffectiveMultiplier())

	within := PricingRule{Multiplier: 1.4, MaxMultiplier: 2.0}
	assert.Equal(t, 1.4, within.EffectiveMultiplier())
}

func TestAppliesToZone(t *testing.T) {
	scoped := PricingRule{ZoneIDs: []string{"downtown", "marina"}}
	assert.True(t, scoped.AppliesToZone("marina"))
	assert.False(t, scoped.AppliesToZone("sunset"))

	global := PricingRule{}
	assert.True(t, global.AppliesToZone("sunset"), "empty scope means all zones")
}
