package rrule

import (
	"testing"

	"github.com/kelridge/icalcore/instant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utcStart(y, m, d, h, mi, s int) instant.Instant {
	return instant.New(y, m, d, h, mi, s, instant.SpecUTC())
}

func TestParseRRule(t *testing.T) {
	start := utcStart(2006, 1, 1, 12, 0, 0)

	tests := []struct {
		name    string
		input   string
		wantErr error
		check   func(t *testing.T, r *Rule)
	}{
		{
			name:  "daily with interval and count",
			input: "FREQ=DAILY;INTERVAL=2;COUNT=10",
			check: func(t *testing.T, r *Rule) {
				assert.Equal(t, Daily, r.Period)
				assert.Equal(t, 2, r.Frequency)
				require.NotNil(t, r.Count)
				assert.Equal(t, 10, *r.Count)
			},
		},
		{
			name:    "invalid frequency",
			input:   "FREQ=DALLY;INTERVAL=2;COUNT=10",
			wantErr: ErrInvalidFrequency,
		},
		{
			name:    "missing frequency",
			input:   "INTERVAL=1;COUNT=10",
			wantErr: ErrFrequencyRequired,
		},
		{
			name:    "count and until both set",
			input:   "FREQ=DAILY;COUNT=10;UNTIL=19731224T070000Z",
			wantErr: ErrCountAndUntilBothSet,
		},
		{
			name:    "non-positive interval",
			input:   "FREQ=DAILY;INTERVAL=0;COUNT=10",
			wantErr: ErrInvalidInterval,
		},
		{
			name:  "monthly third-to-last day forever",
			input: "FREQ=MONTHLY;BYMONTHDAY=-3",
			check: func(t *testing.T, r *Rule) {
				assert.Equal(t, []int{-3}, r.ByMonthDay)
				assert.Equal(t, Infinite, r.Term)
			},
		},
		{
			name:  "every other month on Tuesday",
			input: "FREQ=MONTHLY;INTERVAL=2;BYDAY=TU",
			check: func(t *testing.T, r *Rule) {
				require.Len(t, r.ByDay, 1)
				assert.Equal(t, Tuesday, r.ByDay[0].Weekday)
				assert.Equal(t, 0, r.ByDay[0].Pos)
			},
		},
		{
			name:  "yearly 20th Monday",
			input: "FREQ=YEARLY;BYDAY=20MO",
			check: func(t *testing.T, r *Rule) {
				require.Len(t, r.ByDay, 1)
				assert.Equal(t, Monday, r.ByDay[0].Weekday)
				assert.Equal(t, 20, r.ByDay[0].Pos)
			},
		},
		{
			name:  "monthly BYSETPOS third weekday",
			input: "FREQ=MONTHLY;COUNT=3;BYDAY=TU,WE,TH;BYSETPOS=3",
			check: func(t *testing.T, r *Rule) {
				assert.Equal(t, []int{3}, r.BySetPos)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseRRule(tt.input, start)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, r)
		})
	}
}

func TestParseByDay(t *testing.T) {
	tests := []struct {
		input    string
		wantPos  int
		wantDay  Weekday
		wantErr  error
	}{
		{input: "20MO", wantPos: 20, wantDay: Monday},
		{input: "MO", wantPos: 0, wantDay: Monday},
		{input: "-1SU", wantPos: -1, wantDay: Sunday},
		{input: "-2MO", wantPos: -2, wantDay: Monday},
		{input: "", wantErr: ErrInvalidByDayString},
		{input: "5XX", wantErr: ErrInvalidByDayString},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			pos, wd, err := parseByDay(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPos, pos)
			assert.Equal(t, tt.wantDay, wd)
		})
	}
}

// S1 from the testable-scenarios list: daily, count 3, starting
// 2006-01-01 12:00 UTC.
func TestScenarioDailyWithCount(t *testing.T) {
	start := utcStart(2006, 1, 1, 12, 0, 0)
	r, err := ParseRRule("FREQ=DAILY;COUNT=3", start)
	require.NoError(t, err)

	end, ok := r.EndDt(nil)
	require.True(t, ok)
	assert.Equal(t, utcStart(2006, 1, 3, 12, 0, 0), end)

	occ, incomplete := r.TimesInInterval(start, end, nil)
	require.False(t, incomplete)
	require.Len(t, occ, 3)
	assert.Equal(t, utcStart(2006, 1, 1, 12, 0, 0), occ[0])
	assert.Equal(t, utcStart(2006, 1, 2, 12, 0, 0), occ[1])
	assert.Equal(t, utcStart(2006, 1, 3, 12, 0, 0), occ[2])

	assert.Equal(t, 3, r.DurationTo(utcStart(2006, 1, 5, 0, 0, 0), nil))
}

// T2: nextAfter(previousBefore(i)) lands at or before i, strictly
// after previousBefore(i), or reports none.
func TestNextAfterPreviousBeforeRoundTrip(t *testing.T) {
	start := utcStart(2006, 1, 1, 12, 0, 0)
	r, err := ParseRRule("FREQ=DAILY;INTERVAL=2", start)
	require.NoError(t, err)

	probe := utcStart(2006, 2, 15, 0, 0, 0)
	prev, ok := r.PreviousBefore(probe, nil)
	require.True(t, ok)

	next, ok := r.NextAfter(prev, nil)
	if !ok {
		return
	}
	cmp, ok := instant.Compare(next, probe, nil)
	require.True(t, ok)
	assert.LessOrEqual(t, cmp, 0)
	cmpPrev, ok := instant.Compare(next, prev, nil)
	require.True(t, ok)
	assert.Greater(t, cmpPrev, 0)
}

// T3: a COUNT(N) rule's timesInInterval(startDt, endDt()) has exactly
// N elements whenever endDt() resolves.
func TestCountTerminationExactOccurrences(t *testing.T) {
	start := utcStart(2013, 1, 1, 9, 0, 0)
	r, err := ParseRRule("FREQ=WEEKLY;COUNT=5;BYDAY=MO,WE,FR", start)
	require.NoError(t, err)

	end, ok := r.EndDt(nil)
	require.True(t, ok)

	occ, incomplete := r.TimesInInterval(start, end, nil)
	require.False(t, incomplete)
	assert.Len(t, occ, 5)
}

func TestMonthlyByMonthDayNegative(t *testing.T) {
	start := utcStart(2006, 1, 29, 9, 0, 0)
	r, err := ParseRRule("FREQ=MONTHLY;BYMONTHDAY=-3;COUNT=3", start)
	require.NoError(t, err)

	occ, incomplete := r.TimesInInterval(start, utcStart(2006, 6, 1, 0, 0, 0), nil)
	require.False(t, incomplete)
	require.Len(t, occ, 3)
	assert.Equal(t, 29, occ[0].Wall.Day) // Jan has 31 days, -3 => 29
	assert.Equal(t, 26, occ[1].Wall.Day) // Feb 2006 (28 days) -3 => 26
}

func TestBySetPosThirdWeekdayOfMonth(t *testing.T) {
	start := utcStart(2006, 1, 3, 9, 0, 0) // a Tuesday
	r, err := ParseRRule("FREQ=MONTHLY;COUNT=3;BYDAY=TU,WE,TH;BYSETPOS=3", start)
	require.NoError(t, err)

	occ, incomplete := r.TimesInInterval(start, utcStart(2006, 6, 1, 0, 0, 0), nil)
	require.False(t, incomplete)
	require.Len(t, occ, 3)
	for _, o := range occ {
		wd := o.Wall.Weekday()
		assert.Contains(t, []int{2, 3, 4}, wd) // Tue=2..Thu=4
	}
}

func TestHourlyShortcut(t *testing.T) {
	start := utcStart(1997, 9, 2, 9, 0, 0)
	r, err := ParseRRule("FREQ=HOURLY;INTERVAL=3;UNTIL=19970902T170000Z", start)
	require.NoError(t, err)
	assert.True(t, r.hasShortcut)

	next, ok := r.NextAfter(start, nil)
	require.True(t, ok)
	assert.Equal(t, utcStart(1997, 9, 2, 12, 0, 0), next)

	assert.True(t, r.RecursAt(utcStart(1997, 9, 2, 15, 0, 0), nil))
	assert.False(t, r.RecursAt(utcStart(1997, 9, 2, 16, 0, 0), nil))

	_, ok = r.NextAfter(utcStart(1997, 9, 2, 17, 0, 0), nil)
	assert.False(t, ok)
}

func TestString(t *testing.T) {
	start := utcStart(2006, 1, 1, 12, 0, 0)
	r, err := ParseRRule("FREQ=MONTHLY;INTERVAL=2;COUNT=10;BYDAY=1SU,-1SU", start)
	require.NoError(t, err)
	assert.Equal(t, "FREQ=MONTHLY;INTERVAL=2;COUNT=10;BYDAY=1SU,-1SU", r.String())
}
