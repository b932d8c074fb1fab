// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tz

import (
	"testing"
	"time"

	"github.com/kelridge/icalcore/instant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDummyWestern builds the "Test-Dummy-Western" zone used by the
// spring-forward/fall-back scenarios: standard -5h, daylight -4h, DST
// 1987-04-05 02:00 local through 1987-10-25 02:00 local.
func testDummyWestern(t *testing.T) *ZoneData {
	t.Helper()
	raw := RawZone{
		TZID: "Test-Dummy-Western",
		Phases: []RawPhase{
			{
				Kind:       DaylightPhase,
				DTStart:    "19870405T020000",
				OffsetFrom: "-0500",
				OffsetTo:   "-0400",
				Names:      []string{"TDT"},
			},
			{
				Kind:       StandardPhase,
				DTStart:    "19871025T020000",
				OffsetFrom: "-0400",
				OffsetTo:   "-0500",
				Names:      []string{"TST"},
			},
		},
	}
	z, err := DecodeVTimezone(raw, time.Date(1987, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return z
}

func localWall(y, mo, d, h, mi, s int) instant.WallClock {
	return instant.WallClock{Year: y, Month: mo, Day: d, Hour: h, Minute: mi, Second: s}
}

// S2: spring-forward ambiguity.
func TestSpringForwardGap(t *testing.T) {
	z := testDummyWestern(t)

	_, _, _, valid := z.OffsetAtLocal(localWall(1987, 4, 5, 2, 30, 0))
	assert.False(t, valid, "02:30 local falls in the spring-forward gap")

	off, _, ambiguous, valid := z.OffsetAtLocal(localWall(1987, 4, 5, 1, 59, 59))
	require.True(t, valid)
	assert.False(t, ambiguous)
	assert.Equal(t, -5*3600, off)

	off, _, ambiguous, valid = z.OffsetAtLocal(localWall(1987, 4, 5, 3, 0, 0))
	require.True(t, valid)
	assert.False(t, ambiguous)
	assert.Equal(t, -4*3600, off)
}

// S3: fall-back overlap.
func TestFallBackOverlap(t *testing.T) {
	z := testDummyWestern(t)

	off1, off2, ambiguous, valid := z.OffsetAtLocal(localWall(1987, 10, 25, 1, 30, 0))
	require.True(t, valid)
	require.True(t, ambiguous)
	assert.Equal(t, -4*3600, off1)
	assert.Equal(t, -5*3600, off2)

	i := instant.Instant{
		Wall:             localWall(1987, 10, 25, 1, 30, 0),
		Spec:             instant.SpecNamed("Test-Dummy-Western"),
		SecondOccurrence: true,
	}
	coll := NewCollection()
	coll.Add(z)
	utc, ok := i.ToUTC(coll)
	require.True(t, ok)
	wantUTC := i.Wall.AsTime().Add(-time.Duration(off2) * time.Second)
	assert.True(t, utc.Equal(wantUTC))
}

// T4: offsetAtUtc always resolves to a phase offset, or
// previousUtcOffset before the first transition.
func TestOffsetAtUTCBeforeFirstTransition(t *testing.T) {
	z := testDummyWestern(t)
	off, ok := z.OffsetAtUTC(time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, z.PreviousOffset, off)

	off, ok = z.OffsetAtUTC(time.Date(1987, 6, 1, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, -4*3600, off)

	off, ok = z.OffsetAtUTC(time.Date(1987, 12, 1, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, -5*3600, off)
}

func TestCollectionResolvesUTCWithoutLookup(t *testing.T) {
	coll := NewCollection()
	off, ok := coll.OffsetAtUTC("UTC", time.Now())
	require.True(t, ok)
	assert.Equal(t, 0, off)

	_, ok = coll.OffsetAtUTC("America/Nowhere", time.Now())
	assert.False(t, ok)
}

func TestDefaultCollectionIdempotent(t *testing.T) {
	a := Default()
	b := Default()
	assert.Same(t, a, b)
}

func TestDecodeVTimezoneExpandsRRule(t *testing.T) {
	raw := RawZone{
		TZID: "Test-Dummy-RRule",
		Phases: []RawPhase{
			{
				Kind:       DaylightPhase,
				DTStart:    "19870405T020000",
				OffsetFrom: "-0500",
				OffsetTo:   "-0400",
				Names:      []string{"TDT"},
				RRuleValue: "FREQ=YEARLY;BYMONTH=4;BYDAY=1SU;BYHOUR=2;BYMINUTE=0;BYSECOND=0",
			},
			{
				Kind:       StandardPhase,
				DTStart:    "19871025T020000",
				OffsetFrom: "-0400",
				OffsetTo:   "-0500",
				Names:      []string{"TST"},
				RRuleValue: "FREQ=YEARLY;BYMONTH=10;BYDAY=-1SU;BYHOUR=2;BYMINUTE=0;BYSECOND=0",
			},
		},
	}
	z, err := DecodeVTimezone(raw, time.Date(1987, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	// horizon is 20 years past 1987 => expect several transition pairs.
	assert.Greater(t, len(z.Transitions), 4)

	off, ok := z.OffsetAtUTC(time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, -4*3600, off)
}

func TestEncodeVTimezoneRoundTripsOffsets(t *testing.T) {
	z := testDummyWestern(t)
	text := EncodeVTimezone(z)
	assert.Contains(t, text, "TZID:Test-Dummy-Western")
	assert.Contains(t, text, "TZOFFSETFROM:-0500")
	assert.Contains(t, text, "TZOFFSETTO:-0400")
	assert.Contains(t, text, "BEGIN:DAYLIGHT")
	assert.Contains(t, text, "BEGIN:STANDARD")
}
