// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package ical_test

import (
	"strings"
	"testing"

	"github.com/kelridge/icalcore/ical"
	"github.com/kelridge/icalcore/instant"
	"github.com/kelridge/icalcore/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dt(y, m, d, h, mi, s int) instant.Instant {
	return instant.New(y, m, d, h, mi, s, instant.SpecUTC())
}

// S6 — a calendar with no X-KDE-ICAL-IMPLEMENTATION-VERSION marker
// reinterprets CREATED as DTSTAMP (the legacy libkcal convention).
func TestDecodeLegacyCreatedWithoutMarkerAliasesDTStamp(t *testing.T) {
	text := `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//K Desktop Environment//NONSGML libkcal 3.2//EN
BEGIN:VEVENT
UID:legacy-created-1
DTSTAMP:20031213T204753Z
CREATED:20031213T204152Z
DTSTART:20031213T210000Z
SUMMARY:Legacy event
END:VEVENT
END:VCALENDAR
`
	cal, err := ical.Decode(strings.NewReader(text), nil)
	require.NoError(t, err)
	events := cal.Incidences("legacy-created-1")
	require.Len(t, events, 1)
	ev := events[0].(*model.Event)
	assert.True(t, ev.HasCreated)
	assert.Equal(t, dt(2003, 12, 13, 20, 47, 53), ev.Created)
}

// S6 continued — an implementation-version marker >= 1.0 on the
// VEVENT itself uses CREATED literally, and the marker itself never
// round-trips. Real libkcal exports never place the marker here (see
// TestDecodeCreatedWithCalendarLevelMarkerUsesCreatedLiterally below),
// but a component-level marker still wins if a producer ever sets one.
func TestDecodeCreatedWithModernMarkerUsesCreatedLiterally(t *testing.T) {
	text := `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//K Desktop Environment//NONSGML libkcal 3.2//EN
BEGIN:VEVENT
UID:legacy-created-2
DTSTAMP:20031213T204753Z
CREATED:20031213T204152Z
DTSTART:20031213T210000Z
SUMMARY:Modern event
X-KDE-ICAL-IMPLEMENTATION-VERSION:1.0
END:VEVENT
END:VCALENDAR
`
	cal, err := ical.Decode(strings.NewReader(text), nil)
	require.NoError(t, err)
	ev := cal.Incidences("legacy-created-2")[0].(*model.Event)
	assert.True(t, ev.HasCreated)
	assert.Equal(t, dt(2003, 12, 13, 20, 41, 52), ev.Created)

	out := ical.Encode(cal)
	assert.NotContains(t, out, "X-KDE-ICAL-IMPLEMENTATION-VERSION")
	assert.Contains(t, out, "CREATED:20031213T204152Z")
}

// TestDecodeCreatedWithCalendarLevelMarkerUsesCreatedLiterally mirrors
// libkcal's actual icalFile33 fixture: the marker sits on VCALENDAR,
// never on the VEVENT, and every event in that calendar is governed by
// it.
func TestDecodeCreatedWithCalendarLevelMarkerUsesCreatedLiterally(t *testing.T) {
	text := `BEGIN:VCALENDAR
PRODID:-//K Desktop Environment//NONSGML libkcal 3.2//EN
VERSION:2.0
X-KDE-ICAL-IMPLEMENTATION-VERSION:1.0
BEGIN:VEVENT
DTSTAMP:20031213T204753Z
CREATED:20031213T204152Z
UID:uid
SEQUENCE:0
LAST-MODIFIED:20031213T204152Z
SUMMARY:Holladiho
DTSTART:20031213T071500Z
END:VEVENT
END:VCALENDAR
`
	cal, err := ical.Decode(strings.NewReader(text), nil)
	require.NoError(t, err)
	ev := cal.Incidences("uid")[0].(*model.Event)
	assert.True(t, ev.HasCreated)
	assert.Equal(t, dt(2003, 12, 13, 20, 41, 52), ev.Created)
}

// TestDecodeLegacyCreatedWithoutCalendarMarkerAliasesDTStamp mirrors
// libkcal's icalFile32 fixture: no marker anywhere in the calendar, so
// CREATED is aliased to DTSTAMP exactly as in the no-marker case above.
func TestDecodeLegacyCreatedWithoutCalendarMarkerAliasesDTStamp(t *testing.T) {
	text := `BEGIN:VCALENDAR
PRODID:-//K Desktop Environment//NONSGML libkcal 3.2//EN
VERSION:2.0
BEGIN:VEVENT
DTSTAMP:20031213T204753Z
ORGANIZER:MAILTO:nobody@nowhere
CREATED:20031213T204152Z
UID:uid
SEQUENCE:0
LAST-MODIFIED:20031213T204152Z
SUMMARY:Holladiho
DTSTART:20031213T071500Z
END:VEVENT
END:VCALENDAR
`
	cal, err := ical.Decode(strings.NewReader(text), nil)
	require.NoError(t, err)
	ev := cal.Incidences("uid")[0].(*model.Event)
	assert.True(t, ev.HasCreated)
	assert.Equal(t, dt(2003, 12, 13, 20, 47, 53), ev.Created)
}

func TestDecodeXLICLocationSubstitutesForAbsentLocation(t *testing.T) {
	text := `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//icalcore//EN
BEGIN:VEVENT
UID:lic-location-1
DTSTAMP:20260101T000000Z
DTSTART:20260115T090000Z
SUMMARY:Offsite
X-LIC-LOCATION:Conference Room B
END:VEVENT
END:VCALENDAR
`
	cal, err := ical.Decode(strings.NewReader(text), nil)
	require.NoError(t, err)
	ev := cal.Incidences("lic-location-1")[0].(*model.Event)
	assert.Equal(t, "Conference Room B", ev.Location)
}

func TestDecodeXLICLocationDoesNotOverrideExplicitLocation(t *testing.T) {
	text := `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//icalcore//EN
BEGIN:VEVENT
UID:lic-location-2
DTSTAMP:20260101T000000Z
DTSTART:20260115T090000Z
SUMMARY:Offsite
LOCATION:Main Hall
X-LIC-LOCATION:Conference Room B
END:VEVENT
END:VCALENDAR
`
	cal, err := ical.Decode(strings.NewReader(text), nil)
	require.NoError(t, err)
	ev := cal.Incidences("lic-location-2")[0].(*model.Event)
	assert.Equal(t, "Main Hall", ev.Location)
}

// S1 — daily with count.
func TestDecodeDailyWithCountExpandsThreeOccurrences(t *testing.T) {
	text := `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//icalcore//EN
BEGIN:VEVENT
UID:s1-daily
DTSTAMP:20060101T120000Z
DTSTART:20060101T120000Z
DTEND:20060101T130000Z
RRULE:FREQ=DAILY;COUNT=3
SUMMARY:Daily standup
END:VEVENT
END:VCALENDAR
`
	cal, err := ical.Decode(strings.NewReader(text), nil)
	require.NoError(t, err)
	ev := cal.Incidences("s1-daily")[0].(*model.Event)
	require.NotNil(t, ev.Recurrence)

	occs, incomplete := ev.Recurrence.TimesInInterval(dt(2006, 1, 1, 0, 0, 0), dt(2006, 1, 10, 0, 0, 0))
	require.Len(t, occs, 3)
	assert.False(t, incomplete)
	assert.Equal(t, dt(2006, 1, 1, 12, 0, 0), occs[0])
	assert.Equal(t, dt(2006, 1, 2, 12, 0, 0), occs[1])
	assert.Equal(t, dt(2006, 1, 3, 12, 0, 0), occs[2])

	end, ok := ev.Recurrence.RRules()[0].EndDt(cal.Zones)
	require.True(t, ok)
	assert.Equal(t, dt(2006, 1, 3, 12, 0, 0), end)
}

func TestDecodeRejectsMissingUID(t *testing.T) {
	text := `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//icalcore//EN
BEGIN:VEVENT
DTSTAMP:20260101T000000Z
DTSTART:20260115T090000Z
END:VEVENT
END:VCALENDAR
`
	_, err := ical.Decode(strings.NewReader(text), nil)
	assert.ErrorIs(t, err, ical.ErrMissingUID)
}

func TestDecodeRejectsNonCalendarRoot(t *testing.T) {
	text := `BEGIN:VEVENT
UID:bare-1
DTSTAMP:20260101T000000Z
DTSTART:20260115T090000Z
END:VEVENT
`
	_, err := ical.Decode(strings.NewReader(text), nil)
	assert.ErrorIs(t, err, ical.ErrNoCalendar)
}
