// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package ical_test

import (
	"strings"
	"testing"

	"github.com/kelridge/icalcore/ical"
	"github.com/kelridge/icalcore/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S4 — the day's two busy periods, 12:00–13:00 and 13:00–14:00 UTC on
// 2006-01-02, decode from a VFREEBUSY that lists them and survive an
// Encode/Decode round trip. The periods are given literally; no events
// are rolled up into them here.
func TestFreeBusyPublishesBusyPeriodsForQueriedDay(t *testing.T) {
	text := `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//icalcore//EN
BEGIN:VFREEBUSY
UID:s4-freebusy
DTSTAMP:20060101T000000Z
DTSTART:20060102T000000Z
DTEND:20060103T000000Z
FREEBUSY:20060102T120000Z/20060102T130000Z,20060102T130000Z/20060102T140000Z
END:VFREEBUSY
END:VCALENDAR
`
	cal, err := ical.Decode(strings.NewReader(text), nil)
	require.NoError(t, err)
	fb := cal.Incidences("s4-freebusy")[0].(*model.FreeBusy)
	require.Len(t, fb.Busy, 2)
	assert.Equal(t, dt(2006, 1, 2, 12, 0, 0), fb.Busy[0].Start)
	assert.Equal(t, dt(2006, 1, 2, 13, 0, 0), fb.Busy[0].End)
	assert.Equal(t, dt(2006, 1, 2, 13, 0, 0), fb.Busy[1].Start)
	assert.Equal(t, dt(2006, 1, 2, 14, 0, 0), fb.Busy[1].End)

	out := ical.Encode(cal)
	assert.Contains(t, out, "FREEBUSY:")
	reDecoded, err := ical.Decode(strings.NewReader(out), nil)
	require.NoError(t, err)
	again := reDecoded.Incidences("s4-freebusy")[0].(*model.FreeBusy)
	assert.True(t, fb.Equal(again))
}

func TestFreeBusyDurationPeriodFormDecodesToAbsoluteEnd(t *testing.T) {
	text := `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//icalcore//EN
BEGIN:VFREEBUSY
UID:s4-freebusy-dur
DTSTAMP:20060101T000000Z
FREEBUSY;FBTYPE=BUSY-TENTATIVE:20060102T120000Z/PT1H
END:VFREEBUSY
END:VCALENDAR
`
	cal, err := ical.Decode(strings.NewReader(text), nil)
	require.NoError(t, err)
	fb := cal.Incidences("s4-freebusy-dur")[0].(*model.FreeBusy)
	require.Len(t, fb.Busy, 1)
	assert.Equal(t, model.FreeBusyStatusBusyTentative, fb.Busy[0].Status)
	assert.Equal(t, dt(2006, 1, 2, 13, 0, 0), fb.Busy[0].End)
}
