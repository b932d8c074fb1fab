// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package itip_test

import (
	"testing"

	"github.com/kelridge/icalcore/instant"
	"github.com/kelridge/icalcore/itip"
	"github.com/kelridge/icalcore/model"
	"github.com/kelridge/icalcore/recur"
	"github.com/kelridge/icalcore/rrule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedDt(y, m, d, h, mi, s, offsetSeconds int) instant.Instant {
	return instant.New(y, m, d, h, mi, s, instant.SpecFixed(offsetSeconds))
}

func TestPrepareOutgoingShiftsNonRecurringInstantsToUTC(t *testing.T) {
	e := &model.Event{IncidenceBase: model.NewIncidenceBase("evt-out-1")}
	e.DTStart = fixedDt(2026, 1, 15, 9, 0, 0, -5*3600)
	e.DTEnd = fixedDt(2026, 1, 15, 10, 0, 0, -5*3600)
	e.HasEndDate = true

	out := itip.PrepareOutgoing(e, nil)
	ev := out.(*model.Event)

	assert.Equal(t, instant.UTC, ev.DTStart.Spec.Kind)
	assert.Equal(t, 14, ev.DTStart.Wall.Hour)
	assert.Equal(t, instant.UTC, ev.DTEnd.Spec.Kind)
	assert.Equal(t, 15, ev.DTEnd.Wall.Hour)

	assert.Equal(t, -5*3600, e.DTStart.Spec.OffsetSeconds, "the source incidence must be untouched")
}

func TestPrepareOutgoingLeavesRecurringInstantsAlone(t *testing.T) {
	e := &model.Event{IncidenceBase: model.NewIncidenceBase("evt-out-2")}
	e.DTStart = fixedDt(2026, 1, 15, 9, 0, 0, -5*3600)
	e.Recurrence = recur.New(e.DTStart, nil, false)
	rule, err := rrule.ParseRRule("FREQ=DAILY;COUNT=3", e.DTStart)
	require.NoError(t, err)
	e.Recurrence.AddRRule(rule)

	out := itip.PrepareOutgoing(e, nil)
	ev := out.(*model.Event)

	assert.Equal(t, instant.FixedOffset, ev.DTStart.Spec.Kind)
	assert.NotNil(t, ev.Recurrence)
}

func TestPrepareOutgoingSwapsSchedulingIDForUID(t *testing.T) {
	e := &model.Event{IncidenceBase: model.NewIncidenceBase("local-uid")}
	e.SchedulingID = "wire-id"
	e.DTStart = fixedDt(2026, 1, 15, 9, 0, 0, 0)

	out := itip.PrepareOutgoing(e, nil)

	assert.Equal(t, "wire-id", out.Base().UID)
	assert.Equal(t, "local-uid", e.UID, "the local store's own UID must be untouched")
}
