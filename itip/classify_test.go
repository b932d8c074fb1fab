// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package itip_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/kelridge/icalcore/ical"
	"github.com/kelridge/icalcore/instant"
	"github.com/kelridge/icalcore/itip"
	"github.com/kelridge/icalcore/model"
	"github.com/kelridge/icalcore/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dt(y, m, d, h, mi, s int) instant.Instant {
	return instant.New(y, m, d, h, mi, s, instant.SpecUTC())
}

func decodeMessage(t *testing.T, text string) *store.Calendar {
	t.Helper()
	cal, err := ical.Decode(strings.NewReader(text), nil)
	require.NoError(t, err)
	return cal
}

func newReferenceCalendar(t *testing.T) *store.Calendar {
	t.Helper()
	return store.New(nil, false)
}

func seedEvent(t *testing.T, cal *store.Calendar, uid string, sequence int, lastModified instant.Instant) {
	t.Helper()
	e := &model.Event{IncidenceBase: model.NewIncidenceBase(uid)}
	e.DTStart = dt(2026, 1, 15, 9, 0, 0)
	e.Sequence = sequence
	e.LastModified = lastModified
	e.Summary = "existing"
	require.NoError(t, cal.AddIncidence(e))
}

func TestParseMethodRoundTrips(t *testing.T) {
	for _, m := range []itip.Method{
		itip.Publish, itip.Request, itip.Refresh, itip.Cancel,
		itip.Add, itip.Reply, itip.Counter, itip.DeclineCounter,
	} {
		got, err := itip.ParseMethod(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
}

func TestParseMethodRejectsUnknown(t *testing.T) {
	_, err := itip.ParseMethod("BOGUS")
	assert.ErrorIs(t, err, itip.ErrUnknownMethod)
}

func TestParseMethodAcceptsEmptyAsNoMethod(t *testing.T) {
	got, err := itip.ParseMethod("")
	require.NoError(t, err)
	assert.Equal(t, itip.NoMethod, got)
}

const publishTemplate = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//icalcore//EN
METHOD:PUBLISH
BEGIN:VEVENT
UID:%s
DTSTAMP:20260101T000000Z
DTSTART:20260115T090000Z
SEQUENCE:%d
LAST-MODIFIED:%sZ
SUMMARY:Quarterly review
END:VEVENT
END:VCALENDAR
`

func TestClassifyPublishNewWhenReferenceHasNoSuchUID(t *testing.T) {
	msg := decodeMessage(t, fmt.Sprintf(publishTemplate, "evt-classify-1", 0, "20260101T000000"))
	reference := newReferenceCalendar(t)

	class, inc, err := itip.Classify(msg, reference)
	require.NoError(t, err)
	assert.Equal(t, itip.PublishNew, class)
	assert.Equal(t, "evt-classify-1", inc.Base().UID)
}

func TestClassifyPublishUpdateWhenSequenceAdvances(t *testing.T) {
	reference := newReferenceCalendar(t)
	seedEvent(t, reference, "evt-classify-2", 1, dt(2026, 1, 1, 0, 0, 0))

	msg := decodeMessage(t, fmt.Sprintf(publishTemplate, "evt-classify-2", 2, "20260102T000000"))

	class, _, err := itip.Classify(msg, reference)
	require.NoError(t, err)
	assert.Equal(t, itip.PublishUpdate, class)
}

func TestClassifyObsoleteWhenSequenceDoesNotAdvance(t *testing.T) {
	reference := newReferenceCalendar(t)
	seedEvent(t, reference, "evt-classify-3", 5, dt(2026, 1, 5, 0, 0, 0))

	msg := decodeMessage(t, fmt.Sprintf(publishTemplate, "evt-classify-3", 5, "20260101T000000"))

	class, _, err := itip.Classify(msg, reference)
	require.NoError(t, err)
	assert.Equal(t, itip.Obsolete, class)
}

func TestClassifyRequestNewAndUpdate(t *testing.T) {
	reference := newReferenceCalendar(t)

	requestMsg := `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//icalcore//EN
METHOD:REQUEST
BEGIN:VEVENT
UID:evt-classify-4
DTSTAMP:20260101T000000Z
DTSTART:20260115T090000Z
SUMMARY:New meeting
END:VEVENT
END:VCALENDAR
`
	msg := decodeMessage(t, requestMsg)
	class, _, err := itip.Classify(msg, reference)
	require.NoError(t, err)
	assert.Equal(t, itip.RequestNew, class)

	seedEvent(t, reference, "evt-classify-4", 0, dt(2026, 1, 1, 0, 0, 0))
	class, _, err = itip.Classify(msg, reference)
	require.NoError(t, err)
	assert.Equal(t, itip.RequestUpdate, class)
}

func TestClassifyFailsWithoutMethod(t *testing.T) {
	text := `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//icalcore//EN
BEGIN:VEVENT
UID:evt-classify-5
DTSTAMP:20260101T000000Z
DTSTART:20260115T090000Z
SUMMARY:No method here
END:VEVENT
END:VCALENDAR
`
	msg := decodeMessage(t, text)
	reference := newReferenceCalendar(t)
	_, _, err := itip.Classify(msg, reference)
	assert.ErrorIs(t, err, itip.ErrMethodMissing)
}

func TestExtractIncidenceFailsOnEmptyMessage(t *testing.T) {
	text := `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//icalcore//EN
METHOD:PUBLISH
END:VCALENDAR
`
	msg := decodeMessage(t, text)
	_, err := itip.ExtractIncidence(msg)
	assert.ErrorIs(t, err, itip.ErrEmptyMessage)
}
