// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package recur

import (
	"testing"

	"github.com/kelridge/icalcore/instant"
	"github.com/kelridge/icalcore/rrule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func utcAt(y, m, d, h, mi, s int) instant.Instant {
	return instant.New(y, m, d, h, mi, s, instant.SpecUTC())
}

type recordingObserver struct{ dirtied int }

func (o *recordingObserver) OnDirty() { o.dirtied++ }

// S5: exception override leaves the aggregator's own occurrences at
// {2013-01-01, 2013-01-03} once 2013-01-02 is excluded (the exception
// itself is modeled on the store side; here we verify the aggregator
// correctly drops the excluded occurrence). T8 is exercised by the
// same assertion: the occurrence list omits the excluded instant.
func TestExceptionOverrideExcludesRecurrenceId(t *testing.T) {
	start := utcAt(2013, 1, 1, 9, 0, 0)
	rule, err := rrule.ParseRRule("FREQ=DAILY;COUNT=3", start)
	require.NoError(t, err)

	agg := New(start, nil, false)
	agg.AddRRule(rule)
	agg.AddExDate(utcAt(2013, 1, 2, 9, 0, 0))

	occ, incomplete := agg.TimesInInterval(start, utcAt(2013, 1, 10, 0, 0, 0))
	require.False(t, incomplete)
	require.Len(t, occ, 2)
	assert.Equal(t, utcAt(2013, 1, 1, 9, 0, 0), occ[0])
	assert.Equal(t, utcAt(2013, 1, 3, 9, 0, 0), occ[1])
}

// T1: timesInInterval is sorted ascending and contains no exdate/exrule match.
func TestTimesInIntervalSortedAndExcludes(t *testing.T) {
	start := utcAt(2020, 3, 1, 8, 0, 0)
	rule, err := rrule.ParseRRule("FREQ=DAILY;COUNT=10", start)
	require.NoError(t, err)

	exRule, err := rrule.ParseRRule("FREQ=WEEKLY;BYDAY=SU", start)
	require.NoError(t, err)

	agg := New(start, nil, false)
	agg.AddRRule(rule)
	agg.AddExRule(exRule)

	occ, _ := agg.TimesInInterval(start, utcAt(2020, 3, 15, 0, 0, 0))
	for i := 1; i < len(occ); i++ {
		cmp, ok := instant.Compare(occ[i-1], occ[i], nil)
		require.True(t, ok)
		assert.Less(t, cmp, 0)
	}
	for _, o := range occ {
		assert.False(t, exRule.RecursAt(o, nil), "occurrence %v must not match the exrule", o)
	}
}

func TestAddMutationsNotifyObservers(t *testing.T) {
	start := utcAt(2020, 1, 1, 0, 0, 0)
	agg := New(start, nil, false)
	obs := &recordingObserver{}
	agg.Observe(obs)

	agg.AddRDate(utcAt(2020, 1, 2, 0, 0, 0))
	agg.AddExDate(utcAt(2020, 1, 3, 0, 0, 0))
	assert.Equal(t, 2, obs.dirtied)

	agg.Unobserve(obs)
	agg.AddRDate(utcAt(2020, 1, 4, 0, 0, 0))
	assert.Equal(t, 2, obs.dirtied)
}

func TestNextAfterSkipsExcludedCandidate(t *testing.T) {
	start := utcAt(2020, 1, 1, 0, 0, 0)
	rule, err := rrule.ParseRRule("FREQ=DAILY;COUNT=5", start)
	require.NoError(t, err)

	agg := New(start, nil, false)
	agg.AddRRule(rule)
	agg.AddExDate(utcAt(2020, 1, 2, 0, 0, 0))

	next, ok := agg.NextAfter(start)
	require.True(t, ok)
	assert.Equal(t, utcAt(2020, 1, 3, 0, 0, 0), next)
}

func TestOccursMatchesRDateAndRejectsExDate(t *testing.T) {
	start := utcAt(2020, 5, 1, 0, 0, 0)
	agg := New(start, nil, false)
	agg.AddRDate(utcAt(2020, 5, 5, 0, 0, 0))
	agg.AddExDate(utcAt(2020, 5, 1, 0, 0, 0))

	assert.True(t, agg.Occurs(utcAt(2020, 5, 5, 0, 0, 0)))
	assert.False(t, agg.Occurs(utcAt(2020, 5, 1, 0, 0, 0)))
	assert.False(t, agg.Occurs(utcAt(2020, 5, 6, 0, 0, 0)))
}
