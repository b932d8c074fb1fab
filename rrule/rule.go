// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package rrule

import "github.com/kelridge/icalcore/instant"

// Period is the FREQ value of a recurrence rule.
type Period int

const (
	Secondly Period = iota
	Minutely
	Hourly
	Daily
	Weekly
	Monthly
	Yearly
)

// Weekday is an ISO weekday, 1=Monday .. 7=Sunday.
type Weekday int

const (
	Monday Weekday = 1 + iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// ByDay is one BYDAY entry: a weekday, optionally qualified with an
// ordinal (the Pos'th occurrence of that weekday within the enclosing
// month or year). Pos is 0 when unqualified ("every Tuesday").
type ByDay struct {
	Weekday Weekday
	Pos     int
}

// Termination classifies how a rule's recurrence set ends.
type Termination int

const (
	Infinite Termination = iota
	Until
	Count
)

// Rule is a compiled RFC 5545 recurrence rule anchored at StartDt.
// Construct with New or ParseRRule; do not build the zero value
// directly, since its BY-list fallthroughs depend on StartDt.
type Rule struct {
	Period    Period
	Frequency int // the INTERVAL value, >= 1
	WeekStart Weekday

	Term  Termination
	Until instant.Instant
	Count *int

	BySecond   []int
	ByMinute   []int
	ByHour     []int
	ByDay      []ByDay
	ByMonthDay []int
	ByYearDay  []int
	ByWeekNo   []int
	ByMonth    []int
	BySetPos   []int

	StartDt instant.Instant

	compiled        []constraint
	hasShortcut     bool
	shortcutSeconds int64

	cache         []instant.Instant
	cacheBuilt    bool
	cacheComplete bool
}

// maxIntervalAdvances bounds every forward/backward walk through
// candidate intervals, so a rule that can never be satisfied (e.g. a
// BYMONTHDAY that never falls on the required weekday) terminates
// rather than looping forever.
const maxIntervalAdvances = 10000

// New builds a Rule anchored at start with the given period and
// interval, then compiles it. Callers set the BY-lists and termination
// fields directly on the returned Rule and must call Recompile after
// any such mutation.
func New(period Period, interval int, start instant.Instant) *Rule {
	if interval <= 0 {
		interval = 1
	}
	r := &Rule{
		Period:    period,
		Frequency: interval,
		WeekStart: Monday,
		StartDt:   start,
	}
	r.Recompile()
	return r
}

// Recompile rebuilds the constraint set and invalidates the COUNT
// cache. Call it after mutating any BY-list, WeekStart, Term, Until, or
// Count field directly.
func (r *Rule) Recompile() {
	r.compile()
	r.cacheBuilt = false
	r.cache = nil
	r.cacheComplete = false
}
