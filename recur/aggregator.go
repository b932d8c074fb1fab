// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package recur

import (
	"sort"

	"github.com/kelridge/icalcore/instant"
	"github.com/kelridge/icalcore/rrule"
	"github.com/kelridge/icalcore/seq"
)

// maxAggregatorPasses bounds NextAfter/PreviousBefore: an exrule that
// identically shadows an rrule could otherwise loop forever chasing a
// candidate that's always excluded.
const maxAggregatorPasses = 1000

// Observer is notified once per batch of aggregator mutations.
type Observer interface {
	OnDirty()
}

// Aggregator owns the rrules, exrules, rdates and exdates anchoring a
// single recurring incidence, combining them into one occurrence set
// per RFC 5545 §3.8.5.
type Aggregator struct {
	start  instant.Instant
	res    instant.Resolver
	allDay bool

	rrules  []*rrule.Rule
	exrules []*rrule.Rule
	rdates  *seq.Sequence[instant.Instant]
	exdates *seq.Sequence[instant.Instant]

	observers []Observer
}

// New builds an Aggregator anchored at start. res resolves any
// NamedZone instants the rules or date sets carry; allDay switches
// exrule matching (and rdate/exdate day comparisons) from exact
// instant equality to whole-civil-day intersection.
func New(start instant.Instant, res instant.Resolver, allDay bool) *Aggregator {
	less := func(a, b instant.Instant) bool {
		if cmp, ok := instant.Compare(a, b, res); ok {
			return cmp < 0
		}
		return a.Wall.Compare(b.Wall) < 0
	}
	equal := func(a, b instant.Instant) bool {
		if cmp, ok := instant.Compare(a, b, res); ok {
			return cmp == 0
		}
		return a.Wall.Compare(b.Wall) == 0
	}
	return &Aggregator{
		start:   start,
		res:     res,
		allDay:  allDay,
		rdates:  seq.New(less, equal),
		exdates: seq.New(less, equal),
	}
}

// StartDt returns the anchoring start instant.
func (a *Aggregator) StartDt() instant.Instant { return a.start }

// Observe registers o to be notified after every mutation batch.
func (a *Aggregator) Observe(o Observer) { a.observers = append(a.observers, o) }

// Unobserve removes a previously registered observer.
func (a *Aggregator) Unobserve(o Observer) {
	for i, existing := range a.observers {
		if existing == o {
			a.observers = append(a.observers[:i], a.observers[i+1:]...)
			return
		}
	}
}

func (a *Aggregator) setDirty() {
	for _, o := range a.observers {
		o.OnDirty()
	}
}

func (a *Aggregator) AddRRule(r *rrule.Rule)  { a.rrules = append(a.rrules, r); a.setDirty() }
func (a *Aggregator) AddExRule(r *rrule.Rule) { a.exrules = append(a.exrules, r); a.setDirty() }
func (a *Aggregator) AddRDate(i instant.Instant) {
	a.rdates.InsertSorted(i)
	a.setDirty()
}
func (a *Aggregator) AddExDate(i instant.Instant) {
	a.exdates.InsertSorted(i)
	a.setDirty()
}

// RRules, ExRules, RDates and ExDates expose the aggregator's current
// membership. Callers must not mutate the returned slices.
func (a *Aggregator) RRules() []*rrule.Rule      { return a.rrules }
func (a *Aggregator) ExRules() []*rrule.Rule     { return a.exrules }
func (a *Aggregator) RDates() []instant.Instant  { return a.rdates.Items() }
func (a *Aggregator) ExDates() []instant.Instant { return a.exdates.Items() }

func sameInstant(a, b instant.Instant, res instant.Resolver) bool {
	if ok := instant.Equal(a, b, res); ok {
		return true
	}
	return a.Wall.Compare(b.Wall) == 0
}

func sameCivilDay(a, b instant.Instant) bool {
	return a.Wall.Year == b.Wall.Year && a.Wall.Month == b.Wall.Month && a.Wall.Day == b.Wall.Day
}

// Occurs reports whether the incidence has an occurrence at exactly i.
func (a *Aggregator) Occurs(i instant.Instant) bool {
	included := sameInstant(a.start, i, a.res)
	if !included {
		if _, ok := a.rdates.FindEq(i); ok {
			included = true
		}
	}
	if !included {
		for _, r := range a.rrules {
			if r.RecursAt(i, a.res) {
				included = true
				break
			}
		}
	}
	if !included {
		return false
	}
	return !a.excluded(i)
}

// excluded reports whether i is shadowed by an exdate or exrule match.
// All-day incidences match an exrule against the whole civil day.
func (a *Aggregator) excluded(i instant.Instant) bool {
	if a.allDay {
		for _, ex := range a.exdates.Items() {
			if sameCivilDay(ex, i) {
				return true
			}
		}
	} else if _, ok := a.exdates.FindEq(i); ok {
		return true
	}
	for _, r := range a.exrules {
		if a.allDay {
			if r.RecursOn(i, a.res) {
				return true
			}
			continue
		}
		if r.RecursAt(i, a.res) {
			return true
		}
	}
	return false
}

// NextAfter returns the first occurrence strictly after i: repeatedly
// take the least of {start, least rdate, each rrule's nextAfter};
// return it unless excluded, in which case continue from
// there, bounded by maxAggregatorPasses.
func (a *Aggregator) NextAfter(i instant.Instant) (instant.Instant, bool) {
	cur := i
	for pass := 0; pass < maxAggregatorPasses; pass++ {
		candidate, ok := a.minCandidateAfter(cur)
		if !ok {
			return instant.Instant{}, false
		}
		if !a.excluded(candidate) {
			return candidate, true
		}
		cur = candidate
	}
	return instant.Instant{}, false
}

func (a *Aggregator) minCandidateAfter(i instant.Instant) (instant.Instant, bool) {
	var best instant.Instant
	haveBest := false
	consider := func(cand instant.Instant, ok bool) {
		if !ok {
			return
		}
		if cmp, cok := instant.Compare(cand, i, a.res); !cok || cmp <= 0 {
			return
		}
		if !haveBest {
			best, haveBest = cand, true
			return
		}
		if cmp2, cok2 := instant.Compare(cand, best, a.res); cok2 && cmp2 < 0 {
			best = cand
		}
	}
	consider(a.start, true)
	if rd, ok := a.rdates.FindGT(i); ok {
		consider(rd, true)
	}
	for _, r := range a.rrules {
		next, ok := r.NextAfter(i, a.res)
		consider(next, ok)
	}
	return best, haveBest
}

// PreviousBefore returns the last occurrence strictly before i.
func (a *Aggregator) PreviousBefore(i instant.Instant) (instant.Instant, bool) {
	cur := i
	for pass := 0; pass < maxAggregatorPasses; pass++ {
		candidate, ok := a.maxCandidateBefore(cur)
		if !ok {
			return instant.Instant{}, false
		}
		if !a.excluded(candidate) {
			return candidate, true
		}
		cur = candidate
	}
	return instant.Instant{}, false
}

func (a *Aggregator) maxCandidateBefore(i instant.Instant) (instant.Instant, bool) {
	var best instant.Instant
	haveBest := false
	consider := func(cand instant.Instant, ok bool) {
		if !ok {
			return
		}
		if cmp, cok := instant.Compare(cand, i, a.res); !cok || cmp >= 0 {
			return
		}
		if !haveBest {
			best, haveBest = cand, true
			return
		}
		if cmp2, cok2 := instant.Compare(cand, best, a.res); cok2 && cmp2 > 0 {
			best = cand
		}
	}
	if cmp, ok := instant.Compare(a.start, i, a.res); ok && cmp < 0 {
		consider(a.start, true)
	}
	if rd, ok := a.rdates.FindLT(i, 0); ok {
		consider(rd, true)
	}
	for _, r := range a.rrules {
		prev, ok := r.PreviousBefore(i, a.res)
		consider(prev, ok)
	}
	return best, haveBest
}

// RecurTimesOn returns the occurrences falling on the civil date of
// date, ascending, with exclusions applied.
func (a *Aggregator) RecurTimesOn(date instant.Instant) []instant.Instant {
	var out []instant.Instant
	if sameCivilDay(a.start, date) {
		out = append(out, a.start)
	}
	for _, rd := range a.rdates.Items() {
		if sameCivilDay(rd, date) {
			out = append(out, rd)
		}
	}
	for _, r := range a.rrules {
		out = append(out, r.RecurTimesOn(date, a.res)...)
	}
	out = sortUniqueInstants(out, a.res)
	return a.filterExcluded(out)
}

// TimesInInterval returns every occurrence in [start, end], ascending,
// with exclusions applied. incomplete is true if any contributing
// rrule's own enumeration ran out before reaching end.
func (a *Aggregator) TimesInInterval(start, end instant.Instant) (occ []instant.Instant, incomplete bool) {
	var out []instant.Instant
	if cmp1, ok1 := instant.Compare(start, a.start, a.res); ok1 && cmp1 <= 0 {
		if cmp2, ok2 := instant.Compare(a.start, end, a.res); ok2 && cmp2 <= 0 {
			out = append(out, a.start)
		}
	}
	for _, rd := range a.rdates.Items() {
		c1, ok1 := instant.Compare(start, rd, a.res)
		c2, ok2 := instant.Compare(rd, end, a.res)
		if ok1 && ok2 && c1 <= 0 && c2 <= 0 {
			out = append(out, rd)
		}
	}
	for _, r := range a.rrules {
		ruleOcc, ruleIncomplete := r.TimesInInterval(start, end, a.res)
		out = append(out, ruleOcc...)
		incomplete = incomplete || ruleIncomplete
	}
	out = sortUniqueInstants(out, a.res)
	return a.filterExcluded(out), incomplete
}

func (a *Aggregator) filterExcluded(in []instant.Instant) []instant.Instant {
	out := make([]instant.Instant, 0, len(in))
	for _, i := range in {
		if !a.excluded(i) {
			out = append(out, i)
		}
	}
	return out
}

func sortUniqueInstants(in []instant.Instant, res instant.Resolver) []instant.Instant {
	sort.Slice(in, func(i, j int) bool {
		if cmp, ok := instant.Compare(in[i], in[j], res); ok {
			return cmp < 0
		}
		return in[i].Wall.Compare(in[j].Wall) < 0
	})
	out := in[:0:0]
	for i, x := range in {
		if i == 0 || !sameInstant(in[i-1], x, res) {
			out = append(out, x)
		}
	}
	return out
}
