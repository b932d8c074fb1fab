// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package rrule

import (
	"math"
	"sort"

	"github.com/kelridge/icalcore/instant"
)

func (r *Rule) intervalStart(w instant.WallClock) instant.WallClock {
	switch r.Period {
	case Secondly:
		return w
	case Minutely:
		w.Second = 0
		return w
	case Hourly:
		w.Minute, w.Second = 0, 0
		return w
	case Daily:
		w.Hour, w.Minute, w.Second = 0, 0, 0
		return w
	case Weekly:
		return startOfWeek(w, r.WeekStart)
	case Monthly:
		w.Day, w.Hour, w.Minute, w.Second = 1, 0, 0, 0
		return w
	case Yearly:
		w.Month, w.Day, w.Hour, w.Minute, w.Second = 1, 1, 0, 0, 0
		return w
	}
	return w
}

func startOfWeek(w instant.WallClock, weekStart Weekday) instant.WallClock {
	w.Hour, w.Minute, w.Second = 0, 0, 0
	wd := Weekday(w.Weekday())
	back := int(wd) - int(weekStart)
	if back < 0 {
		back += 7
	}
	return w.AddDays(-back)
}

// addPeriods steps w forward (or back, for negative n) by n of the
// rule's periods. Monthly and yearly steps normalize the day-of-month
// to 1 to avoid skipped-month artifacts (e.g. adding a month to
// Jan 31 never silently becomes Mar 3).
func (r *Rule) addPeriods(w instant.WallClock, n int64) instant.WallClock {
	switch r.Period {
	case Secondly:
		return w.AddSeconds(n)
	case Minutely:
		return w.AddSeconds(n * 60)
	case Hourly:
		return w.AddSeconds(n * 3600)
	case Daily:
		return w.AddDays(int(n))
	case Weekly:
		return w.AddDays(int(n * 7))
	case Monthly:
		total := w.Year*12 + (w.Month - 1) + int(n)
		y, m := total/12, total%12
		if m < 0 {
			m += 12
			y--
		}
		w.Year, w.Month, w.Day = y, m+1, 1
		return w
	case Yearly:
		w.Year += int(n)
		w.Month, w.Day = 1, 1
		return w
	}
	return w
}

// periodIndex is the number of whole rule-periods between the rule's
// own starting interval and cur's interval.
func (r *Rule) periodIndex(cur instant.WallClock) int64 {
	start := r.intervalStart(r.StartDt.Wall)
	curStart := r.intervalStart(cur)
	switch r.Period {
	case Secondly:
		return int64(curStart.AsTime().Sub(start.AsTime()).Seconds())
	case Minutely:
		return int64(curStart.AsTime().Sub(start.AsTime()).Minutes())
	case Hourly:
		return int64(curStart.AsTime().Sub(start.AsTime()).Hours())
	case Daily:
		return int64(curStart.AsTime().Sub(start.AsTime()).Hours() / 24)
	case Weekly:
		return int64(curStart.AsTime().Sub(start.AsTime()).Hours() / (24 * 7))
	case Monthly:
		return int64((curStart.Year-start.Year)*12 + (curStart.Month - start.Month))
	case Yearly:
		return int64(curStart.Year - start.Year)
	}
	return 0
}

func (r *Rule) nextValidInterval(w instant.WallClock) instant.WallClock {
	cur := r.intervalStart(w)
	idx := r.periodIndex(cur)
	rem := floorMod(idx, int64(r.Frequency))
	if rem == 0 {
		return cur
	}
	return r.addPeriods(cur, int64(r.Frequency)-rem)
}

func (r *Rule) previousValidInterval(w instant.WallClock) instant.WallClock {
	cur := r.intervalStart(w)
	idx := r.periodIndex(cur)
	rem := floorMod(idx, int64(r.Frequency))
	return r.addPeriods(cur, -rem)
}

// daysForInterval lists the candidate civil dates within the interval
// starting at intervalStart. Every period folds to a brute-force scan
// of the interval's own days (at most 366, for YEARLY); the BY-list
// constraints, not this enumeration, carry the real filtering.
func (r *Rule) daysForInterval(intervalStart instant.WallClock) []instant.WallClock {
	switch r.Period {
	case Secondly, Minutely, Hourly:
		return []instant.WallClock{{Year: intervalStart.Year, Month: intervalStart.Month, Day: intervalStart.Day}}
	case Daily:
		return []instant.WallClock{{Year: intervalStart.Year, Month: intervalStart.Month, Day: intervalStart.Day}}
	case Weekly:
		days := make([]instant.WallClock, 0, 7)
		d := intervalStart
		for i := 0; i < 7; i++ {
			days = append(days, instant.WallClock{Year: d.Year, Month: d.Month, Day: d.Day})
			d = d.AddDays(1)
		}
		return days
	case Monthly:
		n := daysInMonth(intervalStart.Year, intervalStart.Month)
		days := make([]instant.WallClock, 0, n)
		for day := 1; day <= n; day++ {
			days = append(days, instant.WallClock{Year: intervalStart.Year, Month: intervalStart.Month, Day: day})
		}
		return days
	case Yearly:
		n := daysInYear(intervalStart.Year)
		days := make([]instant.WallClock, 0, n)
		d := instant.WallClock{Year: intervalStart.Year, Month: 1, Day: 1}
		for i := 0; i < n; i++ {
			days = append(days, d)
			d = d.AddDays(1)
		}
		return days
	}
	return nil
}

// timesOfDay lists the (hour, minute, second) tuples every candidate
// day is crossed with: the cross product of ByHour/ByMinute/BySecond,
// falling back to StartDt's own clock fields for any empty list. For
// sub-daily periods the interval itself already pins a single instant,
// so its own wall-clock time is the only candidate.
func (r *Rule) timesOfDay(intervalStart instant.WallClock) [][3]int {
	if r.Period == Secondly || r.Period == Minutely || r.Period == Hourly {
		return [][3]int{{intervalStart.Hour, intervalStart.Minute, intervalStart.Second}}
	}
	hours := r.ByHour
	if len(hours) == 0 {
		hours = []int{r.StartDt.Wall.Hour}
	}
	minutes := r.ByMinute
	if len(minutes) == 0 {
		minutes = []int{r.StartDt.Wall.Minute}
	}
	seconds := r.BySecond
	if len(seconds) == 0 {
		seconds = []int{r.StartDt.Wall.Second}
	}
	out := make([][3]int, 0, len(hours)*len(minutes)*len(seconds))
	for _, h := range hours {
		for _, m := range minutes {
			for _, s := range seconds {
				out = append(out, [3]int{h, m, s})
			}
		}
	}
	return out
}

// candidatesForInterval returns every occurrence within one rule period,
// sorted ascending, with BYSETPOS applied.
func (r *Rule) candidatesForInterval(intervalStart instant.WallClock) []instant.Instant {
	days := r.daysForInterval(intervalStart)
	times := r.timesOfDay(intervalStart)
	var out []instant.Instant
	for _, d := range days {
		info := buildCandidateInfo(d)
		for _, t := range times {
			if !r.matchesFull(info, t[0], t[1], t[2]) {
				continue
			}
			w := d
			w.Hour, w.Minute, w.Second = t[0], t[1], t[2]
			out = append(out, instant.Instant{Wall: w, Spec: r.StartDt.Spec, DateOnly: r.StartDt.DateOnly})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Wall.Compare(out[j].Wall) < 0 })
	out = dedupInstants(out)
	return applySetPos(out, r.BySetPos)
}

func dedupInstants(in []instant.Instant) []instant.Instant {
	if len(in) < 2 {
		return in
	}
	out := in[:1]
	for _, x := range in[1:] {
		if out[len(out)-1].Wall.Compare(x.Wall) != 0 {
			out = append(out, x)
		}
	}
	return out
}

func applySetPos(items []instant.Instant, pos []int) []instant.Instant {
	if len(pos) == 0 {
		return items
	}
	n := len(items)
	seen := make(map[int]bool, len(pos))
	var out []instant.Instant
	for _, p := range pos {
		idx := p - 1
		if p < 0 {
			idx = n + p
		}
		if idx < 0 || idx >= n || seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, items[idx])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Wall.Compare(out[j].Wall) < 0 })
	return out
}

// rawNextAfter returns the next candidate strictly after i, ignoring
// COUNT/UNTIL termination.
func (r *Rule) rawNextAfter(i instant.Instant, res instant.Resolver) (instant.Instant, bool) {
	if r.hasShortcut {
		return r.shortcutRawNextAfter(i, res)
	}
	cur := r.nextValidInterval(i.Wall)
	for attempts := 0; attempts < maxIntervalAdvances; attempts++ {
		for _, c := range r.candidatesForInterval(cur) {
			if cmp, ok := instant.Compare(c, i, res); ok && cmp > 0 {
				return c, true
			}
		}
		cur = r.addPeriods(cur, int64(r.Frequency))
	}
	return instant.Instant{}, false
}

// rawPreviousBefore returns the last candidate strictly before i.
func (r *Rule) rawPreviousBefore(i instant.Instant, res instant.Resolver) (instant.Instant, bool) {
	if r.hasShortcut {
		return r.shortcutRawPreviousBefore(i, res)
	}
	cur := r.previousValidInterval(i.Wall)
	startInterval := r.intervalStart(r.StartDt.Wall)
	for attempts := 0; attempts < maxIntervalAdvances; attempts++ {
		cands := r.candidatesForInterval(cur)
		for k := len(cands) - 1; k >= 0; k-- {
			if cmp, ok := instant.Compare(cands[k], i, res); ok && cmp < 0 {
				return cands[k], true
			}
		}
		if cur.Compare(startInterval) <= 0 {
			return instant.Instant{}, false
		}
		cur = r.addPeriods(cur, -int64(r.Frequency))
	}
	return instant.Instant{}, false
}

func (r *Rule) shortcutRawNextAfter(i instant.Instant, res instant.Resolver) (instant.Instant, bool) {
	startUTC, ok1 := r.StartDt.ToUTC(res)
	iUTC, ok2 := i.ToUTC(res)
	if !ok1 || !ok2 {
		return instant.Instant{}, false
	}
	interval := r.shortcutSeconds
	diff := iUTC.Sub(startUTC).Seconds()
	k := int64(math.Floor(diff/float64(interval))) + 1
	if k < 1 {
		k = 1
	}
	return r.StartDt.AddSecs(k*interval, res), true
}

func (r *Rule) shortcutRawPreviousBefore(i instant.Instant, res instant.Resolver) (instant.Instant, bool) {
	startUTC, ok1 := r.StartDt.ToUTC(res)
	iUTC, ok2 := i.ToUTC(res)
	if !ok1 || !ok2 {
		return instant.Instant{}, false
	}
	interval := r.shortcutSeconds
	diff := iUTC.Sub(startUTC).Seconds()
	k := int64(math.Ceil(diff/float64(interval))) - 1
	if k < 0 {
		return instant.Instant{}, false
	}
	return r.StartDt.AddSecs(k*interval, res), true
}

// NextAfter returns the first occurrence strictly after i, honoring
// COUNT/UNTIL termination.
func (r *Rule) NextAfter(i instant.Instant, res instant.Resolver) (instant.Instant, bool) {
	if r.Term == Count {
		return r.nextAfterFromCache(i, res)
	}
	next, ok := r.rawNextAfter(i, res)
	if !ok {
		return instant.Instant{}, false
	}
	if r.Term == Until {
		if cmp, ok := instant.Compare(next, r.Until, res); !ok || cmp > 0 {
			return instant.Instant{}, false
		}
	}
	return next, true
}

// PreviousBefore returns the last occurrence strictly before i.
func (r *Rule) PreviousBefore(i instant.Instant, res instant.Resolver) (instant.Instant, bool) {
	prev, ok := r.rawPreviousBefore(i, res)
	if !ok {
		return instant.Instant{}, false
	}
	if cmp, ok := instant.Compare(prev, r.StartDt, res); !ok || cmp < 0 {
		return instant.Instant{}, false
	}
	if r.Term == Count && r.DurationTo(prev, res) > *r.Count {
		return instant.Instant{}, false
	}
	return prev, true
}

func (r *Rule) aligned(w instant.WallClock) bool {
	return floorMod(r.periodIndex(w), int64(r.Frequency)) == 0
}

// MatchesRules reports whether i falls on a frequency-aligned interval
// and satisfies the compiled BY-list constraints, ignoring COUNT/UNTIL
// and whether i is before StartDt.
func (r *Rule) MatchesRules(i instant.Instant) bool {
	if !r.aligned(i.Wall) {
		return false
	}
	info := buildCandidateInfo(i.Wall)
	return r.matchesFull(info, i.Wall.Hour, i.Wall.Minute, i.Wall.Second)
}

// RecursAt reports whether i is an occurrence of the rule exactly.
func (r *Rule) RecursAt(i instant.Instant, res instant.Resolver) bool {
	if !r.MatchesRules(i) {
		return false
	}
	if cmp, ok := instant.Compare(i, r.StartDt, res); !ok || cmp < 0 {
		return false
	}
	switch r.Term {
	case Until:
		if cmp, ok := instant.Compare(i, r.Until, res); !ok || cmp > 0 {
			return false
		}
	case Count:
		if r.DurationTo(i, res) > *r.Count {
			return false
		}
	}
	return true
}

// RecurTimesOn returns the occurrences falling on the civil date of
// date (time-of-day ignored on input), ascending, expressed in the
// rule's own time-spec.
func (r *Rule) RecurTimesOn(date instant.Instant, res instant.Resolver) []instant.Instant {
	dayStart := date.Wall
	dayStart.Hour, dayStart.Minute, dayStart.Second = 0, 0, 0
	sameDay := func(w instant.WallClock) bool {
		return w.Year == dayStart.Year && w.Month == dayStart.Month && w.Day == dayStart.Day
	}

	var out []instant.Instant
	collect := func(cur instant.WallClock) {
		for _, c := range r.candidatesForInterval(cur) {
			if sameDay(c.Wall) && r.RecursAt(c, res) {
				out = append(out, c)
			}
		}
	}

	if r.Period != Secondly && r.Period != Minutely && r.Period != Hourly {
		collect(r.intervalStart(dayStart))
		sort.Slice(out, func(i, j int) bool { return out[i].Wall.Compare(out[j].Wall) < 0 })
		return out
	}

	cur := r.nextValidInterval(dayStart)
	for attempts := 0; sameDay(cur) && attempts < maxIntervalAdvances; attempts++ {
		collect(cur)
		cur = r.addPeriods(cur, int64(r.Frequency))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Wall.Compare(out[j].Wall) < 0 })
	return out
}

// RecursOn reports whether the rule has at least one occurrence on the
// civil date of date.
func (r *Rule) RecursOn(date instant.Instant, res instant.Resolver) bool {
	return len(r.RecurTimesOn(date, res)) > 0
}

// TimesInInterval returns every occurrence in [start, end], ascending.
// incomplete is true if the maxIntervalAdvances walk ran out before
// reaching end (an effectively-infinite rule probed over a huge range).
func (r *Rule) TimesInInterval(start, end instant.Instant, res instant.Resolver) (occ []instant.Instant, incomplete bool) {
	var cur instant.Instant
	var ok bool
	if r.RecursAt(start, res) {
		cur, ok = start, true
	} else {
		cur, ok = r.NextAfter(start, res)
	}
	for attempts := 0; ok && attempts < maxIntervalAdvances; attempts++ {
		cmp, cok := instant.Compare(cur, end, res)
		if !cok || cmp > 0 {
			return occ, false
		}
		occ = append(occ, cur)
		cur, ok = r.NextAfter(cur, res)
		if attempts == maxIntervalAdvances-1 && ok {
			return occ, true
		}
	}
	return occ, false
}

// DurationTo returns the number of occurrences at or before i, counting
// StartDt as occurrence 1 when it matches the rule, so for an
// occurrence i it is that occurrence's 1-based ordinal. It returns 0 if
// i precedes StartDt.
func (r *Rule) DurationTo(i instant.Instant, res instant.Resolver) int {
	if r.hasShortcut {
		startUTC, ok1 := r.StartDt.ToUTC(res)
		iUTC, ok2 := i.ToUTC(res)
		if !ok1 || !ok2 || iUTC.Before(startUTC) {
			return 0
		}
		bound := iUTC
		if r.Term == Until {
			if untilUTC, ok := r.Until.ToUTC(res); ok && untilUTC.Before(bound) {
				bound = untilUTC
			}
		}
		diff := bound.Sub(startUTC).Seconds()
		n := int(math.Floor(diff/float64(r.shortcutSeconds))) + 1
		if r.Term == Count && n > *r.Count {
			n = *r.Count
		}
		return n
	}
	if cmp, ok := instant.Compare(r.StartDt, i, res); !ok || cmp > 0 {
		return 0
	}
	count := 0
	cur := r.StartDt
	if r.MatchesRules(cur) {
		count = 1
	}
	for attempts := 0; attempts < maxIntervalAdvances; attempts++ {
		next, ok := r.NextAfter(cur, res)
		if !ok {
			break
		}
		if cmp, ok := instant.Compare(next, i, res); !ok || cmp > 0 {
			break
		}
		count++
		cur = next
	}
	return count
}

// EndDt returns the last occurrence of a bounded rule (UNTIL or COUNT).
// ok is false for an infinite rule, or if the bound could not be
// reached within maxIntervalAdvances.
func (r *Rule) EndDt(res instant.Resolver) (instant.Instant, bool) {
	switch r.Term {
	case Until:
		occ, incomplete := r.TimesInInterval(r.StartDt, r.Until, res)
		if incomplete || len(occ) == 0 {
			return instant.Instant{}, false
		}
		return occ[len(occ)-1], true
	case Count:
		cache, complete := r.buildCache(res)
		if !complete || len(cache) == 0 {
			return instant.Instant{}, false
		}
		return cache[len(cache)-1], true
	}
	return instant.Instant{}, false
}

func (r *Rule) buildCache(res instant.Resolver) ([]instant.Instant, bool) {
	if r.cacheBuilt {
		return r.cache, r.cacheComplete
	}
	var out []instant.Instant
	cur := r.StartDt
	if r.MatchesRules(cur) {
		out = append(out, cur)
	}
	for attempts := 0; len(out) < *r.Count && attempts < maxIntervalAdvances; attempts++ {
		next, ok := r.rawNextAfter(cur, res)
		if !ok {
			break
		}
		out = append(out, next)
		cur = next
	}
	complete := len(out) >= *r.Count
	r.cache, r.cacheComplete, r.cacheBuilt = out, complete, true
	return out, complete
}

func (r *Rule) nextAfterFromCache(i instant.Instant, res instant.Resolver) (instant.Instant, bool) {
	cache, _ := r.buildCache(res)
	for _, c := range cache {
		if cmp, ok := instant.Compare(c, i, res); ok && cmp > 0 {
			return c, true
		}
	}
	return instant.Instant{}, false
}
