// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package rrule

import "github.com/kelridge/icalcore/instant"

// constraint is one AND-combination produced by the cross product of
// the rule's BY-lists. A candidate date/time matches the rule if it
// matches at least one constraint in the compiled set (the cross
// product represents the union of combinations, OR'd together).
//
// Unset fields are 0 for natural-number fields (month, day, yearday,
// weekNumber) and for weekday (1..7 range, never 0). The clock fields
// (hour, minute, second) can legitimately be 0, so each carries its own
// hourSet/minuteSet/secondSet flag instead of a sentinel value.
type constraint struct {
	month      int
	day        int // day-of-month, negative counts from month end
	yearday    int // negative counts from year end
	weekNumber int // ISO week number, negative counts from year end
	weekday    Weekday
	weekdayNth int // 0 = any occurrence; else the Pos'th occurrence

	hour      int
	hourSet   bool
	minute    int
	minuteSet bool
	second    int
	secondSet bool
}

func granularityAtLeastHour(p Period) bool {
	return p == Daily || p == Weekly || p == Monthly || p == Yearly
}

func granularityAtLeastMinute(p Period) bool {
	return granularityAtLeastHour(p) || p == Hourly
}

func granularityAtLeastSecond(p Period) bool {
	return granularityAtLeastMinute(p) || p == Minutely
}

// compile expands the rule's BY-lists into the cross-product constraint
// set, applying the RFC 5545 §3.3.10 startDt fallthroughs for any
// BY-list left unset.
func (r *Rule) compile() {
	cs := []constraint{{}}

	cs = crossInts(cs, r.BySecond, func(c *constraint, v int) { c.second = v; c.secondSet = true })
	cs = crossInts(cs, r.ByMinute, func(c *constraint, v int) { c.minute = v; c.minuteSet = true })
	cs = crossInts(cs, r.ByHour, func(c *constraint, v int) { c.hour = v; c.hourSet = true })
	cs = crossInts(cs, r.ByMonth, func(c *constraint, v int) { c.month = v })
	cs = crossInts(cs, r.ByMonthDay, func(c *constraint, v int) { c.day = v })
	cs = crossInts(cs, r.ByYearDay, func(c *constraint, v int) { c.yearday = v })
	cs = crossInts(cs, r.ByWeekNo, func(c *constraint, v int) { c.weekNumber = v })

	if len(r.ByDay) > 0 {
		next := make([]constraint, 0, len(cs)*len(r.ByDay))
		for _, c := range cs {
			for _, bd := range r.ByDay {
				c2 := c
				c2.weekday = bd.Weekday
				c2.weekdayNth = bd.Pos
				next = append(next, c2)
			}
		}
		cs = next
	}

	start := r.StartDt.Wall
	for i := range cs {
		c := &cs[i]
		if len(r.BySecond) == 0 && granularityAtLeastSecond(r.Period) {
			c.second, c.secondSet = start.Second, true
		}
		if len(r.ByMinute) == 0 && granularityAtLeastMinute(r.Period) {
			c.minute, c.minuteSet = start.Minute, true
		}
		if len(r.ByHour) == 0 && granularityAtLeastHour(r.Period) {
			c.hour, c.hourSet = start.Hour, true
		}
		if r.Period == Weekly && len(r.ByDay) == 0 {
			c.weekday = Weekday(start.Weekday())
		}
		if (r.Period == Monthly || r.Period == Yearly) &&
			len(r.ByMonthDay) == 0 && len(r.ByDay) == 0 && len(r.ByYearDay) == 0 && len(r.ByWeekNo) == 0 {
			c.day = start.Day
		}
		if r.Period == Yearly && len(r.ByMonth) == 0 {
			c.month = start.Month
		}
	}

	r.compiled = cs
	r.detectShortcut()
}

func crossInts(cs []constraint, values []int, set func(*constraint, int)) []constraint {
	if len(values) == 0 {
		return cs
	}
	next := make([]constraint, 0, len(cs)*len(values))
	for _, c := range cs {
		for _, v := range values {
			c2 := c
			set(&c2, v)
			next = append(next, c2)
		}
	}
	return next
}

// detectShortcut recognizes the no-BY-lists sub-daily case:
// SECONDLY/MINUTELY/HOURLY with no BY-list beyond the implicit ones
// reduces to fixed-size interval stepping, computable in O(1).
func (r *Rule) detectShortcut() {
	r.hasShortcut = false
	if r.Period != Secondly && r.Period != Minutely && r.Period != Hourly {
		return
	}
	if len(r.BySecond) > 0 || len(r.ByMinute) > 0 || len(r.ByHour) > 0 ||
		len(r.ByDay) > 0 || len(r.ByMonthDay) > 0 || len(r.ByYearDay) > 0 ||
		len(r.ByWeekNo) > 0 || len(r.ByMonth) > 0 || len(r.BySetPos) > 0 {
		return
	}
	switch r.Period {
	case Secondly:
		r.shortcutSeconds = int64(r.Frequency)
	case Minutely:
		r.shortcutSeconds = int64(r.Frequency) * 60
	case Hourly:
		r.shortcutSeconds = int64(r.Frequency) * 3600
	}
	r.hasShortcut = true
}

// candidateInfo is the set of derived fields of a civil date needed to
// evaluate a constraint against it.
type candidateInfo struct {
	year, month, day int
	weekday          int // 1..7
	yearday          int
	weekNumber       int
}

func buildCandidateInfo(w instant.WallClock) candidateInfo {
	t := w.AsTime()
	_, isoWeek := t.ISOWeek()
	return candidateInfo{
		year: w.Year, month: w.Month, day: w.Day,
		weekday:    w.Weekday(),
		yearday:    w.YearDay(),
		weekNumber: isoWeek,
	}
}

// matchesAny reports whether the date-only fields of c satisfy at
// least one compiled constraint, ignoring clock-time fields.
func (r *Rule) matchesAny(c candidateInfo) bool {
	for _, k := range r.compiled {
		if k.matches(r.Period, c) {
			return true
		}
	}
	return false
}

// matchesFull reports whether some single compiled constraint is
// satisfied by both the date fields of c and the clock-time hour,
// minute, second — the cross product's AND grouping must hold within
// one constraint, not split across two.
func (r *Rule) matchesFull(c candidateInfo, hour, minute, second int) bool {
	for _, k := range r.compiled {
		if k.matches(r.Period, c) && k.timeMatches(hour, minute, second) {
			return true
		}
	}
	return false
}

func (k constraint) matches(period Period, c candidateInfo) bool {
	if k.month != 0 && k.month != c.month {
		return false
	}
	if k.day != 0 {
		d := k.day
		if d < 0 {
			d = daysInMonth(c.year, c.month) + d + 1
		}
		if d != c.day {
			return false
		}
	}
	if k.yearday != 0 {
		yd := k.yearday
		if yd < 0 {
			yd = daysInYear(c.year) + yd + 1
		}
		if yd != c.yearday {
			return false
		}
	}
	if k.weekNumber != 0 {
		wn := k.weekNumber
		if wn < 0 {
			wn = isoWeeksInYear(c.year) + wn + 1
		}
		if wn != c.weekNumber {
			return false
		}
	}
	if k.weekday != 0 && int(k.weekday) != c.weekday {
		return false
	}
	if k.weekdayNth != 0 && !matchesNth(period, k, c) {
		return false
	}
	return true
}

// timeMatches checks the clock-time fields of a constraint against an
// hour/minute/second triple, independent of the date fields checked by
// matches.
func (k constraint) timeMatches(hour, minute, second int) bool {
	if k.hourSet && k.hour != hour {
		return false
	}
	if k.minuteSet && k.minute != minute {
		return false
	}
	if k.secondSet && k.second != second {
		return false
	}
	return true
}

func matchesNth(period Period, k constraint, c candidateInfo) bool {
	useYear := period == Yearly && k.month == 0
	var idx, total int
	if useYear {
		idx = (c.yearday-1)/7 + 1
		total = countWeekdayInYear(c.year, k.weekday)
	} else {
		idx = (c.day-1)/7 + 1
		total = countWeekdayInMonth(c.year, c.month, k.weekday)
	}
	if k.weekdayNth > 0 {
		return idx == k.weekdayNth
	}
	return total-idx+1 == -k.weekdayNth
}

func countWeekdayInMonth(year, month int, wd Weekday) int {
	n := 0
	for d := 1; d <= daysInMonth(year, month); d++ {
		w := instant.WallClock{Year: year, Month: month, Day: d}
		if Weekday(w.Weekday()) == wd {
			n++
		}
	}
	return n
}

func countWeekdayInYear(year int, wd Weekday) int {
	n := 0
	for d := 1; d <= daysInYear(year); d++ {
		w := instant.WallClock{Year: year, Month: 1, Day: d}
		if Weekday(w.Weekday()) == wd {
			n++
		}
	}
	return n
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysInYear(year int) int {
	if isLeapYear(year) {
		return 366
	}
	return 365
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	}
	return 30
}

func isoWeeksInYear(year int) int {
	_, w := instant.WallClock{Year: year, Month: 12, Day: 28}.AsTime().ISOWeek()
	return w
}

func floorMod(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
