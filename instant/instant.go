// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package instant models a calendar instant as a civil wall-clock
// reading plus a time-spec tag (UTC, a fixed offset, a named zone, or
// floating/clock time), and the two duration flavors — wall-days and
// clock-seconds — that are not freely interconvertible across a
// daylight-saving transition.
package instant

import "time"

// SpecKind tags how a Wall reading anchors to a real instant.
type SpecKind int

const (
	// UTC means Wall is already expressed in UTC.
	UTC SpecKind = iota
	// FixedOffset means Wall is local time at a constant UTC offset.
	FixedOffset
	// NamedZone means Wall is local time in a zone identified by TZID;
	// resolving it to UTC requires a Resolver.
	NamedZone
	// Floating means Wall carries no zone at all ("clock time"): two
	// observers in different zones read the same local representation.
	// For ordering purposes a floating instant's Wall is treated as if
	// it were already UTC.
	Floating
)

// Spec is a tagged time specification.
type Spec struct {
	Kind          SpecKind
	OffsetSeconds int    // meaningful when Kind == FixedOffset
	TZID          string // meaningful when Kind == NamedZone
}

// SpecUTC is the UTC time-spec.
func SpecUTC() Spec { return Spec{Kind: UTC} }

// SpecFixed returns a fixed-offset time-spec.
func SpecFixed(offsetSeconds int) Spec { return Spec{Kind: FixedOffset, OffsetSeconds: offsetSeconds} }

// SpecNamed returns a named-zone time-spec.
func SpecNamed(tzid string) Spec { return Spec{Kind: NamedZone, TZID: tzid} }

// SpecFloating is the floating/clock-time time-spec.
func SpecFloating() Spec { return Spec{Kind: Floating} }

// WallClock is a civil date and time with no zone attached.
type WallClock struct {
	Year, Month, Day     int
	Hour, Minute, Second int
}

// Weekday returns the ISO weekday (1=Monday .. 7=Sunday) of w.
func (w WallClock) Weekday() int {
	goWeekday := w.toGoUTC().Weekday()
	if goWeekday == time.Sunday {
		return 7
	}
	return int(goWeekday)
}

// YearDay returns the 1-based day-of-year of w.
func (w WallClock) YearDay() int { return w.toGoUTC().YearDay() }

// AsTime returns w as a time.Time with a UTC location, purely as a
// civil-arithmetic convenience; it carries no claim about the real
// zone w is meant to represent.
func (w WallClock) AsTime() time.Time { return w.toGoUTC() }

// FromTime extracts the civil fields of t (read in whatever location
// t already carries) into a WallClock.
func FromTime(t time.Time) WallClock { return fromGoUTC(t) }

func (w WallClock) toGoUTC() time.Time {
	return time.Date(w.Year, time.Month(w.Month), w.Day, w.Hour, w.Minute, w.Second, 0, time.UTC)
}

func fromGoUTC(t time.Time) WallClock {
	return WallClock{
		Year: t.Year(), Month: int(t.Month()), Day: t.Day(),
		Hour: t.Hour(), Minute: t.Minute(), Second: t.Second(),
	}
}

// Compare orders two wall clocks, ignoring zone.
func (w WallClock) Compare(o WallClock) int {
	return w.toGoUTC().Compare(o.toGoUTC())
}

// AddDays shifts the civil date by n wall-days, leaving time-of-day fixed.
func (w WallClock) AddDays(n int) WallClock {
	t := w.toGoUTC().AddDate(0, 0, n)
	return fromGoUTC(t)
}

// AddSeconds shifts the wall-clock reading by n seconds, ignoring any zone.
func (w WallClock) AddSeconds(n int64) WallClock {
	t := w.toGoUTC().Add(time.Duration(n) * time.Second)
	return fromGoUTC(t)
}

// Resolver resolves a named zone's UTC offset at either a UTC or a
// local wall-clock instant. Implemented by tz.Collection. Kept as an
// interface here, rather than importing package tz directly, because
// tz's transition tables are themselves expressed in terms of Instant —
// a direct import would cycle.
type Resolver interface {
	// OffsetAtUTC returns the UTC offset in seconds that tzid observes
	// at the UTC instant t.
	OffsetAtUTC(tzid string, t time.Time) (offsetSeconds int, ok bool)
	// OffsetAtLocal returns the offset(s) in seconds that tzid's local
	// clock reading wall could correspond to. valid is false if wall
	// falls in a spring-forward gap (no corresponding UTC instant).
	// ok2 is true if wall is ambiguous (fall-back overlap), in which
	// case offset2 is the later (second-occurrence) offset.
	OffsetAtLocal(tzid string, wall WallClock) (offset int, offset2 int, ok2 bool, valid bool)
}

// Instant is a (date, time-of-day, time-spec, dateOnly, secondOccurrence) tuple.
type Instant struct {
	Wall             WallClock
	Spec             Spec
	DateOnly         bool
	SecondOccurrence bool
}

// New builds an Instant from civil fields under spec s.
func New(year, month, day, hour, minute, second int, s Spec) Instant {
	return Instant{Wall: WallClock{Year: year, Month: month, Day: day, Hour: hour, Minute: minute, Second: second}, Spec: s}
}

// NewDate builds a date-only Instant (midnight wall clock, DateOnly set).
func NewDate(year, month, day int, s Spec) Instant {
	i := New(year, month, day, 0, 0, 0, s)
	i.DateOnly = true
	return i
}

// ToUTC resolves i to a real UTC instant. ok is false only for a
// NamedZone instant whose local reading falls in a spring-forward gap.
func (i Instant) ToUTC(r Resolver) (t time.Time, ok bool) {
	switch i.Spec.Kind {
	case UTC:
		return i.Wall.toGoUTC(), true
	case FixedOffset:
		return i.Wall.toGoUTC().Add(-time.Duration(i.Spec.OffsetSeconds) * time.Second), true
	case Floating:
		return i.Wall.toGoUTC(), true
	case NamedZone:
		offset, offset2, ambiguous, valid := r.OffsetAtLocal(i.Spec.TZID, i.Wall)
		if !valid {
			return time.Time{}, false
		}
		chosen := offset
		if ambiguous && i.SecondOccurrence {
			chosen = offset2
		}
		return i.Wall.toGoUTC().Add(-time.Duration(chosen) * time.Second), true
	}
	return time.Time{}, false
}

// ToTimeSpec returns an instant numerically identical in UTC to i but
// re-tagged with spec s: the wall-clock reading is recomputed so the
// same real instant is represented under the new spec.
func (i Instant) ToTimeSpec(s Spec, r Resolver) (Instant, bool) {
	utc, ok := i.ToUTC(r)
	if !ok {
		return Instant{}, false
	}
	return fromUTC(utc, s, r)
}

func fromUTC(utc time.Time, s Spec, r Resolver) (Instant, bool) {
	switch s.Kind {
	case UTC, Floating:
		return Instant{Wall: fromGoUTC(utc), Spec: s}, true
	case FixedOffset:
		return Instant{Wall: fromGoUTC(utc.Add(time.Duration(s.OffsetSeconds) * time.Second)), Spec: s}, true
	case NamedZone:
		offset, ok := r.OffsetAtUTC(s.TZID, utc)
		if !ok {
			return Instant{}, false
		}
		return Instant{Wall: fromGoUTC(utc.Add(time.Duration(offset) * time.Second)), Spec: s}, true
	}
	return Instant{}, false
}

// SetTimeSpec keeps the wall-clock reading fixed and swaps the spec,
// which may shift the real UTC moment represented.
func (i Instant) SetTimeSpec(s Spec) Instant {
	i.Spec = s
	return i
}

// DurationKind distinguishes wall-days from clock-seconds.
type DurationKind int

const (
	Seconds DurationKind = iota
	Days
)

// Duration is a signed span of either clock-seconds or wall-days.
type Duration struct {
	Kind DurationKind
	N    int64
}

// Secs constructs a clock-seconds duration.
func Secs(n int64) Duration { return Duration{Kind: Seconds, N: n} }

// DaysDur constructs a wall-days duration.
func DaysDur(n int64) Duration { return Duration{Kind: Days, N: n} }

// Add applies d to i. A Days duration shifts the civil date only
// (DST-naive); a Seconds duration elapses real time and may cross a
// zone transition, so the result's wall-clock reading is recomputed
// from the shifted UTC instant.
func (i Instant) Add(d Duration, r Resolver) Instant {
	switch d.Kind {
	case Days:
		i.Wall = i.Wall.AddDays(int(d.N))
		return i
	case Seconds:
		utc, ok := i.ToUTC(r)
		if !ok {
			i.Wall = i.Wall.AddSeconds(d.N)
			return i
		}
		shifted := utc.Add(time.Duration(d.N) * time.Second)
		out, ok := fromUTC(shifted, i.Spec, r)
		if !ok {
			i.Wall = i.Wall.AddSeconds(d.N)
			return i
		}
		return out
	}
	return i
}

// AddSecs is a convenience for Add(Secs(n), r).
func (i Instant) AddSecs(n int64, r Resolver) Instant { return i.Add(Secs(n), r) }

// AddDays is a convenience for Add(DaysDur(n), r).
func (i Instant) AddDays(n int64, r Resolver) Instant { return i.Add(DaysDur(n), r) }

// Compare orders a and b by their UTC projection and then by
// SecondOccurrence (false < true). ok is false if either instant
// fails to resolve (e.g. falls in a zone gap).
func Compare(a, b Instant, r Resolver) (cmp int, ok bool) {
	ua, oka := a.ToUTC(r)
	ub, okb := b.ToUTC(r)
	if !oka || !okb {
		return 0, false
	}
	if ua.Before(ub) {
		return -1, true
	}
	if ua.After(ub) {
		return 1, true
	}
	switch {
	case a.SecondOccurrence == b.SecondOccurrence:
		return 0, true
	case a.SecondOccurrence:
		return 1, true
	default:
		return -1, true
	}
}

// Equal reports whether a and b represent the same instant, including
// matching SecondOccurrence flags.
func Equal(a, b Instant, r Resolver) bool {
	cmp, ok := Compare(a, b, r)
	return ok && cmp == 0
}
