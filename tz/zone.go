// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tz

import (
	"sort"
	"time"

	"github.com/kelridge/icalcore/instant"
)

// PhaseKind distinguishes a VTIMEZONE's STANDARD and DAYLIGHT
// sub-components.
type PhaseKind int

const (
	StandardPhase PhaseKind = iota
	DaylightPhase
)

// String renders the phase kind as its VTIMEZONE sub-component name.
func (k PhaseKind) String() string {
	if k == DaylightPhase {
		return "DAYLIGHT"
	}
	return "STANDARD"
}

// Phase is one offset regime a zone can be in: the offset it moved
// from and the offset it holds until the next transition, plus the
// display names (TZNAME) and comment carried on the sub-component that
// produced it.
type Phase struct {
	Kind       PhaseKind
	OffsetFrom int // seconds, offset observed immediately before the transition
	OffsetTo   int // seconds, offset observed from the transition onward
	Names      []string
	Comment    string
}

func (p Phase) sameRegime(o Phase) bool {
	return p.Kind == o.Kind && p.OffsetFrom == o.OffsetFrom && p.OffsetTo == o.OffsetTo
}

// Transition is the UTC instant a zone moves into Phase.
type Transition struct {
	UTC   time.Time
	Phase Phase
}

// ZoneData is one decoded VTIMEZONE: a TZID and its ascending,
// de-duplicated list of transitions, plus the offset observed before
// the earliest transition.
type ZoneData struct {
	TZID           string
	PreviousOffset int
	Transitions    []Transition
}

// OffsetAtUTC returns the offset in seconds that z observes at the UTC
// instant t — the latest transition at or before t, or PreviousOffset
// if t precedes every transition.
func (z *ZoneData) OffsetAtUTC(t time.Time) (offsetSeconds int, ok bool) {
	idx := sort.Search(len(z.Transitions), func(i int) bool {
		return z.Transitions[i].UTC.After(t)
	})
	if idx == 0 {
		return z.PreviousOffset, true
	}
	return z.Transitions[idx-1].Phase.OffsetTo, true
}

// IsDST reports whether the phase in effect at t is a DAYLIGHT phase,
// and its abbreviation, if any were recorded.
func (z *ZoneData) IsDST(t time.Time) (isDST bool, abbreviation string) {
	idx := sort.Search(len(z.Transitions), func(i int) bool {
		return z.Transitions[i].UTC.After(t)
	})
	if idx == 0 {
		return false, ""
	}
	p := z.Transitions[idx-1].Phase
	name := ""
	if len(p.Names) > 0 {
		name = p.Names[0]
	}
	return p.Kind == DaylightPhase, name
}

// localInstant converts a civil wall-clock reading into a
// zone-agnostic time.Time usable for comparison against transition
// boundaries (which are themselves expressed by shifting UTC
// transitions by a candidate offset).
func localInstant(y, mo, d, h, mi, s int) time.Time {
	return time.Date(y, time.Month(mo), d, h, mi, s, 0, time.UTC)
}

// OffsetAtLocal resolves a local clock reading against z's
// transitions. It reports the offset (or, for a fall-back overlap,
// both candidate offsets with ok2 set) that the reading could
// correspond to, or valid=false if the reading falls in a
// spring-forward gap with no corresponding UTC instant.
func (z *ZoneData) OffsetAtLocal(wall instant.WallClock) (offset, offset2 int, ok2, valid bool) {
	t := localInstant(wall.Year, wall.Month, wall.Day, wall.Hour, wall.Minute, wall.Second)

	prevOffset := z.PreviousOffset
	for _, tr := range z.Transitions {
		before, after := prevOffset, tr.Phase.OffsetTo
		boundBefore := tr.UTC.Add(time.Duration(before) * time.Second)
		boundAfter := tr.UTC.Add(time.Duration(after) * time.Second)
		switch {
		case after > before: // spring forward: local times in [boundBefore, boundAfter) never occur
			if !t.Before(boundBefore) && t.Before(boundAfter) {
				return 0, 0, false, false
			}
		case after < before: // fall back: local times in [boundAfter, boundBefore) occur twice
			if !t.Before(boundAfter) && t.Before(boundBefore) {
				return before, after, true, true
			}
		}
		prevOffset = after
	}

	offset = z.PreviousOffset
	for _, tr := range z.Transitions {
		localAtTransition := tr.UTC.Add(time.Duration(tr.Phase.OffsetTo) * time.Second)
		if !t.Before(localAtTransition) {
			offset = tr.Phase.OffsetTo
			continue
		}
		break
	}
	return offset, offset, false, true
}
