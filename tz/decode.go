// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tz

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kelridge/icalcore/instant"
	"github.com/kelridge/icalcore/rrule"
)

// horizonYears bounds how far an open-ended (no UNTIL/COUNT) phase
// RRULE is expanded past the reference instant passed to
// DecodeVTimezone. Projecting zone rules further adds false precision:
// real-world zone rules mutate.
const horizonYears = 20

// maxPhaseTransitions bounds a single phase's RRULE expansion as a
// belt-and-braces cap alongside the horizon date, independent of
// rrule's own 10,000-interval-advance ceiling.
const maxPhaseTransitions = 4000

// RawPhase is one STANDARD or DAYLIGHT sub-component as read off the
// wire, prior to offset/time parsing.
type RawPhase struct {
	Kind        PhaseKind
	DTStart     string // "20060102T150405", local clock time
	OffsetFrom  string // e.g. "-0500"
	OffsetTo    string // e.g. "-0400"
	Names       []string
	Comment     string
	RDates      []string // "...Z", local "20060102T150405", or date-only "20060102"
	RRuleValue  string   // RRULE value string, empty if absent
}

// RawZone is an undecoded VTIMEZONE: TZID plus its sub-components in
// the order they appeared.
type RawZone struct {
	TZID   string
	Phases []RawPhase
}

// DecodeVTimezone decodes raw into a ZoneData, expanding any phase
// RRULE out to horizonYears past now. A phase missing
// DTSTART/TZOFFSETFROM/TZOFFSETTO is skipped rather than failing the
// whole zone; only a missing TZID fails decoding outright.
func DecodeVTimezone(raw RawZone, now time.Time) (*ZoneData, error) {
	if raw.TZID == "" {
		return nil, ErrMissingTZID
	}

	var transitions []Transition
	haveFirst := false
	previousOffset := 0
	horizon := now.AddDate(horizonYears, 0, 0)

	for _, p := range raw.Phases {
		offFrom, err := parseOffset(p.OffsetFrom)
		if err != nil {
			continue
		}
		offTo, err := parseOffset(p.OffsetTo)
		if err != nil {
			continue
		}
		dtStartLocal, err := parseLocalDT(p.DTStart)
		if err != nil {
			continue
		}
		phase := Phase{Kind: p.Kind, OffsetFrom: offFrom, OffsetTo: offTo, Names: filterTZNames(p.Names), Comment: p.Comment}
		dtStartUTC := dtStartLocal.Add(-time.Duration(offFrom) * time.Second)

		transitions = append(transitions, Transition{UTC: dtStartUTC, Phase: phase})
		if !haveFirst {
			previousOffset, haveFirst = offFrom, true
		}

		for _, rd := range p.RDates {
			t, ok := parseRDateUTC(rd, dtStartLocal, offFrom)
			if ok {
				transitions = append(transitions, Transition{UTC: t, Phase: phase})
			}
		}

		if p.RRuleValue != "" {
			start := instant.New(dtStartLocal.Year(), int(dtStartLocal.Month()), dtStartLocal.Day(),
				dtStartLocal.Hour(), dtStartLocal.Minute(), dtStartLocal.Second(), instant.SpecFixed(offFrom))
			rule, err := rrule.ParseRRule(p.RRuleValue, start)
			if err == nil {
				cur := start
				for i := 0; i < maxPhaseTransitions; i++ {
					next, ok := rule.NextAfter(cur, nil)
					if !ok {
						break
					}
					utc, _ := next.ToUTC(nil)
					if utc.After(horizon) {
						break
					}
					transitions = append(transitions, Transition{UTC: utc, Phase: phase})
					cur = next
				}
			}
		}
	}

	sort.Slice(transitions, func(i, j int) bool { return transitions[i].UTC.Before(transitions[j].UTC) })
	transitions = dropRepeatedPhase(transitions)
	if len(transitions) > 0 {
		previousOffset = transitions[0].Phase.OffsetFrom
	}

	return &ZoneData{TZID: raw.TZID, PreviousOffset: previousOffset, Transitions: transitions}, nil
}

// dropRepeatedPhase removes a transition whose phase is the same
// regime as its immediate predecessor — these arise when disjoint
// phase rules happen to coincide.
func dropRepeatedPhase(in []Transition) []Transition {
	if len(in) < 2 {
		return in
	}
	out := in[:1]
	for _, t := range in[1:] {
		if !out[len(out)-1].Phase.sameRegime(t.Phase) {
			out = append(out, t)
		}
	}
	return out
}

// filterTZNames drops the Windows/Outlook placeholder TZNAME values
// that carry no real abbreviation.
func filterTZNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "Standard Time" || n == "Daylight Time" {
			continue
		}
		out = append(out, n)
	}
	return out
}

// parseOffset parses a TZOFFSETFROM/TZOFFSETTO value ("+HHMM",
// "-HHMM", or with seconds "+HHMMSS") into a signed second count.
func parseOffset(s string) (int, error) {
	if len(s) != 5 && len(s) != 7 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidOffset, s)
	}
	sign := 1
	switch s[0] {
	case '-':
		sign = -1
	case '+':
	default:
		return 0, fmt.Errorf("%w: %s", ErrInvalidOffset, s)
	}
	hh, err1 := strconv.Atoi(s[1:3])
	mm, err2 := strconv.Atoi(s[3:5])
	ss := 0
	var err3 error
	if len(s) == 7 {
		ss, err3 = strconv.Atoi(s[5:7])
	}
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidOffset, s)
	}
	return sign * (hh*3600 + mm*60 + ss), nil
}

func parseLocalDT(s string) (time.Time, error) {
	return time.ParseInLocation("20060102T150405", strings.TrimSuffix(s, "Z"), time.UTC)
}

// parseRDateUTC resolves one phase RDATE value to a UTC instant:
// already-UTC values pass through; local values are shifted by
// offsetFrom; date-only values inherit dtStartLocal's time-of-day
// before the same shift.
func parseRDateUTC(value string, dtStartLocal time.Time, offsetFrom int) (time.Time, bool) {
	if strings.HasSuffix(value, "Z") {
		t, err := time.Parse("20060102T150405Z", value)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	if len(value) == 8 {
		local, err := time.ParseInLocation("20060102", value, time.UTC)
		if err != nil {
			return time.Time{}, false
		}
		local = local.Add(time.Duration(dtStartLocal.Hour())*time.Hour +
			time.Duration(dtStartLocal.Minute())*time.Minute +
			time.Duration(dtStartLocal.Second())*time.Second)
		return local.Add(-time.Duration(offsetFrom) * time.Second), true
	}
	local, err := time.ParseInLocation("20060102T150405", value, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return local.Add(-time.Duration(offsetFrom) * time.Second), true
}
