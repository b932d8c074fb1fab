// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package instant

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Errors returned by ParseDuration, naming the RFC 5545 §3.3.6
// DURATION grammar violation.
var (
	ErrEmptyDuration     = errors.New("empty duration")
	ErrBadDurationPrefix = errors.New("duration must start with P (optionally preceded by + or -)")
	ErrUnexpectedChar    = errors.New("unexpected character")
	ErrMissingUnit       = errors.New("missing unit after number")
	ErrMixedWeeks        = errors.New("weeks form (PnW) cannot be mixed with other components")
	ErrTimeWithoutT      = errors.New("time components require a preceding 'T'")
	ErrDuplicateUnit     = errors.New("duplicate time unit")
	ErrBadUTCDateTime    = errors.New("not a UTC date-time (YYYYMMDDTHHMMSSZ)")
)

// ParseDuration parses an RFC 5545 §3.3.6 DURATION value (also used
// for VALARM's TRIGGER) directly into a Duration, preserving the
// wall-days/clock-seconds split a Duration carries: a bare "PnD" or
// "PnW" form (no "T" time designator) becomes a Days duration, since
// advancing it across a DST boundary must never be read as exactly
// N*86400 seconds; any value carrying an H/M/S time component becomes
// a Seconds duration.
func ParseDuration(s string) (Duration, error) {
	if len(s) == 0 {
		return Duration{}, ErrEmptyDuration
	}

	start, end := 0, len(s)
	for start < end && unicode.IsSpace(rune(s[start])) {
		start++
	}
	for end > start && unicode.IsSpace(rune(s[end-1])) {
		end--
	}
	if start == end {
		return Duration{}, ErrEmptyDuration
	}
	s = s[start:end]

	sign := int64(1)
	i := 0
	switch s[i] {
	case '+':
		i++
	case '-':
		sign = -1
		i++
	}

	if i >= len(s) || s[i] != 'P' {
		return Duration{}, ErrBadDurationPrefix
	}
	i++

	readInt := func() (int64, bool) {
		if i >= len(s) || !unicode.IsDigit(rune(s[i])) {
			return 0, false
		}
		digitsStart := i
		for i < len(s) && unicode.IsDigit(rune(s[i])) {
			i++
		}
		v, err := strconv.ParseInt(s[digitsStart:i], 10, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	// Special-case weeks: PnW and nothing else.
	if wpos := strings.IndexByte(s[i:], 'W'); wpos != -1 {
		wpos += i
		numStart := i
		if numStart >= wpos {
			return Duration{}, ErrMissingUnit
		}
		for j := numStart; j < wpos; j++ {
			if !unicode.IsDigit(rune(s[j])) {
				return Duration{}, ErrUnexpectedChar
			}
		}
		if wpos != len(s)-1 {
			return Duration{}, ErrMixedWeeks
		}
		v, err := strconv.ParseInt(s[numStart:wpos], 10, 64)
		if err != nil {
			return Duration{}, err
		}
		return DaysDur(sign * v * 7), nil
	}

	var (
		inTime              bool
		seconds             int64
		usedH, usedM, usedS bool
	)

	for i < len(s) {
		if s[i] == 'T' {
			inTime = true
			i++
			continue
		}

		v, ok := readInt()
		if !ok {
			return Duration{}, ErrMissingUnit
		}
		if i >= len(s) {
			return Duration{}, ErrMissingUnit
		}
		unit := s[i]
		i++

		switch unit {
		case 'D':
			if inTime {
				return Duration{}, ErrUnexpectedChar
			}
			seconds += v * 86400
		case 'H':
			if !inTime {
				return Duration{}, ErrTimeWithoutT
			}
			if usedH {
				return Duration{}, ErrDuplicateUnit
			}
			usedH = true
			seconds += v * 3600
		case 'M':
			if !inTime {
				return Duration{}, ErrTimeWithoutT
			}
			if usedM {
				return Duration{}, ErrDuplicateUnit
			}
			usedM = true
			seconds += v * 60
		case 'S':
			if !inTime {
				return Duration{}, ErrTimeWithoutT
			}
			if usedS {
				return Duration{}, ErrDuplicateUnit
			}
			usedS = true
			seconds += v
		default:
			return Duration{}, ErrUnexpectedChar
		}
	}

	if !usedH && !usedM && !usedS {
		return DaysDur(sign * (seconds / 86400)), nil
	}
	return Secs(sign * seconds), nil
}

// utcDateTimeLayout is the RFC 5545 §3.3.5 UTC DATE-TIME form.
const utcDateTimeLayout = "20060102T150405Z"

// ParseUTCDateTime parses an RFC 5545 UTC DATE-TIME value
// ("YYYYMMDDTHHMMSSZ") into an Instant tagged SpecUTC. The trailing
// "Z" is mandatory; a value without it is not a UTC-form DATE-TIME
// per §3.3.5 and is rejected rather than silently treated as one.
func ParseUTCDateTime(s string) (Instant, error) {
	t, err := time.Parse(utcDateTimeLayout, s)
	if err != nil {
		return Instant{}, fmt.Errorf("%w: %s", ErrBadUTCDateTime, s)
	}
	return New(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), SpecUTC()), nil
}
