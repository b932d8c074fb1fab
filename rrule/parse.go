// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package rrule

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kelridge/icalcore/instant"
)

// ParseRRule parses an RRULE (or EXRULE) value string, RFC 5545 §3.3.10,
// anchoring the compiled Rule at start. start supplies the fallthrough
// fields and the time-spec every generated occurrence carries.
func ParseRRule(value string, start instant.Instant) (*Rule, error) {
	r := &Rule{Frequency: 1, WeekStart: Monday, StartDt: start}
	haveFreq := false
	var count *int
	var until *instant.Instant

	for part := range strings.SplitSeq(value, ";") {
		tag, v, found := strings.Cut(part, "=")
		if !found {
			return nil, ErrInvalidRRuleString
		}
		switch tag {
		case "FREQ":
			p, err := parsePeriod(v)
			if err != nil {
				return nil, err
			}
			r.Period = p
			haveFreq = true
		case "INTERVAL":
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("%w: INTERVAL %s", ErrInvalidRRuleString, v)
			}
			r.Frequency = n
		case "COUNT":
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("%w: COUNT %s", ErrInvalidRRuleString, v)
			}
			count = &n
		case "UNTIL":
			u, err := parseUntil(v)
			if err != nil {
				return nil, err
			}
			until = &u
		case "WKST":
			wd, err := parseWeekdayToken(v)
			if err != nil {
				return nil, err
			}
			r.WeekStart = wd
		case "BYSECOND":
			ints, err := parseInts(v)
			if err != nil {
				return nil, err
			}
			r.BySecond = ints
		case "BYMINUTE":
			ints, err := parseInts(v)
			if err != nil {
				return nil, err
			}
			r.ByMinute = ints
		case "BYHOUR":
			ints, err := parseInts(v)
			if err != nil {
				return nil, err
			}
			r.ByHour = ints
		case "BYDAY":
			days, err := parseByDayList(v)
			if err != nil {
				return nil, err
			}
			r.ByDay = days
		case "BYMONTHDAY":
			ints, err := parseInts(v)
			if err != nil {
				return nil, err
			}
			r.ByMonthDay = ints
		case "BYYEARDAY":
			ints, err := parseInts(v)
			if err != nil {
				return nil, err
			}
			r.ByYearDay = ints
		case "BYWEEKNO":
			ints, err := parseInts(v)
			if err != nil {
				return nil, err
			}
			r.ByWeekNo = ints
		case "BYMONTH":
			ints, err := parseInts(v)
			if err != nil {
				return nil, err
			}
			r.ByMonth = ints
		case "BYSETPOS":
			ints, err := parseInts(v)
			if err != nil {
				return nil, err
			}
			r.BySetPos = ints
		}
	}

	if !haveFreq {
		return nil, ErrFrequencyRequired
	}
	if count != nil && until != nil {
		return nil, ErrCountAndUntilBothSet
	}
	if r.Frequency <= 0 {
		return nil, ErrInvalidInterval
	}
	if count != nil {
		r.Term, r.Count = Count, count
	} else if until != nil {
		r.Term, r.Until = Until, *until
	}

	r.Recompile()
	return r, nil
}

func parsePeriod(v string) (Period, error) {
	switch v {
	case "SECONDLY":
		return Secondly, nil
	case "MINUTELY":
		return Minutely, nil
	case "HOURLY":
		return Hourly, nil
	case "DAILY":
		return Daily, nil
	case "WEEKLY":
		return Weekly, nil
	case "MONTHLY":
		return Monthly, nil
	case "YEARLY":
		return Yearly, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrInvalidFrequency, v)
}

func parseInts(v string) ([]int, error) {
	parts := strings.Split(v, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRRuleString, p)
		}
		out = append(out, n)
	}
	return out, nil
}

func parseByDayList(v string) ([]ByDay, error) {
	parts := strings.Split(v, ",")
	out := make([]ByDay, 0, len(parts))
	for _, p := range parts {
		pos, wd, err := parseByDay(p)
		if err != nil {
			return nil, err
		}
		out = append(out, ByDay{Weekday: wd, Pos: pos})
	}
	return out, nil
}

// parseByDay parses one BYDAY token ("20MO", "-1SU", "MO") into its
// ordinal (0 if unqualified) and weekday.
func parseByDay(s string) (int, Weekday, error) {
	if s == "" {
		return 0, 0, ErrInvalidByDayString
	}
	digitEnd := 0
	for i, c := range s {
		if c >= '0' && c <= '9' {
			digitEnd = i + 1
			continue
		}
		if c == '-' && i == 0 {
			continue
		}
		break
	}
	wdToken := s[digitEnd:]
	wd, err := parseWeekdayToken(wdToken)
	if err != nil {
		return 0, 0, ErrInvalidByDayString
	}
	if digitEnd == 0 {
		return 0, wd, nil
	}
	pos, err := strconv.Atoi(s[:digitEnd])
	if err != nil {
		return 0, 0, ErrInvalidByDayString
	}
	return pos, wd, nil
}

func parseWeekdayToken(s string) (Weekday, error) {
	switch s {
	case "MO":
		return Monday, nil
	case "TU":
		return Tuesday, nil
	case "WE":
		return Wednesday, nil
	case "TH":
		return Thursday, nil
	case "FR":
		return Friday, nil
	case "SA":
		return Saturday, nil
	case "SU":
		return Sunday, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrInvalidWeekday, s)
}

func weekdayToken(wd Weekday) string {
	switch wd {
	case Monday:
		return "MO"
	case Tuesday:
		return "TU"
	case Wednesday:
		return "WE"
	case Thursday:
		return "TH"
	case Friday:
		return "FR"
	case Saturday:
		return "SA"
	case Sunday:
		return "SU"
	}
	return ""
}

// parseUntil parses an UNTIL value, which per RFC 5545 is either a
// UTC DATE-TIME ("...Z") or a DATE ("YYYYMMDD").
func parseUntil(v string) (instant.Instant, error) {
	if strings.HasSuffix(v, "Z") {
		i, err := instant.ParseUTCDateTime(v)
		if err != nil {
			return instant.Instant{}, fmt.Errorf("%w: UNTIL %s", ErrInvalidRRuleString, v)
		}
		return i, nil
	}
	if len(v) == 8 {
		year, err1 := strconv.Atoi(v[0:4])
		month, err2 := strconv.Atoi(v[4:6])
		day, err3 := strconv.Atoi(v[6:8])
		if err1 != nil || err2 != nil || err3 != nil {
			return instant.Instant{}, fmt.Errorf("%w: UNTIL %s", ErrInvalidRRuleString, v)
		}
		return instant.NewDate(year, month, day, instant.SpecFloating()), nil
	}
	return instant.Instant{}, fmt.Errorf("%w: UNTIL %s", ErrInvalidRRuleString, v)
}

// String renders the rule back to its RRULE value-string form, in
// canonical FREQ-first property order.
func (r *Rule) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "FREQ=%s", periodToken(r.Period))
	if r.Frequency != 1 {
		fmt.Fprintf(&b, ";INTERVAL=%d", r.Frequency)
	}
	switch r.Term {
	case Until:
		if r.Until.DateOnly {
			fmt.Fprintf(&b, ";UNTIL=%04d%02d%02d", r.Until.Wall.Year, r.Until.Wall.Month, r.Until.Wall.Day)
		} else {
			fmt.Fprintf(&b, ";UNTIL=%04d%02d%02dT%02d%02d%02dZ",
				r.Until.Wall.Year, r.Until.Wall.Month, r.Until.Wall.Day,
				r.Until.Wall.Hour, r.Until.Wall.Minute, r.Until.Wall.Second)
		}
	case Count:
		fmt.Fprintf(&b, ";COUNT=%d", *r.Count)
	}
	writeIntList(&b, "BYSECOND", r.BySecond)
	writeIntList(&b, "BYMINUTE", r.ByMinute)
	writeIntList(&b, "BYHOUR", r.ByHour)
	if len(r.ByDay) > 0 {
		b.WriteString(";BYDAY=")
		for i, bd := range r.ByDay {
			if i > 0 {
				b.WriteByte(',')
			}
			if bd.Pos != 0 {
				fmt.Fprintf(&b, "%d", bd.Pos)
			}
			b.WriteString(weekdayToken(bd.Weekday))
		}
	}
	writeIntList(&b, "BYMONTHDAY", r.ByMonthDay)
	writeIntList(&b, "BYYEARDAY", r.ByYearDay)
	writeIntList(&b, "BYWEEKNO", r.ByWeekNo)
	writeIntList(&b, "BYMONTH", r.ByMonth)
	writeIntList(&b, "BYSETPOS", r.BySetPos)
	if r.WeekStart != Monday {
		fmt.Fprintf(&b, ";WKST=%s", weekdayToken(r.WeekStart))
	}
	return b.String()
}

func writeIntList(b *strings.Builder, tag string, vals []int) {
	if len(vals) == 0 {
		return
	}
	b.WriteByte(';')
	b.WriteString(tag)
	b.WriteByte('=')
	for i, v := range vals {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(b, "%d", v)
	}
}

func periodToken(p Period) string {
	switch p {
	case Secondly:
		return "SECONDLY"
	case Minutely:
		return "MINUTELY"
	case Hourly:
		return "HOURLY"
	case Daily:
		return "DAILY"
	case Weekly:
		return "WEEKLY"
	case Monthly:
		return "MONTHLY"
	case Yearly:
		return "YEARLY"
	}
	return ""
}
