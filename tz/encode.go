// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tz

import (
	"fmt"
	"strings"
	"time"
)

// regimeKey identifies the (phase-after, phase-before-offset) pair
// EncodeVTimezone groups transitions by.
type regimeKey struct {
	kind               PhaseKind
	offsetFrom, offsetTo int
}

// EncodeVTimezone renders z as a VTIMEZONE component: one sub-component
// per distinct offset regime, its earliest transition as DTSTART and
// every later transition sharing that regime as an RDATE.
func EncodeVTimezone(z *ZoneData) string {
	var b strings.Builder
	b.WriteString("BEGIN:VTIMEZONE\r\n")
	fmt.Fprintf(&b, "TZID:%s\r\n", z.TZID)

	order := make([]regimeKey, 0)
	groups := make(map[regimeKey][]Transition)
	for _, tr := range z.Transitions {
		key := regimeKey{tr.Phase.Kind, tr.Phase.OffsetFrom, tr.Phase.OffsetTo}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], tr)
	}

	for _, key := range order {
		trs := groups[key]
		first := trs[0]
		b.WriteString("BEGIN:" + key.kind.String() + "\r\n")
		dtLocal := first.UTC.Add(time.Duration(key.offsetFrom) * time.Second)
		fmt.Fprintf(&b, "DTSTART:%s\r\n", dtLocal.Format("20060102T150405"))
		fmt.Fprintf(&b, "TZOFFSETFROM:%s\r\n", formatOffset(key.offsetFrom))
		fmt.Fprintf(&b, "TZOFFSETTO:%s\r\n", formatOffset(key.offsetTo))
		for _, n := range first.Phase.Names {
			fmt.Fprintf(&b, "TZNAME:%s\r\n", n)
		}
		if first.Phase.Comment != "" {
			fmt.Fprintf(&b, "COMMENT:%s\r\n", first.Phase.Comment)
		}
		for _, tr := range trs[1:] {
			local := tr.UTC.Add(time.Duration(key.offsetFrom) * time.Second)
			fmt.Fprintf(&b, "RDATE:%s\r\n", local.Format("20060102T150405"))
		}
		b.WriteString("END:" + key.kind.String() + "\r\n")
	}

	b.WriteString("END:VTIMEZONE\r\n")
	return b.String()
}

func formatOffset(seconds int) string {
	sign := "+"
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if s != 0 {
		return fmt.Sprintf("%s%02d%02d%02d", sign, h, m, s)
	}
	return fmt.Sprintf("%s%02d%02d", sign, h, m)
}
