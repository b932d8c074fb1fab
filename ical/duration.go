// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package ical

import (
	"fmt"
	"strings"

	"github.com/kelridge/icalcore/instant"
)

// parseDuration decodes an RFC 5545 §3.3.6 DURATION value (also used
// for TRIGGER) into an instant.Duration.
func parseDuration(s string) (instant.Duration, error) {
	d, err := instant.ParseDuration(s)
	if err != nil {
		return instant.Duration{}, fmt.Errorf("ical: %w", err)
	}
	return d, nil
}

// formatDuration renders d back to its DURATION value-string form.
// Days and Seconds durations are both rendered from their total second
// count, so a Seconds duration of whole days renders as "PnD" and
// parses back through ParseDuration as a Days duration.
func formatDuration(d instant.Duration) string {
	n := d.N
	if d.Kind == instant.Days {
		n *= 86400
	}
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	days := n / 86400
	n %= 86400
	hours := n / 3600
	n %= 3600
	minutes := n / 60
	seconds := n % 60

	var b strings.Builder
	b.WriteString(sign)
	b.WriteByte('P')
	if days > 0 {
		fmt.Fprintf(&b, "%dD", days)
	}
	if hours > 0 || minutes > 0 || seconds > 0 {
		b.WriteByte('T')
		if hours > 0 {
			fmt.Fprintf(&b, "%dH", hours)
		}
		if minutes > 0 {
			fmt.Fprintf(&b, "%dM", minutes)
		}
		if seconds > 0 {
			fmt.Fprintf(&b, "%dS", seconds)
		}
	} else if days == 0 {
		b.WriteString("T0S")
	}
	return b.String()
}
