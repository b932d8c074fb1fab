// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

import "github.com/kelridge/icalcore/instant"

// AlarmAction represents the possible values for a VALARM's ACTION field.
// https://datatracker.ietf.org/doc/html/rfc5545#section-3.8.6.1
type AlarmAction string

const (
	AlarmActionAudio     AlarmAction = "AUDIO"
	AlarmActionDisplay   AlarmAction = "DISPLAY"
	AlarmActionEmail     AlarmAction = "EMAIL"
	AlarmActionProcedure AlarmAction = "PROCEDURE"
)

// Alarm is a VALARM sub-component of an Event or Todo (a Journal
// carries none per RFC 5545). Trigger is relative to the owning
// incidence's DTStart unless TriggerFromEnd is set, in which case it
// is relative to DTEnd/DTDue.
// https://datatracker.ietf.org/doc/html/rfc5545#section-3.6.6
type Alarm struct {
	Action AlarmAction

	Trigger        instant.Duration
	TriggerFromEnd bool

	Attach      []Attachment
	Duration    instant.Duration
	HasDuration bool
	Repeat      int

	Description string
	Summary     string
	Attendees   []Attendee

	CustomProperties *CustomProperties
}

// triggerAt resolves the alarm's trigger instant relative to one
// occurrence's own start or end. end, if non-nil, supplies the
// matching end/due instant for TriggerFromEnd alarms; when it is nil,
// a TriggerFromEnd alarm is skipped for that occurrence.
func (a Alarm) triggerAt(start instant.Instant, end *instant.Instant, res instant.Resolver) (instant.Instant, bool) {
	anchor := start
	if a.TriggerFromEnd {
		if end == nil {
			return instant.Instant{}, false
		}
		anchor = *end
	}
	return anchor.Add(a.Trigger, res), true
}
