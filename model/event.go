// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

import "github.com/kelridge/icalcore/instant"

// EventStatus represents the possible values for a VEVENT's STATUS field.
// https://datatracker.ietf.org/doc/html/rfc5545#section-3.8.1.11
type EventStatus string

const (
	EventStatusConfirmed EventStatus = "CONFIRMED"
	EventStatusTentative EventStatus = "TENTATIVE"
	EventStatusCancelled EventStatus = "CANCELLED"
)

// Transparency is the TRANSP property: whether the event blocks free/busy time.
// https://datatracker.ietf.org/doc/html/rfc5545#section-3.8.2.7
type Transparency string

const (
	TransparencyOpaque      Transparency = "OPAQUE"
	TransparencyTransparent Transparency = "TRANSPARENT"
)

// Event is a VEVENT component.
// https://datatracker.ietf.org/doc/html/rfc5545#section-3.6.1
type Event struct {
	IncidenceBase

	Summary     string
	Description string
	Location    string
	Status      EventStatus
	Transp      Transparency

	// DTEnd is meaningful only when HasEndDate is true; HasEndDate and
	// the base's HasDuration are mutually exclusive.
	DTEnd      instant.Instant
	HasEndDate bool

	Alarms []Alarm
}

// Accept dispatches v.VisitEvent(e) per the visitor pattern.
func (e *Event) Accept(v Visitor) { v.VisitEvent(e) }

// Base returns e's common incidence fields.
func (e *Event) Base() *IncidenceBase { return &e.IncidenceBase }

// InstanceID returns e's (uid, recurrence-id) instance identifier.
func (e *Event) InstanceID() InstanceID { return e.IncidenceBase.InstanceID() }

// SetSummary sets the event's SUMMARY, marking FieldSummary.
func (e *Event) SetSummary(s string) {
	e.Summary = s
	e.markDirty(FieldSummary)
}

// SetDescription sets the event's DESCRIPTION, marking FieldDescription.
func (e *Event) SetDescription(s string) {
	e.Description = s
	e.markDirty(FieldDescription)
}

// SetLocation sets the event's LOCATION, marking FieldLocation.
func (e *Event) SetLocation(s string) {
	e.Location = s
	e.markDirty(FieldLocation)
}

// SetStatus sets the event's STATUS, marking FieldStatus.
func (e *Event) SetStatus(s EventStatus) {
	e.Status = s
	e.markDirty(FieldStatus)
}

// SetDTEnd sets DTEnd and HasEndDate, clearing HasDuration (the two
// are mutually exclusive), marking FieldEnd.
func (e *Event) SetDTEnd(i instant.Instant) {
	e.DTEnd = i
	e.HasEndDate = true
	e.HasDuration = false
	e.markDirty(FieldEnd)
}

// Equal compares the base fields IncidenceBase.equal compares, plus
// Summary, Description, Location, Status, Transp and DTEnd.
// LastModified and Alarms are not compared.
func (e *Event) Equal(o *Event) bool {
	return e.IncidenceBase.equal(&o.IncidenceBase) &&
		e.Summary == o.Summary && e.Description == o.Description && e.Location == o.Location &&
		e.Status == o.Status && e.Transp == o.Transp &&
		e.HasEndDate == o.HasEndDate && (!e.HasEndDate || e.DTEnd == o.DTEnd)
}
