// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

import "github.com/kelridge/icalcore/instant"

// TodoStatus represents the possible values for a VTODO's STATUS field.
// https://datatracker.ietf.org/doc/html/rfc5545#section-3.8.1.11
type TodoStatus string

const (
	TodoStatusNeedsAction TodoStatus = "NEEDS-ACTION"
	TodoStatusCompleted   TodoStatus = "COMPLETED"
	TodoStatusInProcess   TodoStatus = "IN-PROCESS"
	TodoStatusCancelled   TodoStatus = "CANCELLED"
)

// Todo is a VTODO component.
// https://datatracker.ietf.org/doc/html/rfc5545#section-3.6.2
type Todo struct {
	IncidenceBase

	Summary     string
	Description string
	Location    string
	Status      TodoStatus

	DTDue      instant.Instant
	HasDueDate bool

	DTCompleted   instant.Instant
	HasCompleted  bool
	PercentComplete int // 0..100

	RelatedTo []string
	Alarms    []Alarm
}

// Accept dispatches v.VisitTodo(t) per the visitor pattern.
func (t *Todo) Accept(v Visitor) { v.VisitTodo(t) }

// Base returns t's common incidence fields.
func (t *Todo) Base() *IncidenceBase { return &t.IncidenceBase }

// InstanceID returns t's (uid, recurrence-id) instance identifier.
func (t *Todo) InstanceID() InstanceID { return t.IncidenceBase.InstanceID() }

// SetSummary sets the to-do's SUMMARY, marking FieldSummary.
func (t *Todo) SetSummary(s string) {
	t.Summary = s
	t.markDirty(FieldSummary)
}

// SetDTDue sets the to-do's DUE instant, marking FieldDue. A caller
// shifting DTStart on a due-bearing to-do should call SetDTDue with
// the same delta applied so the two stay consistent.
func (t *Todo) SetDTDue(i instant.Instant) {
	t.DTDue = i
	t.HasDueDate = true
	t.markDirty(FieldDue)
}

// SetPercentComplete sets PERCENT-COMPLETE, clamped to [0,100].
func (t *Todo) SetPercentComplete(p int) {
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	t.PercentComplete = p
	t.markDirty(FieldUnknown)
}

// Equal compares the base fields IncidenceBase.equal compares, plus
// Summary, Description, Location, Status, PercentComplete and DTDue.
// LastModified, DTCompleted, RelatedTo and Alarms are not compared.
func (t *Todo) Equal(o *Todo) bool {
	return t.IncidenceBase.equal(&o.IncidenceBase) &&
		t.Summary == o.Summary && t.Description == o.Description && t.Location == o.Location &&
		t.Status == o.Status && t.PercentComplete == o.PercentComplete &&
		t.HasDueDate == o.HasDueDate && (!t.HasDueDate || t.DTDue == o.DTDue)
}
