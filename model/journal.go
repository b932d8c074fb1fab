// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

// JournalStatus represents the possible values for a VJOURNAL's STATUS field.
// https://datatracker.ietf.org/doc/html/rfc5545#section-3.8.1.11
type JournalStatus string

const (
	JournalStatusDraft     JournalStatus = "DRAFT"
	JournalStatusFinal     JournalStatus = "FINAL"
	JournalStatusCancelled JournalStatus = "CANCELLED"
)

// JournalClass represents the possible values for a VJOURNAL's CLASS field.
// https://datatracker.ietf.org/doc/html/rfc5545#section-3.8.1.3
type JournalClass string

const (
	JournalClassPublic       JournalClass = "PUBLIC"
	JournalClassPrivate      JournalClass = "PRIVATE"
	JournalClassConfidential JournalClass = "CONFIDENTIAL"
)

// Journal is a VJOURNAL component. Unlike Event and Todo it carries
// no end date or duration — a journal entry does not occupy time on
// the calendar.
// https://datatracker.ietf.org/doc/html/rfc5545#section-3.6.3
type Journal struct {
	IncidenceBase

	Summary     string
	Description []string
	Status      JournalStatus
	Class       JournalClass
}

// Accept dispatches v.VisitJournal(j) per the visitor pattern.
func (j *Journal) Accept(v Visitor) { v.VisitJournal(j) }

// Base returns j's common incidence fields.
func (j *Journal) Base() *IncidenceBase { return &j.IncidenceBase }

// InstanceID returns j's (uid, recurrence-id) instance identifier.
func (j *Journal) InstanceID() InstanceID { return j.IncidenceBase.InstanceID() }

// SetSummary sets the journal's SUMMARY, marking FieldSummary.
func (j *Journal) SetSummary(s string) {
	j.Summary = s
	j.markDirty(FieldSummary)
}

// Equal compares the base fields IncidenceBase.equal compares, plus
// Summary, Status, Class and Description. LastModified is not compared.
func (j *Journal) Equal(o *Journal) bool {
	if !j.IncidenceBase.equal(&o.IncidenceBase) {
		return false
	}
	if j.Summary != o.Summary || j.Status != o.Status || j.Class != o.Class {
		return false
	}
	if len(j.Description) != len(o.Description) {
		return false
	}
	for i := range j.Description {
		if j.Description[i] != o.Description[i] {
			return false
		}
	}
	return true
}
