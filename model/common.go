// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

import (
	"net/url"

	"github.com/kelridge/icalcore/instant"
	"github.com/kelridge/icalcore/recur"
)

// Organizer represents an ORGANIZER component in the iCalendar format, used in VEVENT, VTODO, and VJOURNAL
// for more information see https://datatracker.ietf.org/doc/html/rfc5545#section-3.8.4.3
type Organizer struct {
	// CommonName is the CN= parameter.
	CommonName string
	// Note: Any Valid URI
	// See: https://datatracker.ietf.org/doc/html/rfc5545#section-3.3.3
	CalAddress *url.URL
	// Directory is the DIR= parameter.
	Directory string
}

// Attachment represents an ATTACH property. The payload is either a
// URI or an inline binary blob (VALUE=BINARY), never both.
// https://datatracker.ietf.org/doc/html/rfc5545#section-3.8.1.1
type Attachment struct {
	URI      string
	Inline   []byte
	MimeType string

	// ShowInline and KontactType carry the source's "show-inline" /
	// X-KONTACT-TYPE attachment flags verbatim; they are opaque to the
	// recurrence engine and codec beyond round-tripping.
	ShowInline  bool
	KontactType string
}

// InstanceID is (uid, recurrence-id), the instance identifier that
// uniquely names a stored incidence, parent or exception. A parent
// incidence has HasRecurrenceID == false.
type InstanceID struct {
	UID             string
	RecurrenceID    instant.Instant
	HasRecurrenceID bool
}

// IncidenceBase is the field set common to every incidence kind.
// Concrete kinds (Event, Todo, Journal, FreeBusy) embed it and add
// their own variant-specific fields.
type IncidenceBase struct {
	UID string
	// SchedulingID is the iTIP wire identity when it differs from UID;
	// empty when they coincide.
	SchedulingID string
	Sequence     int

	DTStamp      instant.Instant
	LastModified instant.Instant
	DTStart      instant.Instant
	// Created is the CREATED property. Under the legacy
	// X-KDE-ICAL-IMPLEMENTATION-VERSION < 1.0 convention the codec
	// populates this from DTSTAMP instead (see ical's decode rules).
	Created    instant.Instant
	HasCreated bool

	// RecurrenceID is non-nil when this incidence is an exception
	// instance of a recurring parent sharing UID.
	RecurrenceID *instant.Instant

	Organizer   *Organizer
	Duration    instant.Duration
	HasDuration bool
	AllDay      bool
	ReadOnly    bool
	URL         string

	Attendees   []Attendee
	Comments    []string
	Contacts    []string
	Attachments []Attachment

	CustomProperties *CustomProperties

	// Recurrence is nil for a non-recurring incidence. An exception
	// instance (RecurrenceID != nil) never carries its own Recurrence.
	// The aggregator knows nothing of exceptions: the store's
	// RawEventsForDate leaves out a parent occurrence that a stored
	// exception overrides, while Calendar.Alarms still expands it.
	Recurrence *recur.Aggregator

	dirty dirtyTracker
}

// NewIncidenceBase returns a base with its CustomProperties bag
// initialized and ready to observe.
func NewIncidenceBase(uid string) IncidenceBase {
	return IncidenceBase{UID: uid, CustomProperties: NewCustomProperties()}
}

// InstanceID returns the (uid, recurrence-id) pair identifying b.
func (b *IncidenceBase) InstanceID() InstanceID {
	if b.RecurrenceID == nil {
		return InstanceID{UID: b.UID}
	}
	return InstanceID{UID: b.UID, RecurrenceID: *b.RecurrenceID, HasRecurrenceID: true}
}

// Observe registers o on b, notified once per StartUpdates/EndUpdates batch.
func (b *IncidenceBase) Observe(o IncidenceObserver) { b.dirty.observe(o) }

// Unobserve removes a previously registered observer.
func (b *IncidenceBase) Unobserve(o IncidenceObserver) { b.dirty.unobserve(o) }

// StartUpdates opens a batch: subsequent setter calls accumulate their
// field tags instead of notifying immediately.
func (b *IncidenceBase) StartUpdates() { b.dirty.startUpdates() }

// EndUpdates closes the batch opened by StartUpdates, notifying
// observers once with every field touched since.
func (b *IncidenceBase) EndUpdates() { b.dirty.endUpdates() }

func (b *IncidenceBase) markDirty(f Field) { b.dirty.markDirty(f) }

// SetDTStart sets the incidence's anchor instant, marking FieldStart.
func (b *IncidenceBase) SetDTStart(i instant.Instant) {
	b.DTStart = i
	b.markDirty(FieldStart)
}

// SetOrganizer assigns the organizer, marking FieldUnknown (no
// dedicated tag exists for this rarely-mutated field).
func (b *IncidenceBase) SetOrganizer(o *Organizer) {
	b.Organizer = o
	b.markDirty(FieldUnknown)
}

// AddAttendee appends a to the attendee list, marking FieldAttendees.
func (b *IncidenceBase) AddAttendee(a Attendee) {
	b.Attendees = append(b.Attendees, a)
	b.markDirty(FieldAttendees)
}

// equal compares UID, SchedulingID, Sequence, DTStart, AllDay,
// ReadOnly, URL, Duration, Attendees and Comments. LastModified is left
// out as a bookkeeping timestamp; DTStamp, Created, RecurrenceID,
// Organizer, Contacts, Attachments, CustomProperties and Recurrence
// are not compared either.
func (b *IncidenceBase) equal(o *IncidenceBase) bool {
	if b.UID != o.UID || b.SchedulingID != o.SchedulingID || b.Sequence != o.Sequence {
		return false
	}
	if b.DTStart != o.DTStart || b.AllDay != o.AllDay || b.ReadOnly != o.ReadOnly || b.URL != o.URL {
		return false
	}
	if b.HasDuration != o.HasDuration || (b.HasDuration && b.Duration != o.Duration) {
		return false
	}
	if len(b.Attendees) != len(o.Attendees) || len(b.Comments) != len(o.Comments) {
		return false
	}
	for i := range b.Attendees {
		if b.Attendees[i] != o.Attendees[i] {
			return false
		}
	}
	for i := range b.Comments {
		if b.Comments[i] != o.Comments[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of b suitable for seeding a new
// exception instance: slices and the custom-property bag are copied so
// mutating the clone never touches b, and the copy starts with no
// observers and no recurrence of its own (an exception instance never
// carries one).
func (b *IncidenceBase) Clone() IncidenceBase {
	out := *b
	out.Recurrence = nil
	out.RecurrenceID = nil
	out.dirty = dirtyTracker{}
	if b.CustomProperties != nil {
		out.CustomProperties = b.CustomProperties.Clone()
	}
	if len(b.Attendees) > 0 {
		out.Attendees = append([]Attendee(nil), b.Attendees...)
	}
	if len(b.Comments) > 0 {
		out.Comments = append([]string(nil), b.Comments...)
	}
	if len(b.Contacts) > 0 {
		out.Contacts = append([]string(nil), b.Contacts...)
	}
	if len(b.Attachments) > 0 {
		out.Attachments = append([]Attachment(nil), b.Attachments...)
	}
	return out
}

// Visitor dispatches on an incidence's concrete kind without
// downcasting. The codec, the store, and external consumers all use
// it the same way: call incidence.Accept(v).
type Visitor interface {
	VisitEvent(*Event)
	VisitTodo(*Todo)
	VisitJournal(*Journal)
	VisitFreeBusy(*FreeBusy)
}

// Incidence is any calendar object with a common base: Event, Todo,
// Journal, or FreeBusy.
type Incidence interface {
	Accept(Visitor)
	InstanceID() InstanceID
	Base() *IncidenceBase
}
