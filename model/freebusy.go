// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

import "github.com/kelridge/icalcore/instant"

// FreeBusyStatus represents the possible values for a VFREEBUSY's FREEBUSY property.
// https://datatracker.ietf.org/doc/html/rfc5545#section-3.8.2.6
type FreeBusyStatus string

const (
	FreeBusyStatusFree            FreeBusyStatus = "FREE"
	FreeBusyStatusBusy            FreeBusyStatus = "BUSY"
	FreeBusyStatusBusyTentative   FreeBusyStatus = "BUSY-TENTATIVE"
	FreeBusyStatusBusyUnavailable FreeBusyStatus = "BUSY-UNAVAILABLE"
)

// BusyPeriod is one interval in a VFREEBUSY's FREEBUSY property.
type BusyPeriod struct {
	Start, End instant.Instant
	Status     FreeBusyStatus
}

// FreeBusy is a VFREEBUSY component: either a request for free/busy
// time, a response to one, or a published set of busy time. It
// carries no Duration/AllDay distinction of its own; DTStart/DTEnd
// bound the request or publication window.
// https://datatracker.ietf.org/doc/html/rfc5545#section-3.6.4
type FreeBusy struct {
	IncidenceBase

	DTEnd instant.Instant
	Busy  []BusyPeriod
}

// Accept dispatches v.VisitFreeBusy(f) per the visitor pattern.
func (f *FreeBusy) Accept(v Visitor) { v.VisitFreeBusy(f) }

// Base returns f's common incidence fields.
func (f *FreeBusy) Base() *IncidenceBase { return &f.IncidenceBase }

// InstanceID returns f's (uid, recurrence-id) instance identifier.
func (f *FreeBusy) InstanceID() InstanceID { return f.IncidenceBase.InstanceID() }

// AddBusyPeriod appends p to the FREEBUSY list.
func (f *FreeBusy) AddBusyPeriod(p BusyPeriod) {
	f.Busy = append(f.Busy, p)
	f.markDirty(FieldUnknown)
}

// Equal compares the base fields IncidenceBase.equal compares, plus
// DTEnd and the busy periods. LastModified is not compared.
func (f *FreeBusy) Equal(o *FreeBusy) bool {
	if !f.IncidenceBase.equal(&o.IncidenceBase) || f.DTEnd != o.DTEnd {
		return false
	}
	if len(f.Busy) != len(o.Busy) {
		return false
	}
	for i := range f.Busy {
		if f.Busy[i] != o.Busy[i] {
			return false
		}
	}
	return true
}
