// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package itip

import (
	"github.com/kelridge/icalcore/instant"
	"github.com/kelridge/icalcore/model"
)

// PrepareOutgoing returns a copy of inc suitable for wire transmission.
// If inc does not recur, every instant it carries is shifted to UTC
// (cross-DST safe: the recipient need not share the sender's zone
// database). If inc's SchedulingID differs from its UID, the wire copy
// uses the scheduling id as UID, leaving inc's own local identity
// untouched — the caller's reference calendar still keys it by the
// original UID.
func PrepareOutgoing(inc model.Incidence, res instant.Resolver) model.Incidence {
	out := cloneIncidence(inc)
	base := out.Base()

	if base.SchedulingID != "" && base.SchedulingID != base.UID {
		base.UID = base.SchedulingID
	}

	if base.Recurrence == nil {
		shiftBaseToUTC(base, res)
		shiftVariantToUTC(out, res)
	}
	return out
}

func shiftBaseToUTC(base *model.IncidenceBase, res instant.Resolver) {
	if shifted, ok := base.DTStart.ToTimeSpec(instant.SpecUTC(), res); ok {
		base.DTStart = shifted
	}
	if base.RecurrenceID != nil {
		if shifted, ok := base.RecurrenceID.ToTimeSpec(instant.SpecUTC(), res); ok {
			base.RecurrenceID = &shifted
		}
	}
}

func shiftVariantToUTC(inc model.Incidence, res instant.Resolver) {
	switch v := inc.(type) {
	case *model.Event:
		if v.HasEndDate {
			if shifted, ok := v.DTEnd.ToTimeSpec(instant.SpecUTC(), res); ok {
				v.DTEnd = shifted
			}
		}
	case *model.Todo:
		if v.HasDueDate {
			if shifted, ok := v.DTDue.ToTimeSpec(instant.SpecUTC(), res); ok {
				v.DTDue = shifted
			}
		}
		if v.HasCompleted {
			if shifted, ok := v.DTCompleted.ToTimeSpec(instant.SpecUTC(), res); ok {
				v.DTCompleted = shifted
			}
		}
	case *model.FreeBusy:
		if shifted, ok := v.DTEnd.ToTimeSpec(instant.SpecUTC(), res); ok {
			v.DTEnd = shifted
		}
		for i, p := range v.Busy {
			if s, ok := p.Start.ToTimeSpec(instant.SpecUTC(), res); ok {
				v.Busy[i].Start = s
			}
			if e, ok := p.End.ToTimeSpec(instant.SpecUTC(), res); ok {
				v.Busy[i].End = e
			}
		}
	}
}

func cloneIncidence(inc model.Incidence) model.Incidence {
	switch v := inc.(type) {
	case *model.Event:
		out := *v
		out.IncidenceBase = cloneBaseKeepingRecurrence(&v.IncidenceBase)
		out.Alarms = append([]model.Alarm(nil), v.Alarms...)
		return &out
	case *model.Todo:
		out := *v
		out.IncidenceBase = cloneBaseKeepingRecurrence(&v.IncidenceBase)
		out.RelatedTo = append([]string(nil), v.RelatedTo...)
		out.Alarms = append([]model.Alarm(nil), v.Alarms...)
		return &out
	case *model.Journal:
		out := *v
		out.IncidenceBase = cloneBaseKeepingRecurrence(&v.IncidenceBase)
		out.Description = append([]string(nil), v.Description...)
		return &out
	case *model.FreeBusy:
		out := *v
		out.IncidenceBase = cloneBaseKeepingRecurrence(&v.IncidenceBase)
		out.Busy = append([]model.BusyPeriod(nil), v.Busy...)
		return &out
	}
	return inc
}

// cloneBaseKeepingRecurrence copies b the way IncidenceBase.Clone does
// for a new exception, except it keeps b's own Recurrence and
// RecurrenceID: Clone() clears both because a materialized exception
// must have neither, but an outgoing wire copy is not an exception.
func cloneBaseKeepingRecurrence(b *model.IncidenceBase) model.IncidenceBase {
	rec, rid := b.Recurrence, b.RecurrenceID
	out := b.Clone()
	out.Recurrence, out.RecurrenceID = rec, rid
	return out
}
