// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package store

import (
	"github.com/kelridge/icalcore/instant"
	"github.com/kelridge/icalcore/model"
)

// CreateException materializes a standalone instance for the
// recurring parent's occurrence at recurrenceID: a clone of the
// parent with its own RecurrenceID set and no Recurrence of its own,
// indexed alongside the parent under the same uid. The caller is then
// free to diverge the clone's fields (summary, start time, and so on)
// from the parent's before further edits.
//
// It fails with ErrParentNotFound if no parent with uid is present,
// and ErrNotRecurring if that parent carries no recurrence to except.
func (c *Calendar) CreateException(uid string, recurrenceID instant.Instant) (model.Incidence, error) {
	parent, ok := c.parentIncidence(uid)
	if !ok {
		return nil, ErrParentNotFound
	}
	if parent.Base().Recurrence == nil {
		return nil, ErrNotRecurring
	}

	exception := cloneAsException(parent, recurrenceID, c.Zones)
	if err := c.AddIncidence(exception); err != nil {
		return nil, err
	}
	return exception, nil
}

func (c *Calendar) parentIncidence(uid string) (model.Incidence, bool) {
	for _, id := range c.byUID[uid] {
		if !id.HasRecurrenceID {
			if inc, ok := c.byInstance[id]; ok {
				return inc, true
			}
		}
	}
	return nil, false
}

func cloneAsException(parent model.Incidence, recurrenceID instant.Instant, res instant.Resolver) model.Incidence {
	rid := recurrenceID
	switch p := parent.(type) {
	case *model.Event:
		out := &model.Event{IncidenceBase: p.IncidenceBase.Clone()}
		out.RecurrenceID = &rid
		out.DTStart = recurrenceID
		out.Summary, out.Description, out.Location = p.Summary, p.Description, p.Location
		out.Status, out.Transp = p.Status, p.Transp
		out.HasEndDate, out.DTEnd = p.HasEndDate, p.DTEnd
		if p.HasEndDate {
			shift := spanBetween(p.DTStart, p.DTEnd)
			out.DTEnd = recurrenceID.Add(shift, res)
		}
		out.Alarms = append([]model.Alarm(nil), p.Alarms...)
		return out
	case *model.Todo:
		out := &model.Todo{IncidenceBase: p.IncidenceBase.Clone()}
		out.RecurrenceID = &rid
		out.DTStart = recurrenceID
		out.Summary, out.Description, out.Location = p.Summary, p.Description, p.Location
		out.Status, out.PercentComplete = p.Status, p.PercentComplete
		out.HasDueDate, out.DTDue = p.HasDueDate, p.DTDue
		if p.HasDueDate {
			shift := spanBetween(p.DTStart, p.DTDue)
			out.DTDue = recurrenceID.Add(shift, res)
		}
		out.DTCompleted, out.HasCompleted = p.DTCompleted, p.HasCompleted
		out.RelatedTo = append([]string(nil), p.RelatedTo...)
		out.Alarms = append([]model.Alarm(nil), p.Alarms...)
		return out
	case *model.Journal:
		out := &model.Journal{IncidenceBase: p.IncidenceBase.Clone()}
		out.RecurrenceID = &rid
		out.DTStart = recurrenceID
		out.Summary, out.Class = p.Summary, p.Class
		out.Status = p.Status
		out.Description = append([]string(nil), p.Description...)
		return out
	case *model.FreeBusy:
		out := &model.FreeBusy{IncidenceBase: p.IncidenceBase.Clone()}
		out.RecurrenceID = &rid
		out.DTStart = recurrenceID
		out.DTEnd = p.DTEnd
		out.Busy = append([]model.BusyPeriod(nil), p.Busy...)
		return out
	}
	return nil
}

// spanBetween returns the wall-clock-days span between two date-only
// instants, or the seconds span otherwise; it ignores zone resolution
// since both ends share the same spec and only the civil delta matters
// for shifting an exception's secondary anchor (DTEnd, DUE) by the same
// amount the parent's own occurrence has moved.
func spanBetween(start, end instant.Instant) instant.Duration {
	if start.DateOnly && end.DateOnly {
		days := end.Wall.AsTime().Sub(start.Wall.AsTime()).Hours() / 24
		return instant.DaysDur(int64(days))
	}
	secs := end.Wall.AsTime().Sub(start.Wall.AsTime()).Seconds()
	return instant.Secs(int64(secs))
}
