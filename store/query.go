// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package store

import (
	"sort"

	"github.com/kelridge/icalcore/instant"
	"github.com/kelridge/icalcore/model"
)

// OccurrenceHit is one incidence occurrence falling on a queried date:
// Parent is the stored incidence (a parent or an already-materialized
// exception), and Start/End are the specific occurrence's instants —
// which differ from Parent.Base().DTStart/DTEnd whenever Parent
// recurs.
type OccurrenceHit struct {
	Parent model.Incidence
	Start  instant.Instant
	End    instant.Instant
	HasEnd bool
}

// RawEventsForDate returns every event occurrence whose span intersects
// the civil date, across bucketed single instances, multi-day events
// bucketed on an earlier date, and recurring parents' generated
// occurrences, sorted by start time. A parent occurrence whose instant
// a stored exception's RecurrenceID names is left out; the exception
// itself is returned in its place.
func (c *Calendar) RawEventsForDate(date instant.Instant) []OccurrenceHit {
	var hits []OccurrenceHit
	day := dateKey{Kind: KindEvent, Year: date.Wall.Year, Month: date.Wall.Month, Day: date.Wall.Day}

	for _, id := range c.byDate[day] {
		if inc, ok := c.byInstance[id]; ok {
			hits = append(hits, hitFromSingle(inc))
		}
	}
	for key, ids := range c.byDate {
		if key.Kind != KindEvent || key == day {
			continue
		}
		if !spansOnto(key, day) {
			continue
		}
		dayStart := instant.WallClock{Year: day.Year, Month: day.Month, Day: day.Day}
		for _, id := range ids {
			ev, ok := c.byInstance[id].(*model.Event)
			if !ok || !ev.HasEndDate || ev.DTEnd.Wall.Compare(dayStart) <= 0 {
				continue
			}
			hits = append(hits, hitFromSingle(ev))
		}
	}
	for _, inc := range c.byInstance {
		ev, ok := inc.(*model.Event)
		if !ok || ev.Recurrence == nil {
			continue
		}
		for _, occ := range ev.Recurrence.RecurTimesOn(date) {
			if _, overridden := c.byInstance[model.InstanceID{UID: ev.UID, RecurrenceID: occ, HasRecurrenceID: true}]; overridden {
				continue
			}
			end, hasEnd := occurrenceEnd(ev.IncidenceBase, occ, c.Zones)
			hits = append(hits, OccurrenceHit{Parent: ev, Start: occ, End: end, HasEnd: hasEnd})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if cmp, ok := instant.Compare(hits[i].Start, hits[j].Start, c.Zones); ok {
			return cmp < 0
		}
		return hits[i].Start.Wall.Compare(hits[j].Start.Wall) < 0
	})
	return hits
}

func hitFromSingle(inc model.Incidence) OccurrenceHit {
	base := inc.Base()
	hit := OccurrenceHit{Parent: inc, Start: base.DTStart}
	if ev, ok := inc.(*model.Event); ok && ev.HasEndDate {
		hit.End, hit.HasEnd = ev.DTEnd, true
	}
	return hit
}

// spansOnto reports whether a multi-day event bucketed at from could
// still be in progress on to — a conservative ~365-day window rather
// than tracking exact spans in the bucket key, trading a few false
// positives (filtered by the caller inspecting the event's own DTEnd)
// for not needing a second index.
func spansOnto(from, to dateKey) bool {
	fromOrdinal := from.Year*372 + from.Month*31 + from.Day
	toOrdinal := to.Year*372 + to.Month*31 + to.Day
	return fromOrdinal < toOrdinal && toOrdinal-fromOrdinal <= 366
}

func occurrenceEnd(base model.IncidenceBase, occ instant.Instant, res instant.Resolver) (instant.Instant, bool) {
	if base.HasDuration {
		return occ.Add(base.Duration, res), true
	}
	return instant.Instant{}, false
}

// Alarms returns every alarm trigger instant falling in [from, to]
// across every Event and Todo in the calendar, expanding each
// recurring incidence's own occurrences via its Recurrence aggregator.
func (c *Calendar) Alarms(from, to instant.Instant) []AlarmHit {
	var out []AlarmHit
	for _, inc := range c.byInstance {
		switch v := inc.(type) {
		case *model.Event:
			out = append(out, alarmsForEvent(v, from, to, c.Zones)...)
		case *model.Todo:
			out = append(out, alarmsForTodo(v, from, to, c.Zones)...)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if cmp, ok := instant.Compare(out[i].At, out[j].At, c.Zones); ok {
			return cmp < 0
		}
		return out[i].At.Wall.Compare(out[j].At.Wall) < 0
	})
	return out
}

// AlarmHit is one alarm's trigger instant for one occurrence of its
// owning incidence.
type AlarmHit struct {
	Owner model.Incidence
	Alarm model.Alarm
	At    instant.Instant
}

func alarmsForEvent(ev *model.Event, from, to instant.Instant, res instant.Resolver) []AlarmHit {
	if len(ev.Alarms) == 0 {
		return nil
	}
	starts, ends := occurrenceWindow(ev.IncidenceBase, from, to, res)
	var out []AlarmHit
	for i, start := range starts {
		var end *instant.Instant
		if ev.HasEndDate {
			if ev.Recurrence == nil {
				e := ev.DTEnd
				end = &e
			} else {
				e := ends[i]
				end = &e
			}
		}
		out = append(out, alarmsAt(ev, ev.Alarms, start, end, from, to, res)...)
	}
	return out
}

func alarmsForTodo(td *model.Todo, from, to instant.Instant, res instant.Resolver) []AlarmHit {
	if len(td.Alarms) == 0 {
		return nil
	}
	starts, ends := occurrenceWindow(td.IncidenceBase, from, to, res)
	var out []AlarmHit
	for i, start := range starts {
		var end *instant.Instant
		if td.HasDueDate {
			if td.Recurrence == nil {
				e := td.DTDue
				end = &e
			} else {
				e := ends[i]
				end = &e
			}
		}
		out = append(out, alarmsAt(td, td.Alarms, start, end, from, to, res)...)
	}
	return out
}

func occurrenceWindow(base model.IncidenceBase, from, to instant.Instant, res instant.Resolver) ([]instant.Instant, []instant.Instant) {
	if base.Recurrence == nil {
		if cmp1, ok1 := instant.Compare(base.DTStart, to, res); !ok1 || cmp1 > 0 {
			return nil, nil
		}
		return []instant.Instant{base.DTStart}, []instant.Instant{base.DTStart}
	}
	starts, _ := base.Recurrence.TimesInInterval(from, to)
	ends := make([]instant.Instant, len(starts))
	for i, s := range starts {
		ends[i] = s.Add(base.Duration, res)
	}
	return starts, ends
}

func alarmsAt(owner model.Incidence, alarms []model.Alarm, start instant.Instant, end *instant.Instant, from, to instant.Instant, res instant.Resolver) []AlarmHit {
	var out []AlarmHit
	for _, al := range alarms {
		anchor := start
		if al.TriggerFromEnd {
			if end == nil {
				continue
			}
			anchor = *end
		}
		at := anchor.Add(al.Trigger, res)
		c1, ok1 := instant.Compare(from, at, res)
		c2, ok2 := instant.Compare(at, to, res)
		if ok1 && ok2 && c1 <= 0 && c2 <= 0 {
			out = append(out, AlarmHit{Owner: owner, Alarm: al, At: at})
		}
	}
	return out
}
