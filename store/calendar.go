// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package store

import (
	"sort"
	"time"

	"github.com/kelridge/icalcore/instant"
	"github.com/kelridge/icalcore/model"
	"github.com/kelridge/icalcore/tz"
)

// Kind tags which concrete incidence variant an entry holds, for the
// date-bucket view's (kind, date) key.
type Kind int

const (
	KindEvent Kind = iota
	KindTodo
	KindJournal
	KindFreeBusy
)

type dateKey struct {
	Kind             Kind
	Year, Month, Day int
}

// Observer is notified after every calendar mutation: add, delete, or
// a tracked incidence's own field change.
type Observer interface {
	OnCalendarChanged()
}

// Calendar is the in-memory, process-local calendar index. It owns
// every incidence added to it exclusively: an incidence pointer must
// not be shared between two Calendars — Clone the incidence to move it.
type Calendar struct {
	Version  string
	ProdID   string
	CalScale string
	Method   string
	Zones    *tz.Collection

	trackDeletions bool

	byUID      map[string][]model.InstanceID
	byInstance map[model.InstanceID]model.Incidence
	byDate     map[dateKey][]model.InstanceID

	deleted map[model.InstanceID]model.Incidence

	watchers  map[model.InstanceID]*incidenceWatcher
	observers []Observer
}

// New returns an empty Calendar. trackDeletions enables the
// soft-deletion set returned by DeletedIncidences.
func New(zones *tz.Collection, trackDeletions bool) *Calendar {
	if zones == nil {
		zones = tz.NewCollection()
	}
	return &Calendar{
		Zones:          zones,
		trackDeletions: trackDeletions,
		byUID:          make(map[string][]model.InstanceID),
		byInstance:     make(map[model.InstanceID]model.Incidence),
		byDate:         make(map[dateKey][]model.InstanceID),
		deleted:        make(map[model.InstanceID]model.Incidence),
		watchers:       make(map[model.InstanceID]*incidenceWatcher),
	}
}

// Observe registers o to be notified after every mutation.
func (c *Calendar) Observe(o Observer) { c.observers = append(c.observers, o) }

func (c *Calendar) notify() {
	for _, o := range c.observers {
		o.OnCalendarChanged()
	}
}

// incidenceWatcher adapts model.IncidenceObserver to a specific
// instance identity: the base callback carries only the changed
// fields, so the calendar needs a per-incidence closure to know which
// bucket entry to re-key.
type incidenceWatcher struct {
	cal *Calendar
	id  model.InstanceID
}

func (w *incidenceWatcher) OnIncidenceChanged(fields []model.Field) {
	w.cal.onIncidenceChanged(w.id, fields)
}

func (c *Calendar) onIncidenceChanged(id model.InstanceID, fields []model.Field) {
	inc, ok := c.byInstance[id]
	if !ok {
		return
	}
	base := inc.Base()
	base.LastModified = nowUTC()
	for _, f := range fields {
		if f == model.FieldStart || f == model.FieldEnd || f == model.FieldDue {
			c.rebucket(id, inc)
			break
		}
	}
	c.notify()
}

func nowUTC() instant.Instant {
	t := time.Now().UTC()
	return instant.New(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second(), instant.SpecUTC())
}

func kindOf(inc model.Incidence) Kind {
	switch inc.(type) {
	case *model.Event:
		return KindEvent
	case *model.Todo:
		return KindTodo
	case *model.Journal:
		return KindJournal
	case *model.FreeBusy:
		return KindFreeBusy
	}
	return KindEvent
}

// bucketKeyFor returns the date-bucket key for inc, or ok=false if it
// is a recurring parent: recurrences are answered dynamically from
// their Recurrence aggregator, never bucketed.
func bucketKeyFor(inc model.Incidence) (dateKey, bool) {
	base := inc.Base()
	if base.Recurrence != nil {
		return dateKey{}, false
	}
	w := base.DTStart.Wall
	return dateKey{Kind: kindOf(inc), Year: w.Year, Month: w.Month, Day: w.Day}, true
}

func (c *Calendar) rebucket(id model.InstanceID, inc model.Incidence) {
	for k, ids := range c.byDate {
		for i, existing := range ids {
			if existing == id {
				c.byDate[k] = append(ids[:i], ids[i+1:]...)
				break
			}
		}
	}
	if key, ok := bucketKeyFor(inc); ok {
		c.byDate[key] = append(c.byDate[key], id)
	}
}

// AddIncidence indexes inc under all three views, registers the
// calendar as an observer of inc, and returns ErrDuplicateInstance if
// its instance identifier is already present.
func (c *Calendar) AddIncidence(inc model.Incidence) error {
	id := inc.InstanceID()
	if _, exists := c.byInstance[id]; exists {
		return ErrDuplicateInstance
	}
	c.byInstance[id] = inc
	c.byUID[id.UID] = append(c.byUID[id.UID], id)
	if key, ok := bucketKeyFor(inc); ok {
		c.byDate[key] = append(c.byDate[key], id)
	}
	w := &incidenceWatcher{cal: c, id: id}
	c.watchers[id] = w
	inc.Base().Observe(w)
	delete(c.deleted, id)
	c.notify()
	return nil
}

// Incidence returns the incidence stored under id (the identifier view).
func (c *Calendar) Incidence(id model.InstanceID) (model.Incidence, bool) {
	inc, ok := c.byInstance[id]
	return inc, ok
}

// Incidences returns every incidence sharing uid — the parent and all
// of its exceptions — via the primary view. Order follows insertion.
func (c *Calendar) Incidences(uid string) []model.Incidence {
	ids := c.byUID[uid]
	out := make([]model.Incidence, 0, len(ids))
	for _, id := range ids {
		if inc, ok := c.byInstance[id]; ok {
			out = append(out, inc)
		}
	}
	return out
}

// DeleteIncidence removes id from every view. If deletion tracking is
// enabled the incidence is retained in the soft-deleted set until
// re-added or the calendar is closed. Deleting a parent cascades to
// every exception sharing its uid.
func (c *Calendar) DeleteIncidence(id model.InstanceID) bool {
	inc, ok := c.byInstance[id]
	if !ok {
		return false
	}
	c.removeOne(id, inc)
	if !id.HasRecurrenceID {
		for _, childID := range append([]model.InstanceID(nil), c.byUID[id.UID]...) {
			if child, ok := c.byInstance[childID]; ok {
				c.removeOne(childID, child)
			}
		}
	}
	c.notify()
	return true
}

func (c *Calendar) removeOne(id model.InstanceID, inc model.Incidence) {
	if w, ok := c.watchers[id]; ok {
		inc.Base().Unobserve(w)
		delete(c.watchers, id)
	}
	delete(c.byInstance, id)
	if ids := c.byUID[id.UID]; len(ids) > 0 {
		filtered := ids[:0]
		for _, existing := range ids {
			if existing != id {
				filtered = append(filtered, existing)
			}
		}
		if len(filtered) == 0 {
			delete(c.byUID, id.UID)
		} else {
			c.byUID[id.UID] = filtered
		}
	}
	for k, ids := range c.byDate {
		for i, existing := range ids {
			if existing == id {
				c.byDate[k] = append(ids[:i], ids[i+1:]...)
				break
			}
		}
	}
	if c.trackDeletions {
		c.deleted[id] = inc
	}
}

// DeletedIncidences returns every soft-deleted incidence sharing uid.
func (c *Calendar) DeletedIncidences(uid string) []model.Incidence {
	var out []model.Incidence
	for id, inc := range c.deleted {
		if id.UID == uid {
			out = append(out, inc)
		}
	}
	return out
}

// All returns every incidence currently indexed, ordered by UID and
// then parents before their exceptions — a stable order suitable for
// deterministic re-serialization.
func (c *Calendar) All() []model.Incidence {
	uids := make([]string, 0, len(c.byUID))
	for uid := range c.byUID {
		uids = append(uids, uid)
	}
	sort.Strings(uids)

	out := make([]model.Incidence, 0, len(c.byInstance))
	for _, uid := range uids {
		ids := append([]model.InstanceID(nil), c.byUID[uid]...)
		sort.Slice(ids, func(i, j int) bool {
			if ids[i].HasRecurrenceID != ids[j].HasRecurrenceID {
				return !ids[i].HasRecurrenceID
			}
			return ids[i].RecurrenceID.Wall.Compare(ids[j].RecurrenceID.Wall) < 0
		})
		for _, id := range ids {
			if inc, ok := c.byInstance[id]; ok {
				out = append(out, inc)
			}
		}
	}
	return out
}

// Close clears the soft-deletion set.
func (c *Calendar) Close() {
	c.deleted = make(map[model.InstanceID]model.Incidence)
}
