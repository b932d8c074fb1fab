// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package model

// Field tags one mutable field of an incidence, set by its setter so
// observers can learn what changed without polling the whole struct.
type Field int

const (
	FieldUnknown Field = iota
	FieldSummary
	FieldDescription
	FieldLocation
	FieldStatus
	FieldStart
	FieldEnd
	FieldDue
	FieldRecurrence
	FieldAttendees
	FieldCustomProperty
)

// IncidenceObserver is notified once per update batch with the set of
// fields that changed during it.
type IncidenceObserver interface {
	OnIncidenceChanged(fields []Field)
}

// dirtyTracker batches field-change notifications between
// startUpdates/endUpdates so a caller editing several fields in
// sequence produces one notification, not one per setter.
type dirtyTracker struct {
	observers []IncidenceObserver
	pending   map[Field]bool
	batching  bool
}

func (d *dirtyTracker) observe(o IncidenceObserver) { d.observers = append(d.observers, o) }

func (d *dirtyTracker) unobserve(o IncidenceObserver) {
	for i, existing := range d.observers {
		if existing == o {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			return
		}
	}
}

// startUpdates begins a batch: subsequent markDirty calls accumulate
// rather than notify immediately.
func (d *dirtyTracker) startUpdates() {
	d.batching = true
	if d.pending == nil {
		d.pending = make(map[Field]bool)
	}
}

// endUpdates closes the batch, notifying observers once with every
// field touched since startUpdates.
func (d *dirtyTracker) endUpdates() {
	d.batching = false
	if len(d.pending) == 0 {
		return
	}
	fields := make([]Field, 0, len(d.pending))
	for f := range d.pending {
		fields = append(fields, f)
	}
	d.pending = make(map[Field]bool)
	d.notify(fields)
}

// markDirty records that field changed, notifying immediately unless
// a batch is open.
func (d *dirtyTracker) markDirty(field Field) {
	if d.batching {
		d.pending[field] = true
		return
	}
	d.notify([]Field{field})
}

func (d *dirtyTracker) notify(fields []Field) {
	for _, o := range d.observers {
		o.OnIncidenceChanged(fields)
	}
}
