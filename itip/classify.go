// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package itip

import (
	"github.com/kelridge/icalcore/instant"
	"github.com/kelridge/icalcore/model"
	"github.com/kelridge/icalcore/store"
)

// Classification is the result of comparing an incoming iTIP message
// against a reference calendar's existing state for the same uid.
type Classification int

const (
	Unknown Classification = iota
	PublishNew
	PublishUpdate
	Obsolete
	RequestNew
	RequestUpdate
)

// String renders c for logging.
func (c Classification) String() string {
	switch c {
	case PublishNew:
		return "publishNew"
	case PublishUpdate:
		return "publishUpdate"
	case Obsolete:
		return "obsolete"
	case RequestNew:
		return "requestNew"
	case RequestUpdate:
		return "requestUpdate"
	}
	return "unknown"
}

// ExtractIncidence returns the incidence carried by an iTIP message
// calendar; when it holds more than one, the first in msg.All() order
// is returned. A message with none is ErrEmptyMessage. msg holds only
// what Decode indexes (events, to-dos, journals and free/busy), so a
// message whose body is some other component also reports
// ErrEmptyMessage; ExtractIncidence never returns ErrNotIncidence.
func ExtractIncidence(msg *store.Calendar) (model.Incidence, error) {
	all := msg.All()
	if len(all) == 0 {
		return nil, ErrEmptyMessage
	}
	return all[0], nil
}

// Classify extracts msg's method and sole incidence, then compares it
// against reference's existing incidence of the same uid (if any) to
// decide the message's classification. Methods outside PUBLISH/REQUEST
// (REFRESH, CANCEL, ADD, REPLY, COUNTER, DECLINE-COUNTER) are commands
// rather than publish/update proposals and classify as Unknown; callers
// dispatch those by Method directly rather than by Classification.
func Classify(msg, reference *store.Calendar) (Classification, model.Incidence, error) {
	if msg.Method == "" {
		return Unknown, nil, ErrMethodMissing
	}
	method, err := ParseMethod(msg.Method)
	if err != nil {
		return Unknown, nil, err
	}
	inc, err := ExtractIncidence(msg)
	if err != nil {
		return Unknown, nil, err
	}

	existing := lookupParent(reference, inc.Base().UID)

	switch method {
	case Publish:
		if existing == nil {
			return PublishNew, inc, nil
		}
		if isNewer(inc.Base(), existing.Base(), reference.Zones) {
			return PublishUpdate, inc, nil
		}
		return Obsolete, inc, nil
	case Request:
		if existing == nil {
			return RequestNew, inc, nil
		}
		return RequestUpdate, inc, nil
	default:
		return Unknown, inc, nil
	}
}

// lookupParent returns reference's non-exception incidence for uid, if any.
func lookupParent(reference *store.Calendar, uid string) model.Incidence {
	for _, inc := range reference.Incidences(uid) {
		if !inc.InstanceID().HasRecurrenceID {
			return inc
		}
	}
	return nil
}

// isNewer reports whether incoming supersedes existing: a strictly
// greater SEQUENCE wins outright; equal sequence falls back to
// LAST-MODIFIED; a lower sequence never supersedes.
func isNewer(incoming, existing *model.IncidenceBase, res instant.Resolver) bool {
	if incoming.Sequence != existing.Sequence {
		return incoming.Sequence > existing.Sequence
	}
	cmp, ok := instant.Compare(existing.LastModified, incoming.LastModified, res)
	if !ok {
		return false
	}
	return cmp < 0
}
