// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package itip

import (
	"github.com/google/uuid"
	"github.com/kelridge/icalcore/model"
)

// AssignSchedulingID mints a fresh scheduling id for base if it does
// not already carry one distinct from its UID. Callers use this before
// PrepareOutgoing when an incidence's local UID should not be exposed
// on the wire as-is (RFC 5545 §3.8.4.7's SCHEDULE-AGENT pattern).
func AssignSchedulingID(base *model.IncidenceBase) {
	if base.SchedulingID != "" && base.SchedulingID != base.UID {
		return
	}
	base.SchedulingID = uuid.NewString()
}
