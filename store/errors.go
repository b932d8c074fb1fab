// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package store

import "errors"

var (
	ErrDuplicateInstance = errors.New("an incidence with this instance identifier already exists")
	ErrNotFound          = errors.New("no incidence with this instance identifier")
	ErrParentNotFound    = errors.New("no parent incidence with this uid")
	ErrNotRecurring      = errors.New("parent incidence has no recurrence to except")
)
