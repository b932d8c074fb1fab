// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package store

import "github.com/google/uuid"

// NewUID mints a fresh UID for an incidence created locally without
// one. RFC 5545 §3.8.4.7 only requires global uniqueness; a random
// UUID satisfies that without any coordination with other calendars.
func NewUID() string {
	return uuid.NewString()
}
