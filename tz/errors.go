// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tz

import "errors"

var (
	// ErrMissingTZID is returned when a VTIMEZONE carries no TZID.
	ErrMissingTZID = errors.New("timezone: missing TZID")
	// ErrInvalidOffset is returned by offset parsing for a malformed
	// TZOFFSETFROM/TZOFFSETTO value.
	ErrInvalidOffset = errors.New("timezone: invalid UTC offset")
)
