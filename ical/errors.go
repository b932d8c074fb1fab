// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package ical

import "errors"

var (
	ErrNoCalendar       = errors.New("ical: input contains no BEGIN:VCALENDAR")
	ErrUnterminated     = errors.New("ical: component opened but never closed")
	ErrMismatchedEnd    = errors.New("ical: END component name does not match the open BEGIN")
	ErrMissingUID       = errors.New("ical: component has no UID")
	ErrMissingDTStart   = errors.New("ical: component has no DTSTART")
	ErrInvalidDateTime  = errors.New("ical: malformed date-time value")
	ErrInvalidParamForm = errors.New("ical: malformed property parameter")
)
