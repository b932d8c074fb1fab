// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package ical implements the iCalendar (RFC 5545) text codec: folding
// and unfolding content lines, tokenizing NAME;PARAM=VALUE:VALUE
// property lines, and decoding/encoding VCALENDAR, VEVENT, VTODO,
// VJOURNAL, VFREEBUSY, VALARM and VTIMEZONE components into and out of
// the model and store packages.
package ical
