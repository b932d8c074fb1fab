// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package itip classifies an iTIP scheduling message (a VCALENDAR
// carrying a METHOD property and exactly one incidence) against a
// reference calendar, and prepares outgoing messages from a stored
// incidence. It is a thin state machine on top of package ical/store:
// no transport, no delivery, no retry — those are host concerns.
package itip
