// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package tz models VTIMEZONE time zones as a sorted list of UTC
// transitions between named phases (STANDARD/DAYLIGHT). It answers two
// questions: the UTC offset in effect at a real instant, and the
// offset(s) a local clock reading could correspond to, including the
// spring-forward gap and fall-back overlap cases RFC 5545 requires
// every consumer of a VTIMEZONE to handle.
//
// A Collection groups zones by TZID and implements instant.Resolver,
// so Instant values tagged with a NamedZone spec can be compared and
// projected to UTC without either package importing the other
// directly.
package tz
