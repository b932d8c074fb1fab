// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package rrule implements RFC 5545 recurrence rules: parsing the
// RRULE/EXRULE value string, compiling its BY-lists into a set of
// constraints, and enumerating the instants that satisfy those
// constraints forward and backward from an anchor instant.
//
// Enumeration never allocates an unbounded slice: every walk forward or
// backward through intervals is capped (see maxIntervalAdvances), and a
// rule whose candidates run out before a COUNT or UNTIL bound is
// reached is reported, not silently truncated.
package rrule
