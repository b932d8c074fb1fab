// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package recur aggregates one or more rrule.Rule recurrence rules,
// zero or more exclusion rules, and explicit inclusion/exclusion date
// sets anchored at a single start instant, combining them into the
// occurrence set RFC 5545 §3.8.5 describes for a recurring component.
package recur
