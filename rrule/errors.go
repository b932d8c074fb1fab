// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package rrule

import "errors"

var (
	ErrInvalidRRuleString   = errors.New("invalid rrule string")
	ErrFrequencyRequired    = errors.New("frequency is required")
	ErrInvalidFrequency     = errors.New("invalid frequency")
	ErrCountAndUntilBothSet = errors.New("count and until cannot both be set")
	ErrInvalidInterval      = errors.New("interval must be a positive integer")
	ErrInvalidByDayString   = errors.New("invalid BYDAY string")
	ErrInvalidWeekday       = errors.New("invalid weekday")
)
