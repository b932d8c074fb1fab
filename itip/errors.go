// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package itip

import "errors"

var (
	ErrEmptyMessage  = errors.New("itip: message carries no incidence")
	ErrMethodMissing = errors.New("itip: message has no METHOD property")
	ErrUnknownMethod = errors.New("itip: unrecognized METHOD value")
	ErrNotIncidence  = errors.New("itip: message body is neither event, todo, journal, nor free/busy")
)
