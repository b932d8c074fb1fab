// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package store implements the in-memory calendar index: a Calendar
// owns its incidences exclusively and keeps three views — by UID, by
// instance identifier, and by date bucket — in agreement after every
// mutation. It is single-threaded and cooperatively shared: no
// operation here blocks or spawns a goroutine, and a mutation either
// updates every view or is not observable at all.
package store
