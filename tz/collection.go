// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package tz

import (
	"sync"
	"time"

	"github.com/kelridge/icalcore/instant"
)

// Collection groups ZoneData by TZID and implements instant.Resolver.
// "UTC" and the empty TZID always resolve to a zero offset without a
// lookup, so a Collection with no zones registered still resolves
// UTC-spec instants.
//
// Safe for concurrent use: reads take an RLock, Add takes a Lock.
type Collection struct {
	mu    sync.RWMutex
	zones map[string]*ZoneData
}

// NewCollection returns an empty zone collection.
func NewCollection() *Collection {
	return &Collection{zones: make(map[string]*ZoneData)}
}

// Add registers z, replacing any existing zone with the same TZID.
func (c *Collection) Add(z *ZoneData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zones[z.TZID] = z
}

// Zone returns the registered zone for tzid, if any.
func (c *Collection) Zone(tzid string) (*ZoneData, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	z, ok := c.zones[tzid]
	return z, ok
}

// OffsetAtUTC implements instant.Resolver.
func (c *Collection) OffsetAtUTC(tzid string, t time.Time) (offsetSeconds int, ok bool) {
	if tzid == "" || tzid == "UTC" {
		return 0, true
	}
	z, ok := c.Zone(tzid)
	if !ok {
		return 0, false
	}
	return z.OffsetAtUTC(t)
}

// OffsetAtLocal implements instant.Resolver.
func (c *Collection) OffsetAtLocal(tzid string, wall instant.WallClock) (offset, offset2 int, ok2, valid bool) {
	if tzid == "" || tzid == "UTC" {
		return 0, 0, false, true
	}
	z, ok := c.Zone(tzid)
	if !ok {
		return 0, 0, false, false
	}
	return z.OffsetAtLocal(wall)
}

var (
	defaultOnce sync.Once
	defaultColl *Collection
)

// Default returns the process-wide zone collection, initializing it
// on first call. Initialization is idempotent and safe under
// contended first access; it starts out holding no named zones beyond
// the UTC special case every Collection handles directly — the
// library ships no zone data of its own.
func Default() *Collection {
	defaultOnce.Do(func() {
		defaultColl = NewCollection()
	})
	return defaultColl
}
