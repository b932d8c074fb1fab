// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package store_test

import (
	"testing"

	"github.com/kelridge/icalcore/store"
	"github.com/stretchr/testify/assert"
)

func TestNewUIDReturnsDistinctValues(t *testing.T) {
	a := store.NewUID()
	b := store.NewUID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
