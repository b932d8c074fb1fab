// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package itip_test

import (
	"testing"

	"github.com/kelridge/icalcore/itip"
	"github.com/kelridge/icalcore/model"
	"github.com/stretchr/testify/assert"
)

func TestAssignSchedulingIDMintsWhenAbsent(t *testing.T) {
	base := model.NewIncidenceBase("local-uid")
	itip.AssignSchedulingID(&base)
	assert.NotEmpty(t, base.SchedulingID)
	assert.NotEqual(t, base.UID, base.SchedulingID)
}

func TestAssignSchedulingIDLeavesExistingDistinctID(t *testing.T) {
	base := model.NewIncidenceBase("local-uid")
	base.SchedulingID = "already-set"
	itip.AssignSchedulingID(&base)
	assert.Equal(t, "already-set", base.SchedulingID)
}
