package instant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fixedResolver implements Resolver for a zone with a single DST
// transition, mirroring spec scenario S2/S3 ("Test-Dummy-Western").
type fixedResolver struct {
	transitionUTC     time.Time
	beforeOffset      int
	afterOffset       int
	gapStart, gapEnd   time.Time // local wall range with no valid offset (spring-forward)
	overlapStart, overlapEnd time.Time
}

func (f fixedResolver) OffsetAtUTC(tzid string, t time.Time) (int, bool) {
	if t.Before(f.transitionUTC) {
		return f.beforeOffset, true
	}
	return f.afterOffset, true
}

func (f fixedResolver) OffsetAtLocal(tzid string, wall WallClock) (int, int, bool, bool) {
	t := wall.toGoUTC()
	if !f.gapStart.IsZero() && !t.Before(f.gapStart) && t.Before(f.gapEnd) {
		return 0, 0, false, false
	}
	if !f.overlapStart.IsZero() && !t.Before(f.overlapStart) && t.Before(f.overlapEnd) {
		return f.beforeOffset, f.afterOffset, true, true
	}
	if t.Before(f.gapStart) {
		return f.beforeOffset, 0, false, true
	}
	return f.afterOffset, 0, false, true
}

func TestCompareUTC(t *testing.T) {
	a := New(2006, 1, 1, 12, 0, 0, SpecUTC())
	b := New(2006, 1, 2, 12, 0, 0, SpecUTC())
	cmp, ok := Compare(a, b, nil)
	assert.True(t, ok)
	assert.Equal(t, -1, cmp)
}

func TestSecondOccurrenceBreaksEquality(t *testing.T) {
	a := New(1987, 10, 25, 1, 30, 0, SpecFixed(-4*3600))
	b := a
	b.SecondOccurrence = true
	assert.False(t, Equal(a, b, nil))
}

func TestAddDaysIsDSTNaive(t *testing.T) {
	i := New(2006, 1, 1, 12, 0, 0, SpecUTC())
	out := i.AddDays(2, nil)
	assert.Equal(t, New(2006, 1, 3, 12, 0, 0, SpecUTC()), out)
}

func TestToUTCFixedOffset(t *testing.T) {
	i := New(2006, 1, 1, 12, 0, 0, SpecFixed(-5*3600))
	utc, ok := i.ToUTC(nil)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2006, 1, 1, 17, 0, 0, 0, time.UTC), utc)
}

func TestOffsetAtLocalAroundSpringForwardGap(t *testing.T) {
	r := fixedResolver{
		beforeOffset: -5 * 3600, afterOffset: -4 * 3600,
		gapStart: time.Date(1987, 4, 5, 2, 0, 0, 0, time.UTC),
		gapEnd:   time.Date(1987, 4, 5, 3, 0, 0, 0, time.UTC),
	}
	_, _, _, valid := r.OffsetAtLocal("Test-Dummy-Western", WallClock{1987, 4, 5, 2, 30, 0})
	assert.False(t, valid)

	off, _, _, valid := r.OffsetAtLocal("Test-Dummy-Western", WallClock{1987, 4, 5, 1, 59, 59})
	assert.True(t, valid)
	assert.Equal(t, -5*3600, off)

	off, _, _, valid = r.OffsetAtLocal("Test-Dummy-Western", WallClock{1987, 4, 5, 3, 0, 0})
	assert.True(t, valid)
	assert.Equal(t, -4*3600, off)
}
