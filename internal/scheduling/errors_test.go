package scheduling_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/fleet-scheduling/internal/scheduling"
)

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("create flight: %w", scheduling.Reject(scheduling.KindRangeExceeded, "too far"))
	kind, ok := scheduling.KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, scheduling.KindRangeExceeded, kind)
	assert.True(t, scheduling.IsKind(err, scheduling.KindRangeExceeded))
	assert.False(t, scheduling.IsKind(err, scheduling.KindOverlapConflict))

	_, ok = scheduling.KindOf(errors.New("boom"))
	assert.False(t, ok)
}

func TestKindsAreUnique(t *testing.T) {
	seen := map[scheduling.Kind]bool{}
	for _, k := range scheduling.Kinds {
		assert.False(t, seen[k], "duplicate kind %s", k)
		seen[k] = true
	}
}
