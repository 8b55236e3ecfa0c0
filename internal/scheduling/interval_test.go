package scheduling_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/fleet-scheduling/internal/scheduling"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"disjoint", "2025-04-13T10:00:00Z", "2025-04-13T11:00:00Z", "2025-04-13T12:00:00Z", "2025-04-13T13:00:00Z", false},
		{"contained", "2025-04-13T10:00:00Z", "2025-04-13T14:00:00Z", "2025-04-13T11:00:00Z", "2025-04-13T13:00:00Z", true},
		{"partial", "2025-04-13T10:00:00Z", "2025-04-13T12:00:00Z", "2025-04-13T11:00:00Z", "2025-04-13T13:00:00Z", true},
		{"touching end to start", "2025-04-13T10:00:00Z", "2025-04-13T12:00:00Z", "2025-04-13T12:00:00Z", "2025-04-13T13:00:00Z", true},
		{"one second apart", "2025-04-13T10:00:00Z", "2025-04-13T11:59:59Z", "2025-04-13T12:00:00Z", "2025-04-13T13:00:00Z", false},
		{"instant inside", "2025-04-13T10:00:00Z", "2025-04-13T12:00:00Z", "2025-04-13T11:00:00Z", "2025-04-13T11:00:00Z", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scheduling.Overlaps(at(tt.s1), at(tt.e1), at(tt.s2), at(tt.e2)))
			assert.Equal(t, tt.want, scheduling.Overlaps(at(tt.s2), at(tt.e2), at(tt.s1), at(tt.e1)), "symmetric")
		})
	}
}

func TestFirstOverlapSkipsSelf(t *testing.T) {
	existing := []scheduling.Window{
		{ID: "a", Start: at("2025-04-13T10:00:00Z"), End: at("2025-04-13T14:00:00Z")},
	}
	self := scheduling.Window{ID: "a", Start: at("2025-04-13T11:00:00Z"), End: at("2025-04-13T12:00:00Z")}
	_, ok := scheduling.FirstOverlap(self, existing)
	assert.False(t, ok)

	other := scheduling.Window{ID: "b", Start: self.Start, End: self.End}
	w, ok := scheduling.FirstOverlap(other, existing)
	assert.True(t, ok)
	assert.Equal(t, "a", w.ID)

	fresh := scheduling.Window{Start: self.Start, End: self.End}
	_, ok = scheduling.FirstOverlap(fresh, existing)
	assert.True(t, ok, "a candidate without id never matches by id")
}
