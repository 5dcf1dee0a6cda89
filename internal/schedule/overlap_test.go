package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func interval(hour, min, durMinutes int) (time.Time, time.Time) {
	start := time.Date(2024, 1, 8, hour, min, 0, 0, time.UTC)
	return start, start.Add(time.Duration(durMinutes) * time.Minute)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    [2]int // hour, minute
		aDur int
		b    [2]int
		bDur int
		want bool
	}{
		{"identical intervals", [2]int{10, 0}, 30, [2]int{10, 0}, 30, true},
		{"contained interval", [2]int{10, 0}, 60, [2]int{10, 15}, 15, true},
		{"partial overlap", [2]int{10, 0}, 30, [2]int{10, 15}, 30, true},
		{"touching boundary", [2]int{10, 0}, 30, [2]int{10, 30}, 30, false},
		{"disjoint", [2]int{10, 0}, 30, [2]int{12, 0}, 30, false},
		{"one minute overlap", [2]int{10, 0}, 31, [2]int{10, 30}, 30, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aStart, aEnd := interval(tt.a[0], tt.a[1], tt.aDur)
			bStart, bEnd := interval(tt.b[0], tt.b[1], tt.bDur)

			assert.Equal(t, tt.want, Overlaps(aStart, aEnd, bStart, bEnd))
			// The predicate is symmetric
			assert.Equal(t, tt.want, Overlaps(bStart, bEnd, aStart, aEnd))
		})
	}
}

func TestOverlapsSelf(t *testing.T) {
	start, end := interval(9, 0, 45)
	assert.True(t, Overlaps(start, end, start, end))
}

func TestOverlapsAdjacentChain(t *testing.T) {
	// Back-to-back half-hour slots never conflict with each other.
	base := time.Date(2024, 1, 8, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		aStart := base.Add(time.Duration(i) * 30 * time.Minute)
		aEnd := aStart.Add(30 * time.Minute)
		bStart := aEnd
		bEnd := bStart.Add(30 * time.Minute)
		assert.False(t, Overlaps(aStart, aEnd, bStart, bEnd))
	}
}
