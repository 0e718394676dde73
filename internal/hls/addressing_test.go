package hls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentCount(t *testing.T) {
	tests := []struct {
		duration int
		segment  int
		want     int
	}{
		{duration: 0, segment: 6, want: 0},
		{duration: 1, segment: 6, want: 1},
		{duration: 6, segment: 6, want: 1},
		{duration: 7, segment: 6, want: 2},
		{duration: 100, segment: 6, want: 17},
		{duration: 3600, segment: 6, want: 600},
		{duration: 100, segment: 10, want: 10},
		{duration: 101, segment: 10, want: 11},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SegmentCount(tt.duration, tt.segment), "SegmentCount(%d, %d)", tt.duration, tt.segment)
	}
}

func TestSegmentCountPanicsOnInvalidInput(t *testing.T) {
	assert.Panics(t, func() { SegmentCount(-1, 6) })
	assert.Panics(t, func() { SegmentCount(10, 0) })
	assert.Panics(t, func() { SegmentCount(10, -6) })
}

func TestSegmentDuration(t *testing.T) {
	// 100s at 6s per segment: 16 full segments plus a 4s tail.
	total := SegmentCount(100, 6)
	require.Equal(t, 17, total)

	for i := 0; i < total-1; i++ {
		assert.InDelta(t, 6.0, SegmentDuration(i, total, 100, 6), 0.0001)
	}
	assert.InDelta(t, 4.0, SegmentDuration(total-1, total, 100, 6), 0.0001)

	// exact multiple: last segment is full length
	total = SegmentCount(60, 6)
	assert.InDelta(t, 6.0, SegmentDuration(total-1, total, 60, 6), 0.0001)
}

func TestSegmentName(t *testing.T) {
	assert.Equal(t, "segment_00000.ts", SegmentName(0))
	assert.Equal(t, "segment_00042.ts", SegmentName(42))
	assert.Equal(t, "segment_12345.ts", SegmentName(12345))
}

func TestSegmentPathInjective(t *testing.T) {
	seen := map[string]struct{}{}
	for _, contentID := range []string{"1", "2", "12"} {
		for _, quality := range Qualities {
			for index := 0; index < 3; index++ {
				p := SegmentPath(contentID, quality, index)
				_, dup := seen[p]
				require.False(t, dup, "duplicate path %q", p)
				seen[p] = struct{}{}
			}
		}
	}
}
