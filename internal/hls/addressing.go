package hls

import (
	"fmt"
	"path/filepath"
)

// SegmentCount returns how many segments cover durationSec, the last one
// possibly shorter. Zero duration means zero segments.
func SegmentCount(durationSec, segmentDurationSec int) int {
	if durationSec < 0 || segmentDurationSec <= 0 {
		panic(fmt.Sprintf("invalid segment count inputs: duration=%d segment=%d", durationSec, segmentDurationSec))
	}

	return (durationSec + segmentDurationSec - 1) / segmentDurationSec
}

// SegmentDuration returns the playback length of one segment in seconds.
// All segments are full length except the last, which gets the remainder.
func SegmentDuration(index, total, durationSec, segmentDurationSec int) float64 {
	if index < 0 || index >= total {
		panic(fmt.Sprintf("segment index %d outside [0,%d)", index, total))
	}

	if index == total-1 {
		return float64(durationSec - index*segmentDurationSec)
	}
	return float64(segmentDurationSec)
}

// SegmentName returns the fixed-width file name for a segment index,
// zero-padded so directory listings sort numerically.
func SegmentName(index int) string {
	return fmt.Sprintf("segment_%05d.ts", index)
}

// SegmentPath maps a segment key to its path relative to the cache root.
// The mapping is injective: one subtree per content id, one directory per
// quality, one file per index.
func SegmentPath(contentID string, quality Quality, index int) string {
	return filepath.Join(contentID, string(quality), SegmentName(index))
}
