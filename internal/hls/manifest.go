package hls

import (
	"fmt"
	"strings"
)

// MasterManifest builds the top-level playlist advertising one variant
// stream per quality, in the order given. An empty quality list is an
// upstream selection bug, not a valid manifest.
func MasterManifest(qualities []Quality) (string, error) {
	if len(qualities) == 0 {
		return "", fmt.Errorf("master manifest: no qualities available")
	}

	playlist := []string{
		"#EXTM3U",
		"#EXT-X-VERSION:3",
	}

	for _, quality := range qualities {
		profile := quality.Profile()
		playlist = append(playlist,
			fmt.Sprintf("#EXT-X-STREAM-INF:BANDWIDTH=%d,RESOLUTION=%dx%d", profile.Bandwidth, profile.Width, profile.Height),
			fmt.Sprintf("playlist_%s.m3u8", quality),
		)
	}

	return strings.Join(playlist, "\n") + "\n", nil
}

// QualityManifest builds the VOD playlist for one rendition. Segment URIs
// are relative, so the same manifest works under any mount path. Output is
// byte-identical for identical inputs. A zero duration yields a valid
// playlist with no segments.
func QualityManifest(durationSec, segmentDurationSec int) (string, error) {
	if segmentDurationSec <= 0 {
		return "", fmt.Errorf("quality manifest: segment duration must be positive, got %d", segmentDurationSec)
	}
	if durationSec < 0 {
		return "", fmt.Errorf("quality manifest: negative duration %d", durationSec)
	}

	total := SegmentCount(durationSec, segmentDurationSec)

	playlist := []string{
		"#EXTM3U",
		"#EXT-X-VERSION:3",
		fmt.Sprintf("#EXT-X-TARGETDURATION:%d", segmentDurationSec),
		"#EXT-X-MEDIA-SEQUENCE:0",
		"#EXT-X-PLAYLIST-TYPE:VOD",
	}

	// EXTINF durations carry millisecond precision so their sum matches the
	// content duration exactly, players drift otherwise.
	for i := 0; i < total; i++ {
		playlist = append(playlist,
			fmt.Sprintf("#EXTINF:%.3f,", SegmentDuration(i, total, durationSec, segmentDurationSec)),
			SegmentName(i),
		)
	}

	playlist = append(playlist, "#EXT-X-ENDLIST")

	return strings.Join(playlist, "\n") + "\n", nil
}
