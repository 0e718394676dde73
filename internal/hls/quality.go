package hls

import (
	"strconv"
	"strings"
)

type Quality string

const (
	Quality360p  Quality = "360p"
	Quality480p  Quality = "480p"
	Quality720p  Quality = "720p"
	Quality1080p Quality = "1080p"
)

// Qualities is the full rendition ladder, ascending by bitrate.
var Qualities = []Quality{Quality360p, Quality480p, Quality720p, Quality1080p}

// Profile describes one rendition: manifest bandwidth plus the encoder
// settings used to produce it.
type Profile struct {
	Bandwidth int // advertised in the master manifest, bits per second
	Width     int
	Height    int
	Bitrate   string // target video bitrate, e.g. "2800k"
	MaxRate   string
	BufSize   string
}

var profiles = map[Quality]Profile{
	Quality360p:  {Bandwidth: 800000, Width: 640, Height: 360, Bitrate: "800k", MaxRate: "856k", BufSize: "1200k"},
	Quality480p:  {Bandwidth: 1400000, Width: 854, Height: 480, Bitrate: "1400k", MaxRate: "1498k", BufSize: "2100k"},
	Quality720p:  {Bandwidth: 2800000, Width: 1280, Height: 720, Bitrate: "2800k", MaxRate: "2996k", BufSize: "4200k"},
	Quality1080p: {Bandwidth: 5000000, Width: 1920, Height: 1080, Bitrate: "5000k", MaxRate: "5350k", BufSize: "7500k"},
}

func (q Quality) Profile() Profile {
	return profiles[q]
}

func (q Quality) Valid() bool {
	_, ok := profiles[q]
	return ok
}

// ParseQuality validates a client-supplied quality string.
func ParseQuality(s string) (Quality, error) {
	q := Quality(s)
	if !q.Valid() {
		return "", ErrInvalidQuality
	}
	return q, nil
}

// AvailableQualities returns the renditions that may be offered for a source
// with the given "WxH" resolution, never upscaling beyond the source width.
// Missing or unparsable resolution falls back to the full ladder, so that
// unanalyzed files are never silently capped.
func AvailableQualities(resolution string) []Quality {
	width, ok := parseWidth(resolution)
	if !ok {
		return Qualities
	}

	switch {
	case width >= 1920:
		return Qualities
	case width >= 1280:
		return []Quality{Quality360p, Quality480p, Quality720p}
	case width >= 854:
		return []Quality{Quality360p, Quality480p}
	default:
		return []Quality{Quality360p}
	}
}

// DefaultQuality picks the initial rendition offered to players: 720p when
// available, otherwise the highest offered.
func DefaultQuality(available []Quality) Quality {
	for _, q := range available {
		if q == Quality720p {
			return q
		}
	}
	return available[len(available)-1]
}

func parseWidth(resolution string) (int, bool) {
	parts := strings.SplitN(resolution, "x", 2)
	if len(parts) != 2 {
		return 0, false
	}

	width, err := strconv.Atoi(parts[0])
	if err != nil || width <= 0 {
		return 0, false
	}

	if _, err := strconv.Atoi(parts[1]); err != nil {
		return 0, false
	}

	return width, true
}
