package transcode

import (
	"fmt"

	"github.com/hlspack/hlspack/internal/hls"
)

// Job scopes one segment's worth of work: re-encode
// [StartSec, StartSec+DurationSec) of the source at the given quality.
type Job struct {
	SourcePath  string
	StartSec    int
	DurationSec int
	Quality     hls.Quality
}

// args builds the ffmpeg argument vector writing an MPEG-TS segment to
// outputPath. The input seek (-ss before -i) happens before decoding, which
// is fast but may overshoot by up to one keyframe interval; players absorb
// that through their own buffering.
func (j Job) args(outputPath string) []string {
	profile := j.Quality.Profile()

	return []string{
		"-loglevel", "warning",
		"-ss", fmt.Sprintf("%d", j.StartSec),
		"-i", j.SourcePath,
		"-t", fmt.Sprintf("%d", j.DurationSec),
		"-c:v", "libx264",
		"-preset", "fast",
		"-vf", fmt.Sprintf("scale=%d:%d", profile.Width, profile.Height),
		"-b:v", profile.Bitrate,
		"-maxrate", profile.MaxRate,
		"-bufsize", profile.BufSize,
		"-c:a", "aac",
		"-b:a", "128k",
		"-f", "mpegts",
		"-y", outputPath,
	}
}
