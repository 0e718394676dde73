package transcode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hlspack/hlspack/internal/hls"
)

// Executor runs one external transcode per call and materializes the result
// atomically: the segment is written to a pending file in the target
// directory and renamed into place only after ffmpeg exits cleanly. A later
// existence check therefore never sees a half-written segment.
type Executor struct {
	logger  zerolog.Logger
	binary  string
	timeout time.Duration
}

func New(binary string, timeout time.Duration) *Executor {
	return &Executor{
		logger:  log.With().Str("module", "transcode").Logger(),
		binary:  binary,
		timeout: timeout,
	}
}

// Transcode produces the segment described by job at outputPath. The
// enclosing directory must already exist. Returns ErrSourceUnreadable,
// ErrTranscodeTimeout or ErrTranscodeFailed; on any failure nothing is left
// at outputPath.
func (e *Executor) Transcode(ctx context.Context, job Job, outputPath string) error {
	if _, err := os.Stat(job.SourcePath); err != nil {
		return fmt.Errorf("%w: %s: %v", hls.ErrSourceUnreadable, job.SourcePath, err)
	}

	pending, err := renameio.NewPendingFile(outputPath)
	if err != nil {
		return fmt.Errorf("%w: create pending segment: %v", hls.ErrTranscodeFailed, err)
	}
	defer func() {
		if err := pending.Cleanup(); err != nil {
			e.logger.Debug().Err(err).Msg("cleanup pending segment")
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	logger := e.logger.With().
		Str("source", job.SourcePath).
		Str("quality", string(job.Quality)).
		Int("start", job.StartSec).
		Logger()

	cmd := exec.CommandContext(ctx, e.binary, job.args(pending.Name())...)
	cmd.SysProcAttr = configureAsProcessGroup()
	cmd.Cancel = func() error {
		return killProcessGroup(cmd)
	}
	cmd.Stderr = logWriter{logger}

	start := time.Now()
	logger.Debug().Strs("args", cmd.Args).Msg("starting transcode")

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			logger.Warn().Dur("elapsed", time.Since(start)).Msg("transcode deadline exceeded, process killed")
			return fmt.Errorf("%w after %s", hls.ErrTranscodeTimeout, e.timeout)
		}

		logger.Error().Err(err).Msg("transcode process failed")
		return fmt.Errorf("%w: %v", hls.ErrTranscodeFailed, err)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("%w: finalize segment: %v", hls.ErrTranscodeFailed, err)
	}

	logger.Info().Dur("elapsed", time.Since(start)).Str("segment", outputPath).Msg("segment transcoded")
	return nil
}

// logWriter forwards ffmpeg stderr lines into the structured log.
type logWriter struct {
	logger zerolog.Logger
}

func (l logWriter) Write(p []byte) (n int, err error) {
	l.logger.Warn().Msg(strings.TrimSpace(string(p)))
	return len(p), nil
}
