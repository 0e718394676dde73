package transcode

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hlspack/hlspack/internal/hls"
)

// writeStub creates a fake transcoder binary driven by a shell script. The
// output path is always the last argument, matching the real arg vector.
func writeStub(t *testing.T, script string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("stub transcoder requires a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "ffmpeg-stub")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0755))
	return path
}

func writeSource(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "source.mp4")
	require.NoError(t, os.WriteFile(path, []byte("not really a video"), 0644))
	return path
}

func TestTranscodeSuccess(t *testing.T) {
	stub := writeStub(t, `for arg; do out=$arg; done
printf 'tsdata' > "$out"`)

	outDir := t.TempDir()
	outputPath := filepath.Join(outDir, "segment_00000.ts")

	e := New(stub, 5*time.Second)
	job := Job{SourcePath: writeSource(t), StartSec: 0, DurationSec: 6, Quality: hls.Quality360p}

	require.NoError(t, e.Transcode(context.Background(), job, outputPath))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, []byte("tsdata"), data)
}

func TestTranscodeFailureLeavesNoFile(t *testing.T) {
	stub := writeStub(t, "exit 1")

	outDir := t.TempDir()
	outputPath := filepath.Join(outDir, "segment_00000.ts")

	e := New(stub, 5*time.Second)
	job := Job{SourcePath: writeSource(t), StartSec: 0, DurationSec: 6, Quality: hls.Quality360p}

	err := e.Transcode(context.Background(), job, outputPath)
	assert.ErrorIs(t, err, hls.ErrTranscodeFailed)

	// neither the final segment nor any temp leftovers may remain
	entries, readErr := os.ReadDir(outDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestTranscodeTimeoutKillsProcess(t *testing.T) {
	stub := writeStub(t, "sleep 10")

	outDir := t.TempDir()
	outputPath := filepath.Join(outDir, "segment_00000.ts")

	e := New(stub, 200*time.Millisecond)
	job := Job{SourcePath: writeSource(t), StartSec: 0, DurationSec: 6, Quality: hls.Quality360p}

	start := time.Now()
	err := e.Transcode(context.Background(), job, outputPath)
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, hls.ErrTranscodeTimeout)
	assert.Less(t, elapsed, 5*time.Second, "hung process must be killed, not awaited")

	entries, readErr := os.ReadDir(outDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}

func TestTranscodeMissingSource(t *testing.T) {
	stub := writeStub(t, "exit 0")

	e := New(stub, time.Second)
	job := Job{SourcePath: "/nonexistent/file.mp4", DurationSec: 6, Quality: hls.Quality360p}

	err := e.Transcode(context.Background(), job, filepath.Join(t.TempDir(), "out.ts"))
	assert.ErrorIs(t, err, hls.ErrSourceUnreadable)
}
