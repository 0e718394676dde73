package hls

import "errors"

// Failure kinds surfaced by the streaming subsystem. Each public operation
// documents which of these it can return; everything else is a programmer
// error and panics.
var (
	ErrContentNotFound   = errors.New("content not found")
	ErrInvalidQuality    = errors.New("invalid quality")
	ErrSegmentOutOfRange = errors.New("segment index out of range")
	ErrSegmentNotFound   = errors.New("segment not found")
	ErrSourceUnreadable  = errors.New("source file unreadable")
	ErrTranscodeFailed   = errors.New("transcode failed")
	ErrTranscodeTimeout  = errors.New("transcode timed out")
)
