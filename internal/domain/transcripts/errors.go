package transcripts

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidURL            = errors.New("invalid YouTube URL")
	ErrCaptionsDisabled      = errors.New("captions are disabled for this video")
	ErrTranscriptUnavailable = errors.New("transcript disabled and no speech-to-text credential configured")
	ErrAcquisitionFailed     = errors.New("transcript acquisition failed")
)

// AcquisitionError carries the underlying cause of a failed acquisition.
type AcquisitionError struct {
	VideoID string
	Cause   error
}

func (e *AcquisitionError) Error() string {
	if e.VideoID == "" {
		return fmt.Sprintf("acquire transcript: %v", e.Cause)
	}
	return fmt.Sprintf("acquire transcript for %s: %v", e.VideoID, e.Cause)
}

func (e *AcquisitionError) Unwrap() error { return e.Cause }

func (e *AcquisitionError) Is(target error) bool { return target == ErrAcquisitionFailed }

// IsAcquisitionFailure reports whether err should be surfaced to the caller as a
// transcript error.
func IsAcquisitionFailure(err error) bool {
	return errors.Is(err, ErrInvalidURL) ||
		errors.Is(err, ErrTranscriptUnavailable) ||
		errors.Is(err, ErrCaptionsDisabled) ||
		errors.Is(err, ErrAcquisitionFailed)
}
