package ytscribe

import (
	"errors"

	"ytscribe/internal/retry"
	"ytscribe/transcribe"
	"ytscribe/youtube"
)

// Error handling types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, ytscribe.ErrVideoNotFound) {
//		fmt.Println("video not found")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var provErr *ytscribe.ProviderError
//	if errors.As(err, &provErr) {
//		fmt.Printf("%s %s failed: %v\n", provErr.Provider, provErr.Op, provErr.Err)
//	}

// ProviderError wraps failures of a YouTube provider operation with the
// provider name, operation, and video ID involved.
type ProviderError = youtube.ProviderError

// Sentinel errors exported from sub-packages.
var (
	// ErrVideoNotFound indicates the video does not exist or is private.
	ErrVideoNotFound = youtube.ErrVideoNotFound
	// ErrCaptionsDisabled indicates the video has no accessible captions.
	ErrCaptionsDisabled = youtube.ErrCaptionsDisabled
	// ErrRateLimited indicates the operation was rate limited.
	ErrRateLimited = youtube.ErrRateLimited
	// ErrYtdlpNotInstalled indicates the yt-dlp binary was not found.
	ErrYtdlpNotInstalled = youtube.ErrYtdlpNotInstalled
	// ErrUnrecognizedInput indicates the input is neither a video nor a
	// playlist reference.
	ErrUnrecognizedInput = youtube.ErrUnrecognizedInput
	// ErrTranscriptionNotConfigured indicates no transcription backend is
	// available.
	ErrTranscriptionNotConfigured = transcribe.ErrNotConfigured
)

// IsRetryable reports whether an error is worth retrying. Permanent errors
// like ErrVideoNotFound return false.
func IsRetryable(err error) bool {
	if errors.Is(err, youtube.ErrVideoNotFound) ||
		errors.Is(err, youtube.ErrCaptionsDisabled) ||
		errors.Is(err, youtube.ErrUnrecognizedInput) {
		return false
	}
	return retry.IsRetryable(err)
}
