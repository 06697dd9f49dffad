// Package youtube provides identifier resolution and provider adapters for
// YouTube metadata, caption tracks, playlist enumeration, and audio download.
package youtube

import (
	"context"
	"errors"
)

// Sentinel errors for provider operations.
var (
	ErrVideoNotFound     = errors.New("youtube: video not found")
	ErrCaptionsDisabled  = errors.New("youtube: captions disabled or unavailable")
	ErrRateLimited       = errors.New("youtube: rate limited")
	ErrYtdlpNotInstalled = errors.New("youtube: yt-dlp not installed")
	ErrUnrecognizedInput = errors.New("youtube: input is neither a video nor a playlist reference")
)

// Metadata contains descriptive metadata for one video.
type Metadata struct {
	// VideoID is the 11-character YouTube video ID.
	VideoID string
	// Title is the video title.
	Title string
	// Channel is the channel display name.
	Channel string
	// PublishDate is the publish date in YYYY-MM-DD form, or "unknown".
	PublishDate string
	// DurationSeconds is the video length in seconds, 0 if unknown.
	DurationSeconds int
	// Description is the full video description, possibly empty.
	Description string
}

// CaptionTrack describes one available caption track for a video.
type CaptionTrack struct {
	// Language is the human-readable language name (e.g. "English").
	Language string
	// LanguageCode is the BCP-47 code reported by the provider (e.g. "en-US").
	LanguageCode string
	// IsGenerated is true for auto-generated (ASR) tracks.
	IsGenerated bool
	// DownloadURL is the json3 cue URL when the provider knows it directly.
	DownloadURL string
}

// CaptionCue is one timed unit of caption text.
type CaptionCue struct {
	// Start is the cue offset in seconds.
	Start float64
	// Duration is the cue length in seconds.
	Duration float64
	// Text is the cue text.
	Text string
}

// PlaylistEntry is a lightweight reference to a playlist member, used for
// enumeration and progress reporting only.
type PlaylistEntry struct {
	// VideoID is the member video ID.
	VideoID string
	// Title is the member title as reported by the enumerator.
	Title string
	// DurationSeconds is the member length in seconds, 0 if unknown.
	DurationSeconds int
}

// MetadataProvider looks up descriptive metadata for one video.
type MetadataProvider interface {
	FetchMetadata(ctx context.Context, videoID string) (*Metadata, error)
}

// CaptionProvider lists and fetches hosted caption tracks for one video.
// ListTracks reports "none available" as ErrCaptionsDisabled or an empty
// slice; both mean the caller should fall back, not fail.
type CaptionProvider interface {
	ListTracks(ctx context.Context, videoID string) ([]CaptionTrack, error)
	FetchCues(ctx context.Context, videoID string, track CaptionTrack) ([]CaptionCue, error)
}

// PlaylistEnumerator returns up to max member entries of a playlist, in
// playlist order.
type PlaylistEnumerator interface {
	ListEntries(ctx context.Context, playlistID string, max int) ([]PlaylistEntry, error)
}

// AudioDownloader downloads a video's audio to a temporary file. The
// returned cleanup func removes the file and must be called on every path.
type AudioDownloader interface {
	DownloadAudio(ctx context.Context, videoID string) (path string, cleanup func(), err error)
}

// ProviderError wraps provider failures with context about what failed.
//
//	var provErr *youtube.ProviderError
//	if errors.As(err, &provErr) {
//		fmt.Printf("%s %s failed: %v\n", provErr.Provider, provErr.Op, provErr.Err)
//	}
type ProviderError struct {
	// Provider names the failing adapter ("ytdlp", "dataapi", "timedtext").
	Provider string
	// Op is the operation that failed ("metadata", "captions", "playlist", "audio").
	Op string
	// VideoID is the video or playlist ID involved, when known.
	VideoID string
	// Err is the underlying error.
	Err error
}

// Error returns a string representation of the provider error.
func (e *ProviderError) Error() string {
	return "youtube: " + e.Provider + " " + e.Op + " " + e.VideoID + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is and errors.As.
func (e *ProviderError) Unwrap() error { return e.Err }

// WatchURL returns the canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
