package extract

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"ytscribe/youtube"
)

// DefaultMaxPlaylistVideos caps how many playlist members one run processes.
const DefaultMaxPlaylistVideos = 50

// Options control a single orchestrator run.
type Options struct {
	// ForceTranscription bypasses caption tracks and transcribes audio even
	// when captions exist.
	ForceTranscription bool
	// ListOnly enumerates playlist members without processing them. It has
	// no effect on single-video inputs.
	ListOnly bool
}

// Orchestrator resolves an input reference and drives the acquisition policy
// across the resulting video or playlist, always producing one document.
type Orchestrator struct {
	// Metadata looks up per-video metadata.
	Metadata youtube.MetadataProvider
	// Playlist enumerates playlist members.
	Playlist youtube.PlaylistEnumerator
	// Policy acquires transcripts.
	Policy *Policy
	// Progress receives human-readable progress lines. Nil discards them.
	Progress io.Writer
	// MaxPlaylistVideos caps playlist processing; 0 means the default.
	MaxPlaylistVideos int
}

// Run processes one input reference end to end. Per-video failures are
// absorbed into the document; Run itself never fails.
func (o *Orchestrator) Run(ctx context.Context, input string, opts Options) *OutputDocument {
	doc := &OutputDocument{
		ExtractionID: uuid.NewString(),
		ExtractedAt:  time.Now().UTC().Format(time.RFC3339),
		Input:        input,
	}

	cls, err := youtube.Classify(input)
	if err != nil {
		doc.Error = fmt.Sprintf("could not recognize input as a YouTube video or playlist: %s", input)
		return doc
	}
	doc.Type = string(cls.Type)

	switch cls.Type {
	case youtube.TypeVideo:
		doc.Video = o.processVideo(ctx, cls.VideoID, opts.ForceTranscription)
	case youtube.TypePlaylist:
		doc.Playlist = o.processPlaylist(ctx, cls.PlaylistID, opts)
	}
	return doc
}

// processVideo builds the metadata record and acquires the transcript for one
// video. A metadata failure is annotated, never fatal: the transcript chain
// still runs.
func (o *Orchestrator) processVideo(ctx context.Context, videoID string, forceTranscription bool) *VideoResult {
	record := &VideoRecord{
		VideoID:     videoID,
		PublishDate: "unknown",
		URL:         youtube.WatchURL(videoID),
	}

	if o.Metadata != nil {
		meta, err := o.Metadata.FetchMetadata(ctx, videoID)
		if err != nil {
			record.MetadataError = fmt.Sprintf("metadata lookup failed: %v", err)
		} else {
			record.Title = meta.Title
			record.Channel = meta.Channel
			record.PublishDate = meta.PublishDate
			record.DurationSeconds = meta.DurationSeconds
			record.Description = meta.Description
		}
	}

	return &VideoResult{
		Video:      record,
		Transcript: o.Policy.Acquire(ctx, videoID, forceTranscription),
	}
}

// processPlaylist enumerates members and processes them sequentially in
// playlist order. Member failures never stop the batch.
func (o *Orchestrator) processPlaylist(ctx context.Context, playlistID string, opts Options) *PlaylistResult {
	result := &PlaylistResult{PlaylistID: playlistID}

	max := o.MaxPlaylistVideos
	if max <= 0 {
		max = DefaultMaxPlaylistVideos
	}

	entries, err := o.Playlist.ListEntries(ctx, playlistID, max)
	if err != nil {
		result.Videos = []VideoResult{{
			Error: fmt.Sprintf("playlist enumeration failed: %v", err),
		}}
		return result
	}
	if len(entries) > max {
		entries = entries[:max]
	}
	result.VideoCount = len(entries)

	if opts.ListOnly {
		result.Entries = make([]PlaylistEntry, 0, len(entries))
		for _, e := range entries {
			result.Entries = append(result.Entries, PlaylistEntry{
				VideoID:         e.VideoID,
				Title:           e.Title,
				DurationSeconds: e.DurationSeconds,
			})
		}
		return result
	}

	result.Videos = make([]VideoResult, 0, len(entries))
	for i, e := range entries {
		o.progressf("processing %d/%d: %s\n", i+1, len(entries), entryLabel(e))
		if e.VideoID == "" {
			result.Videos = append(result.Videos, VideoResult{
				Error: fmt.Sprintf("playlist entry %d has no video ID", i+1),
			})
			continue
		}
		result.Videos = append(result.Videos, *o.processVideo(ctx, e.VideoID, opts.ForceTranscription))
	}
	return result
}

func (o *Orchestrator) progressf(format string, args ...any) {
	if o.Progress == nil {
		return
	}
	fmt.Fprintf(o.Progress, format, args...)
}

func entryLabel(e youtube.PlaylistEntry) string {
	if e.Title != "" {
		return e.Title
	}
	return e.VideoID
}
