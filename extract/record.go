// Package extract implements the transcript acquisition policy and the
// batch orchestrator that drives it across a video or playlist.
package extract

import (
	"encoding/json"
	"io"
)

// Transcript source tags.
const (
	// SourceCaptions marks a transcript built from hosted caption tracks.
	SourceCaptions = "captions"
	// SourceTranscription marks a transcript produced by speech-to-text.
	SourceTranscription = "transcription"
)

// Segment is one timed unit of transcript text.
type Segment struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
}

// TranscriptRecord is the uniform transcript result for one video. Exactly
// one of (Source + content fields) or Error is populated.
type TranscriptRecord struct {
	// Source is "captions" or "transcription".
	Source string `json:"source,omitempty"`
	// Language is the track language name or the detected spoken language.
	Language string `json:"language,omitempty"`
	// LanguageCode is set only when the transcript came from captions.
	LanguageCode string `json:"language_code,omitempty"`
	// IsGenerated is true for auto-generated captions and all transcriptions.
	IsGenerated bool `json:"is_generated"`
	// FullText is the concatenated transcript text.
	FullText string `json:"full_text,omitempty"`
	// Segments are the timed transcript units in source order.
	Segments []Segment `json:"segments,omitempty"`
	// CaptionFailure annotates a transient caption lookup failure that was
	// absorbed before falling back to transcription.
	CaptionFailure string `json:"caption_failure,omitempty"`
	// Error is the terminal failure note when no transcript could be produced.
	Error string `json:"error,omitempty"`
}

// VideoRecord is the descriptive metadata attached to one processed video.
// It is created once and never mutated afterwards.
type VideoRecord struct {
	VideoID         string `json:"video_id"`
	Title           string `json:"title"`
	Channel         string `json:"channel"`
	PublishDate     string `json:"publish_date"`
	DurationSeconds int    `json:"duration_seconds"`
	Description     string `json:"description"`
	URL             string `json:"url"`
	// MetadataError annotates a metadata lookup failure; the record is still
	// emitted with sentinel values.
	MetadataError string `json:"metadata_error,omitempty"`
}

// VideoResult combines one video's metadata and transcript. Playlist entries
// that failed enumeration carry only Error.
type VideoResult struct {
	Error      string            `json:"error,omitempty"`
	Video      *VideoRecord      `json:"video,omitempty"`
	Transcript *TranscriptRecord `json:"transcript,omitempty"`
}

// PlaylistEntry is the lightweight member record used in list-only mode.
type PlaylistEntry struct {
	VideoID         string `json:"video_id"`
	Title           string `json:"title"`
	DurationSeconds int    `json:"duration_seconds"`
}

// PlaylistResult is the playlist payload of an OutputDocument.
type PlaylistResult struct {
	PlaylistID string `json:"playlist_id"`
	VideoCount int    `json:"video_count"`
	// Entries is populated in list-only mode instead of Videos.
	Entries []PlaylistEntry `json:"entries,omitempty"`
	// Videos holds per-member results, or a single error record when
	// enumeration itself failed.
	Videos []VideoResult `json:"videos,omitempty"`
}

// OutputDocument is the single JSON document emitted per run.
type OutputDocument struct {
	ExtractionID string          `json:"extraction_id"`
	ExtractedAt  string          `json:"extracted_at"`
	Input        string          `json:"input"`
	Type         string          `json:"type,omitempty"`
	Video        *VideoResult    `json:"video,omitempty"`
	Playlist     *PlaylistResult `json:"playlist,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// WriteJSON writes the document as indented UTF-8 JSON with non-ASCII
// characters preserved unescaped.
func (d *OutputDocument) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
