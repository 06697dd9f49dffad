// Package transcribe performs speech-to-text on downloaded audio using the
// OpenAI transcription API.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ErrNotConfigured indicates no transcription backend is available.
var ErrNotConfigured = errors.New("transcribe: no transcription backend configured")

// Segment is one timed unit of transcribed text.
type Segment struct {
	// Start is the segment offset in seconds.
	Start float64
	// Duration is the segment length in seconds.
	Duration float64
	// Text is the segment text.
	Text string
}

// Result is a completed transcription.
type Result struct {
	// Language is the detected language, empty if the backend reported none.
	Language string
	// Text is the full transcribed text.
	Text string
	// Segments are the timed segments in transcript order.
	Segments []Segment
}

// Transcriber converts an audio file to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}

// Whisper implements Transcriber using the OpenAI audio transcription API.
type Whisper struct {
	client openai.Client
	model  string
}

// NewWhisper creates a Whisper transcriber. model defaults to whisper-1.
func NewWhisper(apiKey, model string) *Whisper {
	if model == "" {
		model = "whisper-1"
	}
	return &Whisper{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// verboseTranscription is the verbose_json response shape, which carries the
// detected language and timed segments the default json format omits.
type verboseTranscription struct {
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
	Text     string           `json:"text"`
	Segments []verboseSegment `json:"segments"`
}

type verboseSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcribe uploads the audio file and returns the detected language, full
// text, and timed segments.
func (w *Whisper) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	var verbose verboseTranscription
	_, err = w.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model:          openai.AudioModel(w.model),
		File:           f,
		ResponseFormat: openai.AudioResponseFormatVerboseJSON,
	}, option.WithResponseBodyInto(&verbose))
	if err != nil {
		return nil, fmt.Errorf("transcription request: %w", err)
	}

	return resultFromVerbose(&verbose), nil
}

// resultFromVerbose maps the verbose_json payload to a Result, preserving
// segment order and normalizing segment text.
func resultFromVerbose(v *verboseTranscription) *Result {
	segments := make([]Segment, 0, len(v.Segments))
	for _, s := range v.Segments {
		duration := s.End - s.Start
		if duration < 0 {
			duration = 0
		}
		segments = append(segments, Segment{
			Start:    s.Start,
			Duration: duration,
			Text:     strings.TrimSpace(s.Text),
		})
	}

	return &Result{
		Language: v.Language,
		Text:     strings.TrimSpace(v.Text),
		Segments: segments,
	}
}
