package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ytscribe/transcribe"
	"ytscribe/youtube"
)

// outcome is the tri-state result of one acquisition source.
type outcome int

const (
	// outcomeSuccess means the source produced a usable transcript.
	outcomeSuccess outcome = iota
	// outcomeSkip means the source cannot serve this video; try the next one.
	outcomeSkip
	// outcomeTerminal means no later source should run; the record carries
	// the failure note.
	outcomeTerminal
)

// Policy acquires a transcript for one video by walking an ordered chain of
// sources: hosted captions first, then speech-to-text transcription. Captions
// failures never abort a video; they skip forward. Transcription failures are
// terminal because no source remains after it.
type Policy struct {
	// Captions lists and fetches hosted caption tracks. Nil skips straight
	// to transcription.
	Captions youtube.CaptionProvider
	// Audio downloads video audio for transcription.
	Audio youtube.AudioDownloader
	// Transcriber converts downloaded audio to text. Nil together with Audio
	// makes transcription unavailable.
	Transcriber transcribe.Transcriber
	// FallbackLanguage is assumed when the transcriber reports no language.
	// Defaults to "en".
	FallbackLanguage string
}

// Acquire produces exactly one TranscriptRecord for the video: either a
// transcript with a source tag or a terminal error note. forceTranscription
// bypasses the captions source entirely.
func (p *Policy) Acquire(ctx context.Context, videoID string, forceTranscription bool) *TranscriptRecord {
	var captionNote string

	if !forceTranscription {
		rec, oc := p.fromCaptions(ctx, videoID)
		switch oc {
		case outcomeSuccess, outcomeTerminal:
			return rec
		case outcomeSkip:
			if rec != nil {
				captionNote = rec.CaptionFailure
			}
		}
	}

	rec, _ := p.fromTranscription(ctx, videoID)
	rec.CaptionFailure = captionNote
	return rec
}

// fromCaptions attempts the hosted-captions source. Every failure mode skips
// forward; a caption problem must never prevent transcription from running.
func (p *Policy) fromCaptions(ctx context.Context, videoID string) (*TranscriptRecord, outcome) {
	if p.Captions == nil {
		return nil, outcomeSkip
	}

	tracks, err := p.Captions.ListTracks(ctx, videoID)
	if err != nil {
		if errors.Is(err, youtube.ErrCaptionsDisabled) {
			// Expected state, not a failure worth annotating.
			return nil, outcomeSkip
		}
		return &TranscriptRecord{CaptionFailure: fmt.Sprintf("caption listing failed: %v", err)}, outcomeSkip
	}
	if len(tracks) == 0 {
		return nil, outcomeSkip
	}

	track := SelectTrack(tracks)
	cues, err := p.Captions.FetchCues(ctx, videoID, track)
	if err != nil {
		return &TranscriptRecord{CaptionFailure: fmt.Sprintf("caption download failed (%s): %v", track.LanguageCode, err)}, outcomeSkip
	}
	if len(cues) == 0 {
		return nil, outcomeSkip
	}

	segments := make([]Segment, 0, len(cues))
	texts := make([]string, 0, len(cues))
	for _, c := range cues {
		segments = append(segments, Segment{Start: c.Start, Duration: c.Duration, Text: c.Text})
		texts = append(texts, c.Text)
	}

	return &TranscriptRecord{
		Source:       SourceCaptions,
		Language:     track.Language,
		LanguageCode: track.LanguageCode,
		IsGenerated:  track.IsGenerated,
		FullText:     strings.TrimSpace(strings.Join(texts, " ")),
		Segments:     segments,
	}, outcomeSuccess
}

// fromTranscription attempts the speech-to-text source. It is the last link
// in the chain, so every failure is terminal.
func (p *Policy) fromTranscription(ctx context.Context, videoID string) (*TranscriptRecord, outcome) {
	if p.Audio == nil || p.Transcriber == nil {
		return &TranscriptRecord{Error: "transcript unavailable: no captions found and transcription is not configured"}, outcomeTerminal
	}

	audioPath, cleanup, err := p.Audio.DownloadAudio(ctx, videoID)
	if err != nil {
		return &TranscriptRecord{Error: fmt.Sprintf("transcript unavailable: audio download failed: %v", err)}, outcomeTerminal
	}
	defer cleanup()

	result, err := p.Transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return &TranscriptRecord{Error: fmt.Sprintf("transcript unavailable: transcription failed: %v", err)}, outcomeTerminal
	}

	language := result.Language
	if language == "" {
		language = p.FallbackLanguage
	}
	if language == "" {
		language = "en"
	}

	segments := make([]Segment, 0, len(result.Segments))
	for _, s := range result.Segments {
		segments = append(segments, Segment{Start: s.Start, Duration: s.Duration, Text: s.Text})
	}

	return &TranscriptRecord{
		Source:      SourceTranscription,
		Language:    language,
		IsGenerated: true,
		FullText:    result.Text,
		Segments:    segments,
	}, outcomeSuccess
}

// SelectTrack picks the caption track to download: a manually created English
// track if one exists, otherwise any English track, otherwise the first track
// in provider order. One pass, deterministic for a given track order.
func SelectTrack(tracks []youtube.CaptionTrack) youtube.CaptionTrack {
	var manualEnglish, anyEnglish *youtube.CaptionTrack
	for i := range tracks {
		t := &tracks[i]
		if !isEnglishCode(t.LanguageCode) {
			continue
		}
		if anyEnglish == nil {
			anyEnglish = t
		}
		if !t.IsGenerated && manualEnglish == nil {
			manualEnglish = t
		}
	}
	if manualEnglish != nil {
		return *manualEnglish
	}
	if anyEnglish != nil {
		return *anyEnglish
	}
	return tracks[0]
}

// isEnglishCode matches "en" and regional variants like "en-US" or "en-GB".
func isEnglishCode(code string) bool {
	lc := strings.ToLower(code)
	return lc == "en" || strings.HasPrefix(lc, "en-")
}
