package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ytscribe/transcribe"
	"ytscribe/youtube"
)

type fakeCaptions struct {
	tracks     []youtube.CaptionTrack
	listErr    error
	cues       []youtube.CaptionCue
	fetchErr   error
	listCalls  int
	fetchCalls int
	fetched    youtube.CaptionTrack
}

func (f *fakeCaptions) ListTracks(ctx context.Context, videoID string) ([]youtube.CaptionTrack, error) {
	f.listCalls++
	return f.tracks, f.listErr
}

func (f *fakeCaptions) FetchCues(ctx context.Context, videoID string, track youtube.CaptionTrack) ([]youtube.CaptionCue, error) {
	f.fetchCalls++
	f.fetched = track
	return f.cues, f.fetchErr
}

type fakeAudio struct {
	path    string
	err     error
	calls   int
	cleaned bool
}

func (f *fakeAudio) DownloadAudio(ctx context.Context, videoID string) (string, func(), error) {
	f.calls++
	if f.err != nil {
		return "", nil, f.err
	}
	return f.path, func() { f.cleaned = true }, nil
}

type fakeTranscriber struct {
	result *transcribe.Result
	err    error
	calls  int
	path   string
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audioPath string) (*transcribe.Result, error) {
	f.calls++
	f.path = audioPath
	return f.result, f.err
}

func workingTranscription() (*fakeAudio, *fakeTranscriber) {
	audio := &fakeAudio{path: "/tmp/audio.mp3"}
	tr := &fakeTranscriber{result: &transcribe.Result{
		Language: "english",
		Text:     "hello from whisper",
		Segments: []transcribe.Segment{{Start: 0, Duration: 2.5, Text: "hello from whisper"}},
	}}
	return audio, tr
}

func TestSelectTrack(t *testing.T) {
	manualUS := youtube.CaptionTrack{Language: "English (US)", LanguageCode: "en-US"}
	manualFR := youtube.CaptionTrack{Language: "French", LanguageCode: "fr"}
	manualDE := youtube.CaptionTrack{Language: "German", LanguageCode: "de"}
	generatedEN := youtube.CaptionTrack{Language: "English", LanguageCode: "en", IsGenerated: true}

	tests := []struct {
		name   string
		tracks []youtube.CaptionTrack
		want   string
	}{
		{"manual english beats generated english", []youtube.CaptionTrack{generatedEN, manualUS}, "en-US"},
		{"generated english beats manual non-english", []youtube.CaptionTrack{manualFR, generatedEN}, "en"},
		{"no english falls back to first", []youtube.CaptionTrack{manualFR, manualDE}, "fr"},
		{"regional english counts as english", []youtube.CaptionTrack{manualDE, {LanguageCode: "en-GB"}}, "en-GB"},
		{"first manual english wins among several", []youtube.CaptionTrack{{LanguageCode: "en-CA"}, manualUS}, "en-CA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectTrack(tt.tracks)
			assert.Equal(t, tt.want, got.LanguageCode)
		})
	}
}

func TestAcquire_CaptionsSuccess(t *testing.T) {
	captions := &fakeCaptions{
		tracks: []youtube.CaptionTrack{{Language: "English", LanguageCode: "en-US"}},
		cues: []youtube.CaptionCue{
			{Start: 0, Duration: 1.5, Text: "never gonna"},
			{Start: 1.5, Duration: 2, Text: "give you up"},
		},
	}
	audio, tr := workingTranscription()
	p := &Policy{Captions: captions, Audio: audio, Transcriber: tr}

	rec := p.Acquire(context.Background(), "dQw4w9WgXcQ", false)

	assert.Equal(t, SourceCaptions, rec.Source)
	assert.Equal(t, "en-US", rec.LanguageCode)
	assert.False(t, rec.IsGenerated)
	assert.Equal(t, "never gonna give you up", rec.FullText)
	require.Len(t, rec.Segments, 2)
	assert.Empty(t, rec.Error)
	assert.Zero(t, tr.calls, "transcriber must not run when captions succeed")
}

func TestAcquire_NoTracksFallsBackToTranscription(t *testing.T) {
	captions := &fakeCaptions{}
	audio, tr := workingTranscription()
	p := &Policy{Captions: captions, Audio: audio, Transcriber: tr}

	rec := p.Acquire(context.Background(), "dQw4w9WgXcQ", false)

	assert.Equal(t, 1, captions.listCalls)
	assert.Equal(t, 1, tr.calls)
	assert.Equal(t, SourceTranscription, rec.Source)
	assert.True(t, rec.IsGenerated, "transcription output is always generated")
	assert.Equal(t, "english", rec.Language)
	assert.Equal(t, "hello from whisper", rec.FullText)
	assert.Empty(t, rec.LanguageCode, "language codes belong to caption tracks only")
	assert.True(t, audio.cleaned, "temp audio must be removed after transcription")
}

func TestAcquire_CaptionsDisabledSkipsWithoutAnnotation(t *testing.T) {
	captions := &fakeCaptions{listErr: youtube.ErrCaptionsDisabled}
	audio, tr := workingTranscription()
	p := &Policy{Captions: captions, Audio: audio, Transcriber: tr}

	rec := p.Acquire(context.Background(), "dQw4w9WgXcQ", false)

	assert.Equal(t, SourceTranscription, rec.Source)
	assert.Empty(t, rec.CaptionFailure)
}

func TestAcquire_CaptionListFailureIsAnnotatedNotFatal(t *testing.T) {
	captions := &fakeCaptions{listErr: errors.New("connection reset")}
	audio, tr := workingTranscription()
	p := &Policy{Captions: captions, Audio: audio, Transcriber: tr}

	rec := p.Acquire(context.Background(), "dQw4w9WgXcQ", false)

	assert.Equal(t, SourceTranscription, rec.Source)
	assert.Contains(t, rec.CaptionFailure, "caption listing failed")
	assert.Empty(t, rec.Error)
}

func TestAcquire_CueFetchFailureFallsBack(t *testing.T) {
	captions := &fakeCaptions{
		tracks:   []youtube.CaptionTrack{{LanguageCode: "en"}},
		fetchErr: errors.New("503"),
	}
	audio, tr := workingTranscription()
	p := &Policy{Captions: captions, Audio: audio, Transcriber: tr}

	rec := p.Acquire(context.Background(), "dQw4w9WgXcQ", false)

	assert.Equal(t, 1, captions.fetchCalls)
	assert.Equal(t, SourceTranscription, rec.Source)
	assert.Contains(t, rec.CaptionFailure, "caption download failed")
}

func TestAcquire_ForceTranscriptionSkipsCaptions(t *testing.T) {
	captions := &fakeCaptions{
		tracks: []youtube.CaptionTrack{{LanguageCode: "en"}},
		cues:   []youtube.CaptionCue{{Text: "should not be used"}},
	}
	audio, tr := workingTranscription()
	p := &Policy{Captions: captions, Audio: audio, Transcriber: tr}

	rec := p.Acquire(context.Background(), "dQw4w9WgXcQ", true)

	assert.Zero(t, captions.listCalls, "forced transcription must never touch captions")
	assert.Equal(t, SourceTranscription, rec.Source)
}

func TestAcquire_TranscriptionNotConfigured(t *testing.T) {
	p := &Policy{Captions: &fakeCaptions{}}

	rec := p.Acquire(context.Background(), "dQw4w9WgXcQ", false)

	assert.Empty(t, rec.Source)
	assert.Contains(t, rec.Error, "transcription is not configured")
}

func TestAcquire_AudioDownloadFailureIsTerminal(t *testing.T) {
	audio := &fakeAudio{err: errors.New("yt-dlp exited 1")}
	tr := &fakeTranscriber{}
	p := &Policy{Captions: &fakeCaptions{}, Audio: audio, Transcriber: tr}

	rec := p.Acquire(context.Background(), "dQw4w9WgXcQ", false)

	assert.Contains(t, rec.Error, "audio download failed")
	assert.Zero(t, tr.calls)
}

func TestAcquire_TranscribeFailureStillCleansUp(t *testing.T) {
	audio := &fakeAudio{path: "/tmp/audio.mp3"}
	tr := &fakeTranscriber{err: errors.New("api: 500")}
	p := &Policy{Captions: &fakeCaptions{}, Audio: audio, Transcriber: tr}

	rec := p.Acquire(context.Background(), "dQw4w9WgXcQ", false)

	assert.Contains(t, rec.Error, "transcription failed")
	assert.True(t, audio.cleaned, "temp audio must be removed on failure too")
}

func TestAcquire_EmptyDetectedLanguageUsesFallback(t *testing.T) {
	audio := &fakeAudio{path: "/tmp/audio.mp3"}
	tr := &fakeTranscriber{result: &transcribe.Result{Text: "hola"}}

	p := &Policy{Audio: audio, Transcriber: tr, FallbackLanguage: "es"}
	rec := p.Acquire(context.Background(), "dQw4w9WgXcQ", true)
	assert.Equal(t, "es", rec.Language)

	p.FallbackLanguage = ""
	tr.result = &transcribe.Result{Text: "hola"}
	rec = p.Acquire(context.Background(), "dQw4w9WgXcQ", true)
	assert.Equal(t, "en", rec.Language)
}
