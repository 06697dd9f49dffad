// Package ytscribe turns YouTube videos and playlists into transcript
// documents.
//
// Given a video URL, a bare video ID, or a playlist URL, ytscribe resolves
// the reference, fetches metadata, and acquires a transcript for each video:
// hosted caption tracks when they exist, speech-to-text transcription of the
// audio otherwise. The result is always a single JSON document.
//
// # Quick Start
//
// Process one video with yt-dlp-backed providers:
//
//	ytdlp := youtube.NewYtdlp()
//	client := httpclient.New(nil)
//
//	orch := &extract.Orchestrator{
//		Metadata: ytdlp,
//		Playlist: ytdlp,
//		Policy: &extract.Policy{
//			Captions: youtube.NewYtdlpCaptions(ytdlp, client),
//		},
//	}
//
//	doc := orch.Run(ctx, "https://youtu.be/dQw4w9WgXcQ", extract.Options{})
//	doc.WriteJSON(os.Stdout)
//
// Add the transcription fallback for videos without captions:
//
//	orch.Policy.Audio = ytdlp
//	orch.Policy.Transcriber = transcribe.NewWhisper(apiKey, "whisper-1")
//
// # Failure Model
//
// A batch never aborts because one video failed. Metadata failures are
// annotated on the video record, caption failures fall through to
// transcription, and transcription failures produce a transcript record
// carrying an error note. Orchestrator.Run itself never returns an error.
//
// # Configuration
//
// The config package loads settings from, in priority order:
//
//  1. Environment variables
//  2. A .env file in the working directory
//  3. ytscribe.json in the working directory or ~/.config/ytscribe/
//  4. Built-in defaults
//
// Environment variables:
//
//   - YOUTUBE_API_KEY: use YouTube Data API v3 for metadata, captions, and
//     playlist enumeration instead of yt-dlp
//   - OPENAI_API_KEY: enable the Whisper transcription fallback
//   - YTSCRIBE_YTDLP_PATH: path to the yt-dlp executable
//   - YTSCRIBE_YTDLP_TIMEOUT: timeout for yt-dlp operations
//   - YTSCRIBE_WHISPER_MODEL: OpenAI transcription model
//   - YTSCRIBE_FALLBACK_LANGUAGE: language assumed when detection fails
//   - YTSCRIBE_MAX_PLAYLIST_VIDEOS: playlist processing cap
//   - YTSCRIBE_HTTP_TIMEOUT: timeout for caption cue downloads
//   - YTSCRIBE_MAX_RETRIES: maximum retry attempts per provider call
//   - YTSCRIBE_INITIAL_BACKOFF: initial retry backoff duration
//   - YTSCRIBE_MAX_BACKOFF: maximum retry backoff duration
//
// # Error Handling
//
// Provider operations return sentinel errors checkable with errors.Is:
//
//	if errors.Is(err, ytscribe.ErrVideoNotFound) {
//		fmt.Println("video does not exist")
//	}
//
// and wrap provider context extractable with errors.As:
//
//	var provErr *ytscribe.ProviderError
//	if errors.As(err, &provErr) {
//		fmt.Printf("%s %s failed: %v\n", provErr.Provider, provErr.Op, provErr.Err)
//	}
//
// # Sub-packages
//
//   - extract: acquisition policy, batch orchestration, output document
//   - youtube: input resolution and provider adapters (yt-dlp, Data API,
//     timedtext)
//   - transcribe: OpenAI Whisper speech-to-text
//   - config: configuration loading
//   - http: rate-limited HTTP client for YouTube endpoints
//
// # Dependencies
//
// The yt-dlp-backed providers and audio download require yt-dlp to be
// installed and available in PATH or configured via YTSCRIBE_YTDLP_PATH.
//
// Install yt-dlp: https://github.com/yt-dlp/yt-dlp
package ytscribe
