package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"ytscribe/config"
	"ytscribe/extract"
	httpclient "ytscribe/http"
	"ytscribe/internal/retry"
	"ytscribe/transcribe"
	"ytscribe/youtube"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("ytscribe", flag.ExitOnError)
	whisper := fs.Bool("whisper", false, "Force speech-to-text transcription even when captions exist")
	listOnly := fs.Bool("list-only", false, "List playlist members without extracting transcripts")
	timeout := fs.Duration("timeout", 0, "Overall run timeout (0 = no limit)")
	fs.Usage = printUsage
	fs.Parse(args)

	argv := fs.Args()
	if len(argv) == 0 {
		fmt.Fprintf(os.Stderr, "Error: missing video or playlist reference\n")
		printUsage()
		return 1
	}
	input := argv[0]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxRetries = cfg.MaxRetries
	retryCfg.InitialBackoff = cfg.InitialBackoff
	retryCfg.MaxBackoff = cfg.MaxBackoff

	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.HTTPTimeout
	httpCfg.Retry = retryCfg
	client := httpclient.New(httpCfg)
	defer client.Close()

	ytdlp := youtube.NewYtdlp()
	ytdlp.Path = cfg.YtdlpPath
	ytdlp.Timeout = cfg.YtdlpTimeout
	ytdlp.RetryConfig = &retryCfg
	ytdlpAvailable := ytdlp.CheckInstalled(ctx) == nil

	// Provider selection: the Data API when a key is configured, yt-dlp
	// otherwise. Neither available is fatal before any work starts.
	var (
		metadata youtube.MetadataProvider
		captions youtube.CaptionProvider
		playlist youtube.PlaylistEnumerator
	)
	switch {
	case cfg.YouTubeAPIKey != "":
		api, err := youtube.NewDataAPI(ctx, cfg.YouTubeAPIKey, client)
		if err != nil {
			return fatal(input, fmt.Sprintf("youtube api setup failed: %v", err))
		}
		api.RetryConfig = &retryCfg
		metadata, captions, playlist = api, api, api
	case ytdlpAvailable:
		metadata = ytdlp
		captions = youtube.NewYtdlpCaptions(ytdlp, client)
		playlist = ytdlp
	default:
		return fatal(input, "no YouTube backend available: install yt-dlp or set YOUTUBE_API_KEY")
	}

	// Transcription needs yt-dlp for audio download and an OpenAI key.
	var (
		audio       youtube.AudioDownloader
		transcriber transcribe.Transcriber
	)
	if cfg.OpenAIAPIKey != "" && ytdlpAvailable {
		audio = ytdlp
		transcriber = transcribe.NewWhisper(cfg.OpenAIAPIKey, cfg.WhisperModel)
	}
	if *whisper && transcriber == nil {
		if cfg.OpenAIAPIKey == "" {
			return fatal(input, "--whisper requires OPENAI_API_KEY to be set")
		}
		return fatal(input, "--whisper requires yt-dlp for audio download: "+youtube.ErrYtdlpNotInstalled.Error())
	}

	orch := &extract.Orchestrator{
		Metadata: metadata,
		Playlist: playlist,
		Policy: &extract.Policy{
			Captions:         captions,
			Audio:            audio,
			Transcriber:      transcriber,
			FallbackLanguage: cfg.FallbackLanguage,
		},
		Progress:          os.Stderr,
		MaxPlaylistVideos: cfg.MaxPlaylistVideos,
	}

	doc := orch.Run(ctx, input, extract.Options{
		ForceTranscription: *whisper,
		ListOnly:           *listOnly,
	})

	if err := doc.WriteJSON(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		return 1
	}
	return 0
}

// fatal emits a machine-readable error document on stdout for failures that
// prevent the run from starting. Per-video failures never land here; the
// orchestrator absorbs those into the document.
func fatal(input, msg string) int {
	doc := &extract.OutputDocument{
		ExtractionID: uuid.NewString(),
		ExtractedAt:  time.Now().UTC().Format(time.RFC3339),
		Input:        input,
		Error:        msg,
	}
	if err := doc.WriteJSON(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
	}
	return 1
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `ytscribe - YouTube transcript extractor

Usage:
  ytscribe [flags] <url-or-id>

The argument may be a watch URL, a youtu.be short link, an embed URL, a bare
11-character video ID, or a playlist URL. The result is a single JSON
document on stdout; progress goes to stderr.

Flags:
  --whisper            Transcribe audio with OpenAI Whisper even when captions exist
  --list-only          List playlist members without extracting transcripts
  --timeout <dur>      Overall run timeout, e.g. 30m (default: no limit)

Examples:
  ytscribe https://www.youtube.com/watch?v=dQw4w9WgXcQ
  ytscribe dQw4w9WgXcQ
  ytscribe --list-only "https://www.youtube.com/playlist?list=PLxxxx"
  ytscribe --whisper dQw4w9WgXcQ > transcript.json

Environment:
  YOUTUBE_API_KEY      Use YouTube Data API v3 instead of yt-dlp for listing
  OPENAI_API_KEY       Enable the Whisper transcription fallback
  YTSCRIBE_YTDLP_PATH  Path to the yt-dlp executable (default: yt-dlp)
`)
}
