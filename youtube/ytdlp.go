package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"ytscribe/internal/retry"
)

const (
	defaultYtdlpPath    = "yt-dlp"
	defaultYtdlpTimeout = 10 * time.Minute
)

// Ytdlp is the yt-dlp subprocess adapter. It implements MetadataProvider and
// PlaylistEnumerator directly; caption listing and audio download build on
// it (see captions.go and audio.go).
type Ytdlp struct {
	// Path is the path to the yt-dlp executable. Defaults to "yt-dlp".
	Path string

	// Timeout is the maximum time to wait for yt-dlp. Defaults to 10 minutes.
	Timeout time.Duration

	// RetryConfig holds retry behavior for transient failures.
	RetryConfig *retry.Config
}

// NewYtdlp creates a yt-dlp adapter with default settings.
func NewYtdlp() *Ytdlp {
	cfg := retry.DefaultConfig()
	return &Ytdlp{
		Path:        defaultYtdlpPath,
		Timeout:     defaultYtdlpTimeout,
		RetryConfig: &cfg,
	}
}

// CheckInstalled verifies that the yt-dlp binary is available.
func (y *Ytdlp) CheckInstalled(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, y.path(), "--version")
	if err := cmd.Run(); err != nil {
		return ErrYtdlpNotInstalled
	}
	return nil
}

func (y *Ytdlp) path() string {
	if y.Path != "" {
		return y.Path
	}
	return defaultYtdlpPath
}

func (y *Ytdlp) timeout() time.Duration {
	if y.Timeout > 0 {
		return y.Timeout
	}
	return defaultYtdlpTimeout
}

func (y *Ytdlp) retryConfig() retry.Config {
	if y.RetryConfig != nil {
		return *y.RetryConfig
	}
	return retry.DefaultConfig()
}

// run executes yt-dlp with the given arguments and returns its stdout,
// retrying transient failures.
func (y *Ytdlp) run(ctx context.Context, op, id string, args []string) ([]byte, error) {
	var output []byte

	err := retry.Do(ctx, y.retryConfig(), ytdlpErrorClassifier, func(ctx context.Context) error {
		cmdCtx, cancel := context.WithTimeout(ctx, y.timeout())
		defer cancel()

		cmd := exec.CommandContext(cmdCtx, y.path(), args...)

		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			if cmdCtx.Err() != nil {
				return &ProviderError{Provider: "ytdlp", Op: op, VideoID: id, Err: cmdCtx.Err()}
			}

			errMsg := stderr.String()
			switch {
			case strings.Contains(errMsg, "Video unavailable"),
				strings.Contains(errMsg, "does not exist"),
				strings.Contains(errMsg, "Private video"):
				return &ProviderError{Provider: "ytdlp", Op: op, VideoID: id, Err: ErrVideoNotFound}
			case strings.Contains(errMsg, "429"), strings.Contains(errMsg, "rate-limit"):
				return &ProviderError{Provider: "ytdlp", Op: op, VideoID: id, Err: ErrRateLimited}
			}

			return &ProviderError{Provider: "ytdlp", Op: op, VideoID: id,
				Err: fmt.Errorf("yt-dlp failed: %w: %s", err, strings.TrimSpace(errMsg))}
		}

		output = stdout.Bytes()
		return nil
	})

	if err != nil {
		return nil, err
	}
	return output, nil
}

// ytdlpVideo is the subset of yt-dlp's -J video output this tool reads.
type ytdlpVideo struct {
	ID                string                       `json:"id"`
	Title             string                       `json:"title"`
	Description       string                       `json:"description"`
	Duration          float64                      `json:"duration"`
	Uploader          string                       `json:"uploader"`
	Channel           string                       `json:"channel"`
	UploadDate        string                       `json:"upload_date"` // YYYYMMDD
	Subtitles         map[string][]ytdlpCaptionRef `json:"subtitles"`
	AutomaticCaptions map[string][]ytdlpCaptionRef `json:"automatic_captions"`
}

// ytdlpCaptionRef is one caption format entry inside a subtitle map.
type ytdlpCaptionRef struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// fetchVideoJSON runs yt-dlp -J for a single video and parses the output.
func (y *Ytdlp) fetchVideoJSON(ctx context.Context, videoID string) (*ytdlpVideo, error) {
	out, err := y.run(ctx, "metadata", videoID, []string{
		"-J",
		"--no-warnings",
		"--skip-download",
		WatchURL(videoID),
	})
	if err != nil {
		return nil, err
	}

	var video ytdlpVideo
	if err := json.Unmarshal(out, &video); err != nil {
		return nil, &ProviderError{Provider: "ytdlp", Op: "metadata", VideoID: videoID,
			Err: fmt.Errorf("parse yt-dlp output: %w", err)}
	}
	if video.ID == "" {
		return nil, &ProviderError{Provider: "ytdlp", Op: "metadata", VideoID: videoID,
			Err: errors.New("yt-dlp output missing video id")}
	}
	return &video, nil
}

// FetchMetadata retrieves descriptive metadata for a video via yt-dlp.
func (y *Ytdlp) FetchMetadata(ctx context.Context, videoID string) (*Metadata, error) {
	video, err := y.fetchVideoJSON(ctx, videoID)
	if err != nil {
		return nil, err
	}

	channel := video.Channel
	if channel == "" {
		channel = video.Uploader
	}

	return &Metadata{
		VideoID:         video.ID,
		Title:           video.Title,
		Channel:         channel,
		PublishDate:     normalizeUploadDate(video.UploadDate),
		DurationSeconds: int(video.Duration),
		Description:     video.Description,
	}, nil
}

// normalizeUploadDate converts yt-dlp's YYYYMMDD form to YYYY-MM-DD, or
// "unknown" when absent or malformed.
func normalizeUploadDate(uploadDate string) string {
	if uploadDate == "" {
		return "unknown"
	}
	t, err := time.Parse("20060102", uploadDate)
	if err != nil {
		return "unknown"
	}
	return t.Format("2006-01-02")
}

// ytdlpPlaylist is the subset of yt-dlp's --flat-playlist -J output read here.
type ytdlpPlaylist struct {
	ID      string       `json:"id"`
	Title   string       `json:"title"`
	Entries []ytdlpEntry `json:"entries"`
}

// ytdlpEntry is a single flat playlist member.
type ytdlpEntry struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
}

// ListEntries enumerates up to max playlist members via yt-dlp.
func (y *Ytdlp) ListEntries(ctx context.Context, playlistID string, max int) ([]PlaylistEntry, error) {
	args := []string{
		"--flat-playlist",
		"-J",
		"--no-warnings",
	}
	if max > 0 {
		args = append(args, "--playlist-items", fmt.Sprintf("1:%d", max))
	}
	args = append(args, "https://www.youtube.com/playlist?list="+playlistID)

	out, err := y.run(ctx, "playlist", playlistID, args)
	if err != nil {
		return nil, err
	}

	var playlist ytdlpPlaylist
	if err := json.Unmarshal(out, &playlist); err != nil {
		return nil, &ProviderError{Provider: "ytdlp", Op: "playlist", VideoID: playlistID,
			Err: fmt.Errorf("parse yt-dlp output: %w", err)}
	}

	entries := make([]PlaylistEntry, 0, len(playlist.Entries))
	for _, e := range playlist.Entries {
		if max > 0 && len(entries) >= max {
			break
		}
		entries = append(entries, PlaylistEntry{
			VideoID:         e.ID,
			Title:           e.Title,
			DurationSeconds: int(e.Duration),
		})
	}
	return entries, nil
}

// ytdlpErrorClassifier treats not-found and context errors as permanent.
func ytdlpErrorClassifier(err error) bool {
	if errors.Is(err, ErrVideoNotFound) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}
