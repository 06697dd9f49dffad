package youtube

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// DownloadAudio downloads a video's audio as MP3 into a fresh temporary
// directory and returns the file path plus a cleanup func that removes the
// directory. The directory is removed immediately on failure; callers must
// invoke cleanup on every success path so no audio artifact outlives the
// transcription attempt.
func (y *Ytdlp) DownloadAudio(ctx context.Context, videoID string) (string, func(), error) {
	dir, err := os.MkdirTemp("", "ytscribe-audio-")
	if err != nil {
		return "", nil, &ProviderError{Provider: "ytdlp", Op: "audio", VideoID: videoID, Err: err}
	}
	cleanup := func() { os.RemoveAll(dir) }

	out, err := y.run(ctx, "audio", videoID, []string{
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "192",
		"--no-warnings",
		"-o", filepath.Join(dir, "%(id)s.%(ext)s"),
		"--print", "after_move:filepath",
		"--no-simulate",
		WatchURL(videoID),
	})
	if err != nil {
		cleanup()
		return "", nil, err
	}

	path := audioPathFromOutput(string(out))
	if path == "" {
		// yt-dlp did not print the final path; fall back to the expected name.
		path = filepath.Join(dir, videoID+".mp3")
	}
	if _, err := os.Stat(path); err != nil {
		cleanup()
		return "", nil, &ProviderError{Provider: "ytdlp", Op: "audio", VideoID: videoID,
			Err: errors.New("audio file missing after download")}
	}

	return path, cleanup, nil
}

// audioPathFromOutput extracts the final file path printed by yt-dlp's
// after_move:filepath hook: the last non-empty line that looks like a path.
func audioPathFromOutput(out string) string {
	lines := strings.Split(out, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line != "" && strings.Contains(line, string(os.PathSeparator)) {
			return line
		}
	}
	return ""
}
