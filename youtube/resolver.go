package youtube

import (
	"regexp"
	"strings"
)

// Video ID extraction patterns, tried in order. First match wins.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[?&]v=([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`/v/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`/embed/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`^([A-Za-z0-9_-]{11})$`),
}

var playlistIDPattern = regexp.MustCompile(`[?&]list=([A-Za-z0-9_-]+)`)

// InputType classifies the top-level input reference.
type InputType string

const (
	// TypeVideo is a single-video reference.
	TypeVideo InputType = "video"
	// TypePlaylist is a playlist reference.
	TypePlaylist InputType = "playlist"
)

// Classification is the result of resolving a free-form input string.
type Classification struct {
	Type       InputType
	VideoID    string
	PlaylistID string
}

// ExtractVideoID extracts an 11-character video ID from a URL or bare ID.
// Recognized forms: watch URLs (v= parameter), /v/ paths, youtu.be short
// links, /embed/ paths, and bare 11-character ID tokens.
func ExtractVideoID(input string) (string, bool) {
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(input); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// ExtractPlaylistID extracts a playlist ID from a list= query parameter.
func ExtractPlaylistID(input string) (string, bool) {
	if m := playlistIDPattern.FindStringSubmatch(input); m != nil {
		return m[1], true
	}
	return "", false
}

// Classify resolves an input string to a video or playlist reference.
//
// A list= parameter classifies as playlist unless the input contains the
// literal substring "watch": a watch-page URL carrying a list= parameter is
// a video viewed in playlist context and classifies as video. This is a
// textual check, not URL parsing, kept for compatibility with mixed-form
// inputs; a playlist URL that happens to contain "watch" elsewhere will be
// misclassified as a known limitation.
func Classify(input string) (Classification, error) {
	playlistID, hasPlaylist := ExtractPlaylistID(input)
	videoID, hasVideo := ExtractVideoID(input)

	if hasPlaylist && !strings.Contains(input, "watch") {
		return Classification{Type: TypePlaylist, PlaylistID: playlistID}, nil
	}
	if hasVideo {
		return Classification{Type: TypeVideo, VideoID: videoID}, nil
	}
	return Classification{}, ErrUnrecognizedInput
}
