package youtube

import (
	"context"
	"sort"

	httpclient "ytscribe/http"
)

// YtdlpCaptions implements CaptionProvider using yt-dlp's -J subtitle maps.
// Track listing comes from the subtitles (manual) and automatic_captions
// (generated) objects; cue download fetches the track's json3 URL through
// the rate-limited HTTP client.
type YtdlpCaptions struct {
	ytdlp      *Ytdlp
	httpClient *httpclient.Client
	timedtext  *TimedtextClient
}

// NewYtdlpCaptions creates a caption provider backed by yt-dlp and the given
// HTTP client.
func NewYtdlpCaptions(ytdlp *Ytdlp, client *httpclient.Client) *YtdlpCaptions {
	return &YtdlpCaptions{
		ytdlp:      ytdlp,
		httpClient: client,
		timedtext:  NewTimedtextClient(client),
	}
}

// ListTracks returns the available caption tracks for a video. Manual tracks
// precede generated ones; within each group tracks are ordered by language
// code so listing is deterministic across runs.
func (c *YtdlpCaptions) ListTracks(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	video, err := c.ytdlp.fetchVideoJSON(ctx, videoID)
	if err != nil {
		return nil, err
	}

	tracks := captionTracksFromMap(video.Subtitles, false)
	tracks = append(tracks, captionTracksFromMap(video.AutomaticCaptions, true)...)
	return tracks, nil
}

// captionTracksFromMap flattens a yt-dlp subtitle map into tracks, picking
// the json3 variant of each language when present.
func captionTracksFromMap(subs map[string][]ytdlpCaptionRef, generated bool) []CaptionTrack {
	codes := make([]string, 0, len(subs))
	for code := range subs {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	tracks := make([]CaptionTrack, 0, len(codes))
	for _, code := range codes {
		refs := subs[code]
		if len(refs) == 0 {
			continue
		}

		chosen := refs[0]
		for _, ref := range refs {
			if ref.Ext == "json3" {
				chosen = ref
				break
			}
		}

		name := chosen.Name
		if name == "" {
			name = code
		}

		tracks = append(tracks, CaptionTrack{
			Language:     name,
			LanguageCode: code,
			IsGenerated:  generated,
			DownloadURL:  chosen.URL,
		})
	}
	return tracks
}

// FetchCues downloads and parses the cues of one track.
func (c *YtdlpCaptions) FetchCues(ctx context.Context, videoID string, track CaptionTrack) ([]CaptionCue, error) {
	if track.DownloadURL == "" {
		return c.timedtext.FetchCues(ctx, videoID, track.LanguageCode, track.IsGenerated)
	}

	resp, err := c.httpClient.Get(ctx, track.DownloadURL)
	if err != nil {
		return nil, &ProviderError{Provider: "ytdlp", Op: "captions", VideoID: videoID, Err: err}
	}

	cues, err := ParseJSON3(resp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: "ytdlp", Op: "captions", VideoID: videoID, Err: err}
	}
	return cues, nil
}
