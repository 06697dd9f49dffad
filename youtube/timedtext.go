package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	httpclient "ytscribe/http"
)

// TimedtextClient fetches caption cues from YouTube's timedtext endpoint in
// json3 format. The Data API lists caption tracks but cannot download their
// cues with an API key alone, so cue fetches go through this endpoint.
type TimedtextClient struct {
	httpClient *httpclient.Client
	baseURL    string
}

// NewTimedtextClient creates a timedtext client on top of the given
// rate-limited HTTP client.
func NewTimedtextClient(client *httpclient.Client) *TimedtextClient {
	return &TimedtextClient{
		httpClient: client,
		baseURL:    "https://www.youtube.com/api/timedtext",
	}
}

// FetchCues fetches the cues of one caption track by language code.
// generated selects the ASR track variant.
func (tc *TimedtextClient) FetchCues(ctx context.Context, videoID, langCode string, generated bool) ([]CaptionCue, error) {
	params := url.Values{}
	params.Set("v", videoID)
	params.Set("lang", langCode)
	params.Set("fmt", "json3")
	if generated {
		params.Set("kind", "asr")
	}

	resp, err := tc.httpClient.Get(ctx, tc.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, &ProviderError{Provider: "timedtext", Op: "captions", VideoID: videoID, Err: err}
	}

	// The endpoint answers 200 with an empty body when the track does not
	// exist for the requested language/kind.
	if len(resp.Body) == 0 {
		return nil, &ProviderError{Provider: "timedtext", Op: "captions", VideoID: videoID,
			Err: ErrCaptionsDisabled}
	}

	cues, err := ParseJSON3(resp.Body)
	if err != nil {
		return nil, &ProviderError{Provider: "timedtext", Op: "captions", VideoID: videoID, Err: err}
	}
	return cues, nil
}

// json3Response is YouTube's json3 caption document.
type json3Response struct {
	Events []json3Event `json:"events"`
}

type json3Event struct {
	StartMs    int64          `json:"tStartMs"`
	DurationMs int64          `json:"dDurationMs"`
	Segs       []json3Segment `json:"segs,omitempty"`
}

type json3Segment struct {
	UTF8 string `json:"utf8"`
}

// ParseJSON3 decodes a json3 caption document into ordered cues. Events
// without text segments (window styling, positioning) are skipped; the
// provider's event order is preserved.
func ParseJSON3(data []byte) ([]CaptionCue, error) {
	var resp json3Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal json3: %w", err)
	}

	var cues []CaptionCue
	for _, event := range resp.Events {
		if len(event.Segs) == 0 {
			continue
		}

		var text strings.Builder
		for _, seg := range event.Segs {
			text.WriteString(seg.UTF8)
		}
		trimmed := strings.TrimSpace(text.String())
		if trimmed == "" {
			continue
		}

		cues = append(cues, CaptionCue{
			Start:    float64(event.StartMs) / 1000.0,
			Duration: float64(event.DurationMs) / 1000.0,
			Text:     trimmed,
		})
	}
	return cues, nil
}
