package youtube

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	httpclient "ytscribe/http"
	"ytscribe/internal/retry"
)

// DataAPI implements MetadataProvider, CaptionProvider, and
// PlaylistEnumerator using YouTube Data API v3. An API key can list caption
// tracks but not download their cues, so cue fetches go through the
// timedtext endpoint.
type DataAPI struct {
	service     *ytapi.Service
	timedtext   *TimedtextClient
	RetryConfig *retry.Config
}

// NewDataAPI creates Data API-backed providers with the given API key.
func NewDataAPI(ctx context.Context, apiKey string, client *httpclient.Client) (*DataAPI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}

	service, err := ytapi.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	cfg := retry.DefaultConfig()
	return &DataAPI{
		service:     service,
		timedtext:   NewTimedtextClient(client),
		RetryConfig: &cfg,
	}, nil
}

func (a *DataAPI) retryConfig() retry.Config {
	if a.RetryConfig != nil {
		return *a.RetryConfig
	}
	return retry.DefaultConfig()
}

// FetchMetadata retrieves descriptive metadata via videos.list.
func (a *DataAPI) FetchMetadata(ctx context.Context, videoID string) (*Metadata, error) {
	var meta *Metadata

	err := retry.Do(ctx, a.retryConfig(), apiErrorClassifier, func(ctx context.Context) error {
		resp, err := a.service.Videos.List([]string{"snippet", "contentDetails"}).
			Id(videoID).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		if len(resp.Items) == 0 {
			return ErrVideoNotFound
		}

		item := resp.Items[0]
		meta = &Metadata{
			VideoID:     videoID,
			PublishDate: "unknown",
		}
		if item.Snippet != nil {
			meta.Title = item.Snippet.Title
			meta.Channel = item.Snippet.ChannelTitle
			meta.Description = item.Snippet.Description
			if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
				meta.PublishDate = t.UTC().Format("2006-01-02")
			}
		}
		if item.ContentDetails != nil {
			meta.DurationSeconds = parseISO8601Duration(item.ContentDetails.Duration)
		}
		return nil
	})

	if err != nil {
		return nil, &ProviderError{Provider: "dataapi", Op: "metadata", VideoID: videoID, Err: err}
	}
	return meta, nil
}

// ListTracks lists available caption tracks via captions.list. Tracks with
// trackKind "asr" are auto-generated.
func (a *DataAPI) ListTracks(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	var tracks []CaptionTrack

	err := retry.Do(ctx, a.retryConfig(), apiErrorClassifier, func(ctx context.Context) error {
		resp, err := a.service.Captions.List([]string{"snippet"}, videoID).
			Context(ctx).
			Do()
		if err != nil {
			// captions.list answers 404 when the video does not exist and
			// 403 when captions are disabled for third parties.
			var gerr *googleapi.Error
			if errors.As(err, &gerr) {
				switch gerr.Code {
				case 404:
					return ErrVideoNotFound
				case 403:
					return ErrCaptionsDisabled
				}
			}
			return err
		}

		tracks = make([]CaptionTrack, 0, len(resp.Items))
		for _, item := range resp.Items {
			if item.Snippet == nil {
				continue
			}
			name := item.Snippet.Name
			if name == "" {
				name = item.Snippet.Language
			}
			tracks = append(tracks, CaptionTrack{
				Language:     name,
				LanguageCode: item.Snippet.Language,
				IsGenerated:  strings.EqualFold(item.Snippet.TrackKind, "asr"),
			})
		}
		return nil
	})

	if err != nil {
		return nil, &ProviderError{Provider: "dataapi", Op: "captions", VideoID: videoID, Err: err}
	}
	return tracks, nil
}

// FetchCues downloads the cues of one track through the timedtext endpoint.
func (a *DataAPI) FetchCues(ctx context.Context, videoID string, track CaptionTrack) ([]CaptionCue, error) {
	return a.timedtext.FetchCues(ctx, videoID, track.LanguageCode, track.IsGenerated)
}

// ListEntries enumerates up to max playlist members via playlistItems.list
// with pagination.
func (a *DataAPI) ListEntries(ctx context.Context, playlistID string, max int) ([]PlaylistEntry, error) {
	var entries []PlaylistEntry

	pageToken := ""
	for {
		err := retry.Do(ctx, a.retryConfig(), apiErrorClassifier, func(ctx context.Context) error {
			call := a.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
				PlaylistId(playlistID).
				MaxResults(50).
				PageToken(pageToken).
				Context(ctx)

			resp, err := call.Do()
			if err != nil {
				var gerr *googleapi.Error
				if errors.As(err, &gerr) && gerr.Code == 404 {
					return ErrVideoNotFound
				}
				return err
			}

			for _, item := range resp.Items {
				entry := PlaylistEntry{}
				if item.ContentDetails != nil {
					entry.VideoID = item.ContentDetails.VideoId
				}
				if item.Snippet != nil {
					entry.Title = item.Snippet.Title
				}
				entries = append(entries, entry)
			}

			pageToken = resp.NextPageToken
			return nil
		})
		if err != nil {
			return nil, &ProviderError{Provider: "dataapi", Op: "playlist", VideoID: playlistID, Err: err}
		}

		if max > 0 && len(entries) >= max {
			entries = entries[:max]
			break
		}
		if pageToken == "" {
			break
		}
	}

	return entries, nil
}

var isoDurationPattern = regexp.MustCompile(`^P(?:(\d+)D)?T?(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseISO8601Duration converts the Data API's ISO-8601 duration form
// (e.g. "PT4M13S") to whole seconds, returning 0 for anything unparseable.
func parseISO8601Duration(s string) int {
	m := isoDurationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	days, _ := strconv.Atoi(zeroIfEmpty(m[1]))
	hours, _ := strconv.Atoi(zeroIfEmpty(m[2]))
	minutes, _ := strconv.Atoi(zeroIfEmpty(m[3]))
	seconds, _ := strconv.Atoi(zeroIfEmpty(m[4]))
	return days*86400 + hours*3600 + minutes*60 + seconds
}

func zeroIfEmpty(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

// apiErrorClassifier determines if a Data API error is retryable.
func apiErrorClassifier(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrVideoNotFound) || errors.Is(err, ErrCaptionsDisabled) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == 429 || gerr.Code >= 500
	}
	return true
}
