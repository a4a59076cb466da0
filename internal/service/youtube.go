package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/academic-hub/academic-hub-back/internal/config"
)

const (
	youtubeAPIBase = "https://www.googleapis.com/youtube/v3"
	// a slow provider must not hold a request open indefinitely
	youtubeTimeout = 8 * time.Second
)

var (
	videoIDPattern  = regexp.MustCompile(`(?:youtu\.be/|youtube\.com/(?:watch\?(?:.*&)?v=|embed/|shorts/|v/))([A-Za-z0-9_-]{11})`)
	isoDurationExpr = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)
)

type (
	VideoMetadata struct {
		Title       string
		Channel     string
		Duration    string
		Thumbnail   string
		Description string
	}

	// VideoProvider lets tests stub out the external metadata API.
	VideoProvider interface {
		Fetch(ctx context.Context, videoID string) (*VideoMetadata, error)
	}

	YouTube struct {
		client *resty.Client
		apiKey string
	}

	youtubeListResponse struct {
		Items []struct {
			Snippet struct {
				Title        string `json:"title"`
				ChannelTitle string `json:"channelTitle"`
				Description  string `json:"description"`
				Thumbnails   struct {
					Medium struct {
						URL string `json:"url"`
					} `json:"medium"`
				} `json:"thumbnails"`
			} `json:"snippet"`
			ContentDetails struct {
				Duration string `json:"duration"`
			} `json:"contentDetails"`
		} `json:"items"`
	}
)

func NewYouTube(cfg *config.Config) *YouTube {
	client := resty.New().
		SetBaseURL(youtubeAPIBase).
		SetTimeout(youtubeTimeout)
	return &YouTube{
		client: client,
		apiKey: cfg.YouTubeAPIKey,
	}
}

func (y *YouTube) Fetch(ctx context.Context, videoID string) (*VideoMetadata, error) {
	if y.apiKey == "" {
		return nil, ErrUpstreamConfig
	}

	result := youtubeListResponse{}
	resp, err := y.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"part": "snippet,contentDetails",
			"id":   videoID,
			"key":  y.apiKey,
		}).
		SetResult(&result).
		Get("/videos")
	if err != nil {
		return nil, errors.Wrap(ErrUpstream, err.Error())
	}
	if resp.IsError() {
		// quota and key failures come back as 403/400 from the provider
		return nil, errors.Wrapf(ErrUpstream, "video metadata API returned %d", resp.StatusCode())
	}
	if len(result.Items) == 0 {
		return nil, errors.Wrap(ErrNotFound, "video not found")
	}

	item := result.Items[0]
	return &VideoMetadata{
		Title:       item.Snippet.Title,
		Channel:     item.Snippet.ChannelTitle,
		Duration:    FormatISODuration(item.ContentDetails.Duration),
		Thumbnail:   item.Snippet.Thumbnails.Medium.URL,
		Description: item.Snippet.Description,
	}, nil
}

// ExtractVideoID pulls the 11-character id out of the URL shapes YouTube
// hands out (watch, short link, embed, shorts).
func ExtractVideoID(url string) (string, bool) {
	m := videoIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// FormatISODuration maps an ISO-8601 duration like PT1H30M45S to the
// human form 1:30:45 (or 4:05 when there is no hour component).
func FormatISODuration(iso string) string {
	m := isoDurationExpr.FindStringSubmatch(strings.TrimSpace(iso))
	if m == nil {
		return iso
	}
	h, min, sec := atoiDefault(m[1]), atoiDefault(m[2]), atoiDefault(m[3])
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, min, sec)
	}
	return fmt.Sprintf("%d:%02d", min, sec)
}

func atoiDefault(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
