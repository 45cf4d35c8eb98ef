// Package captions fetches YouTube caption tracks over HTTP without an API
// key, using the timedtext endpoints referenced from the watch page.
package captions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/0xramDisk/second-brain/internal/services"
	"github.com/0xramDisk/second-brain/internal/transcription"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"
	// Watch pages are large; the caption track listing sits well inside
	// the first few megabytes.
	maxWatchPageBytes = 8 << 20
)

// Config controls caption retrieval.
type Config struct {
	// Languages is the preference order for caption tracks, as lowercase
	// ISO language codes. Empty means take any track.
	Languages []string
	// UserAgent overrides the request user agent.
	UserAgent string
	// Timeout bounds each HTTP request.
	Timeout time.Duration
}

// Client retrieves caption tracks for YouTube videos.
type Client struct {
	httpClient *http.Client
	languages  []string
	userAgent  string
}

// NewClient builds a caption client from config.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	languages := make([]string, 0, len(cfg.Languages))
	for _, lang := range cfg.Languages {
		if lang = strings.ToLower(strings.TrimSpace(lang)); lang != "" {
			languages = append(languages, lang)
		}
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		languages:  languages,
		userAgent:  userAgent,
	}
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	// Kind is "asr" for auto-generated tracks, empty for uploaded ones.
	Kind string `json:"kind"`
}

type timedTextPayload struct {
	Events []struct {
		StartMs    float64 `json:"tStartMs"`
		DurationMs float64 `json:"dDurationMs"`
		Segs       []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// FetchCaptions returns the caption cues for a watch page URL. Videos with
// no caption track yield an error wrapping services.ErrNotFound.
func (c *Client) FetchCaptions(ctx context.Context, ref string) ([]transcription.CaptionSegment, error) {
	page, err := c.get(ctx, ref)
	if err != nil {
		return nil, services.Wrap(services.ErrSource, "captions", "watch_page", "watch page fetch failed", err)
	}

	tracks, err := parseCaptionTracks(page)
	if err != nil {
		return nil, services.Wrap(services.ErrExtraction, "captions", "watch_page", "caption listing unparseable", err)
	}
	track := c.pickTrack(tracks)
	if track == nil {
		return nil, services.Wrap(services.ErrNotFound, "captions", "watch_page", "no caption track available", nil)
	}

	trackURL := track.BaseURL
	if !strings.Contains(trackURL, "fmt=") {
		trackURL += "&fmt=json3"
	}
	body, err := c.get(ctx, trackURL)
	if err != nil {
		return nil, services.Wrap(services.ErrSource, "captions", "timedtext", "caption track fetch failed", err)
	}

	var payload timedTextPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, services.Wrap(services.ErrExtraction, "captions", "timedtext", "caption track unparseable", err)
	}

	segments := make([]transcription.CaptionSegment, 0, len(payload.Events))
	for _, event := range payload.Events {
		var builder strings.Builder
		for _, seg := range event.Segs {
			builder.WriteString(seg.UTF8)
		}
		text := strings.TrimSpace(builder.String())
		if text == "" {
			continue
		}
		segments = append(segments, transcription.CaptionSegment{
			Text:     text,
			Start:    event.StartMs / 1000,
			Duration: event.DurationMs / 1000,
		})
	}
	return segments, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxWatchPageBytes))
}

// parseCaptionTracks locates the captionTracks array embedded in the watch
// page's player response and decodes it. A page without the marker has no
// captions, which is a normal outcome, not an error.
func parseCaptionTracks(page []byte) ([]captionTrack, error) {
	const marker = `"captionTracks":`
	idx := strings.Index(string(page), marker)
	if idx < 0 {
		return nil, nil
	}
	decoder := json.NewDecoder(strings.NewReader(string(page[idx+len(marker):])))
	var tracks []captionTrack
	if err := decoder.Decode(&tracks); err != nil {
		return nil, fmt.Errorf("decode caption tracks: %w", err)
	}
	return tracks, nil
}

// pickTrack prefers the configured languages in order, uploaded tracks over
// auto-generated ones within a language, then falls back to the first track.
func (c *Client) pickTrack(tracks []captionTrack) *captionTrack {
	if len(tracks) == 0 {
		return nil
	}
	for _, lang := range c.languages {
		var asr *captionTrack
		for i := range tracks {
			track := &tracks[i]
			code := strings.ToLower(track.LanguageCode)
			if code != lang && !strings.HasPrefix(code, lang+"-") {
				continue
			}
			if track.Kind != "asr" {
				return track
			}
			if asr == nil {
				asr = track
			}
		}
		if asr != nil {
			return asr
		}
	}
	return &tracks[0]
}
