// Package stock searches a Pexels-compatible stock footage API for clips
// matching scene keywords. Results are advisory; the pipeline works without
// them.
package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultTimeout = 10 * time.Second
	defaultPerPage = 5
	maxPerPage     = 20
)

// SearchError represents an error response from the stock API.
type SearchError struct {
	StatusCode int
	Body       string
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("stock search failed: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsRetryable returns true for server errors (5xx). Client errors (4xx,
// including 429 quota exhaustion) are considered permanent for the run.
func (e *SearchError) IsRetryable() bool {
	return e.StatusCode >= 500
}

// Clip is one stock footage search hit.
type Clip struct {
	ID        int     `json:"id"`
	URL       string  `json:"url"`
	Duration  float64 `json:"duration"`
	Thumbnail string  `json:"thumbnail,omitempty"`
	Author    string  `json:"author,omitempty"`
	FileURL   string  `json:"file_url,omitempty"`
}

// Client talks to a Pexels-compatible video search endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// Enabled reports whether the client has credentials to search with.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Search queries the API for clips matching the keywords. perPage values
// outside [1, 20] fall back to the default of 5.
func (c *Client) Search(ctx context.Context, query string, perPage int) ([]Clip, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("stock search: no api key configured")
	}
	if perPage <= 0 || perPage > maxPerPage {
		perPage = defaultPerPage
	}

	endpoint := fmt.Sprintf("%s/search?query=%s&per_page=%s",
		c.baseURL, url.QueryEscape(query), strconv.Itoa(perPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &SearchError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	clips := make([]Clip, 0, len(parsed.Videos))
	for _, v := range parsed.Videos {
		clips = append(clips, Clip{
			ID:        v.ID,
			URL:       v.URL,
			Duration:  v.Duration,
			Thumbnail: v.Image,
			Author:    v.User.Name,
			FileURL:   bestFile(v.VideoFiles),
		})
	}

	if c.logger != nil {
		c.logger.Info("stock search complete",
			"query", query,
			"results", len(clips),
		)
	}
	return clips, nil
}

// searchResponse mirrors the Pexels video search schema, fields we ignore
// omitted.
type searchResponse struct {
	Videos []struct {
		ID       int     `json:"id"`
		URL      string  `json:"url"`
		Duration float64 `json:"duration"`
		Image    string  `json:"image"`
		User     struct {
			Name string `json:"name"`
		} `json:"user"`
		VideoFiles []videoFile `json:"video_files"`
	} `json:"videos"`
}

type videoFile struct {
	Link   string `json:"link"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// bestFile picks the widest rendition, the closest thing the API offers to
// "highest quality".
func bestFile(files []videoFile) string {
	best := ""
	bestWidth := -1
	for _, f := range files {
		if f.Width > bestWidth {
			best = f.Link
			bestWidth = f.Width
		}
	}
	return best
}
