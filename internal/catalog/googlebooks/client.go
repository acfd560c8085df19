// Package googlebooks is a small client for the Google Books API v1, used to
// fill in book titles, authors and thumbnails and to back catalog search.
package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public API endpoint.
	DefaultBaseURL = "https://www.googleapis.com/books/v1"

	defaultTimeout = 30 * time.Second

	defaultNumResults = 10
	maxNumResults     = 40 // API maximum for maxResults

	// maxResponseSize bounds how much of a response body is read.
	maxResponseSize = 4 * 1024 * 1024
)

// volumeIDPattern matches Google Books volume IDs, e.g. "zyTCAlFPjgYC".
var volumeIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Config configures a Client.
type Config struct {
	BaseURL string
	APIKey  string // optional; raises the anonymous quota
}

// Client is a rate-limited Google Books client.
type Client struct {
	http        *http.Client
	baseURL     string
	apiKey      string
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

// New creates a client. An empty BaseURL uses DefaultBaseURL.
// Requests are limited to 2 per second with a burst of 5.
func New(cfg Config, logger *slog.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:        &http.Client{Timeout: defaultTimeout},
		baseURL:     baseURL,
		apiKey:      cfg.APIKey,
		rateLimiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 5),
		logger:      logger,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// Search runs a free-text volume search. limit <= 0 means 10; values above
// 40 are clamped.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Volume, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, wrapError("search", query, ErrEmptyQuery)
	}
	if limit <= 0 {
		limit = defaultNumResults
	}
	limit = min(limit, maxNumResults)

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("printType", "books")

	body, err := c.doRequest(ctx, "/volumes", params)
	if err != nil {
		return nil, wrapError("search", query, err)
	}

	var raw rawVolumes
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, wrapError("search", query, fmt.Errorf("parse response: %w", err))
	}

	volumes := make([]Volume, 0, len(raw.Items))
	for i := range raw.Items {
		volumes = append(volumes, toVolume(&raw.Items[i]))
	}
	return volumes, nil
}

// Volume fetches a single volume by its ID.
func (c *Client) Volume(ctx context.Context, id string) (*Volume, error) {
	if !volumeIDPattern.MatchString(id) {
		return nil, wrapError("volume", id, ErrInvalidID)
	}

	body, err := c.doRequest(ctx, "/volumes/"+url.PathEscape(id), url.Values{})
	if err != nil {
		return nil, wrapError("volume", id, err)
	}

	var raw rawVolume
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, wrapError("volume", id, fmt.Errorf("parse response: %w", err))
	}
	if raw.ID == "" {
		return nil, wrapError("volume", id, ErrNotFound)
	}

	v := toVolume(&raw)
	return &v, nil
}

// doRequest executes a GET with rate limiting and maps error statuses to sentinels.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	if c.apiKey != "" {
		query.Set("key", c.apiKey)
	}
	u := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Chaptered/1.0")

	c.logger.Debug("google books request", "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusBadRequest:
		return nil, ErrBadRequest
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}

func toVolume(raw *rawVolume) Volume {
	info := raw.VolumeInfo
	v := Volume{
		ID:            raw.ID,
		Title:         strings.TrimSpace(info.Title),
		Subtitle:      strings.TrimSpace(info.Subtitle),
		Authors:       info.Authors,
		Publisher:     info.Publisher,
		PublishedDate: info.PublishedDate,
		Description:   descriptionToMarkdown(info.Description),
		PageCount:     info.PageCount,
		Categories:    info.Categories,
		Language:      info.Language,
		Thumbnail:     selectThumbnail(info.ImageLinks),
	}
	if raw.SearchInfo != nil {
		v.Snippet = stripHTML(raw.SearchInfo.TextSnippet)
	}
	for _, ident := range info.IndustryIdentifiers {
		switch ident.Type {
		case "ISBN_10":
			v.ISBN10 = ident.Identifier
		case "ISBN_13":
			v.ISBN13 = ident.Identifier
		}
	}
	return v
}

// selectThumbnail picks the best available image link and upgrades it to https.
func selectThumbnail(links map[string]string) string {
	for _, size := range []string{"thumbnail", "smallThumbnail", "small", "medium"} {
		if link, ok := links[size]; ok && link != "" {
			if rest, found := strings.CutPrefix(link, "http://"); found {
				return "https://" + rest
			}
			return link
		}
	}
	return ""
}
