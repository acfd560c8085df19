package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// maxThumbnailSize bounds how much of a thumbnail is read.
	maxThumbnailSize = 5 * 1024 * 1024

	fetchTimeout = 15 * time.Second
)

// ErrTooLarge is returned when a thumbnail exceeds maxThumbnailSize.
var ErrTooLarge = errors.New("thumbnail too large")

// Placeholders downloads thumbnails and turns them into BlurHash strings.
type Placeholders struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewPlaceholders creates a placeholder generator.
func NewPlaceholders(logger *slog.Logger) *Placeholders {
	return &Placeholders{
		httpClient: &http.Client{Timeout: fetchTimeout},
		logger:     logger,
	}
}

// BlurHash fetches thumbnailURL and returns its BlurHash.
func (p *Placeholders) BlurHash(ctx context.Context, thumbnailURL string) (string, error) {
	u, err := url.Parse(thumbnailURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid thumbnail URL %q", thumbnailURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Chaptered/1.0")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download: unexpected status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return "", fmt.Errorf("download: unexpected content type %q", ct)
	}
	if resp.ContentLength > maxThumbnailSize {
		return "", ErrTooLarge
	}

	// One byte past the limit tells a truncated read apart from an exact fit.
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxThumbnailSize+1))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxThumbnailSize {
		return "", ErrTooLarge
	}

	hash, err := ComputeBlurHash(bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	p.logger.Debug("computed thumbnail placeholder", "url", thumbnailURL, "bytes", len(body))
	return hash, nil
}
