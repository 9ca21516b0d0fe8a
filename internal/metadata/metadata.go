// Package metadata reads descriptive details from a publisher's website.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/penerbit-id/naskah/logging"
)

// MaxBodyBytes caps how much of a page is parsed.
const MaxBodyBytes = 2 * 1024 * 1024

// ErrInvalidURL is returned for URLs that are not absolute http(s) links.
var ErrInvalidURL = errors.New("metadata: invalid url")

// Metadata represents what a publisher's home page says about itself.
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	SiteName    string `json:"siteName,omitempty"`
}

// Fetcher scrapes Open Graph and HTML head metadata.
type Fetcher struct {
	client   *http.Client
	logger   *logging.Logger
	timeout  time.Duration
	throttle *Throttle
}

// NewFetcher creates a Fetcher with the given HTTP client.
func NewFetcher(httpClient *http.Client, logger *logging.Logger) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = logging.New("metadata", logging.INFO, io.Discard)
	}
	return &Fetcher{client: httpClient, logger: logger, timeout: 10 * time.Second}
}

// WithThrottle spaces the fetcher's requests through t. The per-request
// timeout starts once t lets the request go.
func (f *Fetcher) WithThrottle(t *Throttle) *Fetcher {
	f.throttle = t
	return f
}

// Fetch retrieves metadata for rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Metadata, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	if err := f.throttle.Wait(ctx); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "naskah-metadata/1.0")
	req.Header.Set("Accept-Language", "id-ID,id;q=0.9,en;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Error("metadata", "fetch page", err, map[string]any{"url": u.String()})
		return nil, fmt.Errorf("failed to fetch %s: %w", u.Host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	meta := &Metadata{
		Title:       firstNonEmpty(metaContent(doc, `meta[property="og:title"]`), doc.Find("title").First().Text()),
		Description: firstNonEmpty(metaContent(doc, `meta[property="og:description"]`), metaContent(doc, `meta[name="description"]`)),
		SiteName:    metaContent(doc, `meta[property="og:site_name"]`),
	}
	if image := metaContent(doc, `meta[property="og:image"]`); image != "" {
		if ref, err := u.Parse(image); err == nil {
			meta.Image = ref.String()
		}
	}

	f.logger.Debug("metadata", "page scraped", map[string]any{
		"url":   u.String(),
		"title": meta.Title,
	})
	return meta, nil
}

func metaContent(doc *goquery.Document, selector string) string {
	if value, exists := doc.Find(selector).First().Attr("content"); exists {
		return strings.TrimSpace(value)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
