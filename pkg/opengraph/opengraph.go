// Package opengraph fetches page-level OpenGraph metadata, used as a
// thumbnail fallback for feed items that ship without a usable image.
// Results, including failures, are cached in SQLite so repeated
// aggregation passes do not hammer article pages.
package opengraph

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/arifsetiawan/blogfolio/pkg/urlutils"
)

const (
	// Cache lifetimes: successful lookups live a day, failures an hour.
	successTTL = 24 * time.Hour
	failureTTL = 1 * time.Hour

	maxBodySize   = 1024 * 1024
	maxConcurrent = 5
)

// Data is the page metadata relevant to thumbnail selection.
type Data struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Image     string    `json:"image"`
	FetchedAt time.Time `json:"fetched_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Fetcher retrieves OpenGraph metadata with per-domain rate limiting and
// a shared cache.
type Fetcher struct {
	client *http.Client
	cache  *Cache

	domainMu  sync.Mutex
	lastFetch map[string]time.Time
	semaphore chan struct{}
}

// NewFetcher creates an OpenGraph fetcher. cache may be nil, in which
// case every call fetches fresh.
func NewFetcher(cache *Cache) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		cache:     cache,
		lastFetch: make(map[string]time.Time),
		semaphore: make(chan struct{}, maxConcurrent),
	}
}

// FetchData returns OpenGraph metadata for a page, consulting the cache
// first. A nil Data with nil error means the lookup failed recently and
// is being skipped.
func (f *Fetcher) FetchData(ctx context.Context, targetURL string) (*Data, error) {
	if !urlutils.IsValidURL(targetURL) {
		return nil, fmt.Errorf("invalid URL format: %s", targetURL)
	}

	if f.cache != nil {
		data, failed, err := f.cache.Lookup(targetURL)
		if err == nil && data != nil {
			return data, nil
		}
		if err == nil && failed {
			return nil, nil
		}
	}

	data, err := f.fetchFresh(ctx, targetURL)
	success := err == nil && data != nil

	if data == nil {
		data = &Data{
			URL:       targetURL,
			FetchedAt: time.Now(),
			ExpiresAt: time.Now().Add(failureTTL),
		}
	}

	if f.cache != nil {
		// Cache trouble never blocks the lookup itself.
		if cacheErr := f.cache.Store(data, success); cacheErr != nil {
			slog.Warn("Failed to cache OpenGraph data", "url", targetURL, "error", cacheErr)
		}
	}

	if success {
		return data, nil
	}
	return nil, err
}

// fetchFresh downloads and parses the page.
func (f *Fetcher) fetchFresh(ctx context.Context, targetURL string) (*Data, error) {
	select {
	case f.semaphore <- struct{}{}:
		defer func() { <-f.semaphore }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if err := f.throttleDomain(ctx, targetURL); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; BlogAggregator/1.0; OpenGraph fetcher)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(strings.ToLower(contentType), "text/html") &&
		!strings.Contains(strings.ToLower(contentType), "application/xhtml") {
		return nil, fmt.Errorf("not an HTML page: %s", contentType)
	}

	// charset.NewReader converts whatever encoding the page declares
	// into UTF-8 before parsing.
	reader, err := charset.NewReader(io.LimitReader(resp.Body, maxBodySize), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to decode page charset: %w", err)
	}

	doc, err := html.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	now := time.Now()
	data := &Data{
		URL:       targetURL,
		FetchedAt: now,
		ExpiresAt: now.Add(successTTL),
	}
	extractTags(doc, data)
	cleanupData(data)

	return data, nil
}

// throttleDomain enforces one request per second per host.
func (f *Fetcher) throttleDomain(ctx context.Context, targetURL string) error {
	parsed, err := url.Parse(targetURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	domain := parsed.Host

	f.domainMu.Lock()
	wait := time.Duration(0)
	if last, ok := f.lastFetch[domain]; ok {
		if since := time.Since(last); since < time.Second {
			wait = time.Second - since
		}
	}
	f.lastFetch[domain] = time.Now().Add(wait)
	f.domainMu.Unlock()

	if wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// extractTags walks the document collecting og: and twitter: metadata.
func extractTags(n *html.Node, data *Data) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "meta":
			processMetaTag(n, data)
		case "title":
			if data.Title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				data.Title = strings.TrimSpace(n.FirstChild.Data)
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractTags(c, data)
	}
}

func processMetaTag(n *html.Node, data *Data) {
	var property, content, name string
	for _, attr := range n.Attr {
		switch attr.Key {
		case "property":
			property = attr.Val
		case "content":
			content = attr.Val
		case "name":
			name = attr.Val
		}
	}

	switch property {
	case "og:title":
		if data.Title == "" {
			data.Title = content
		}
	case "og:image":
		if data.Image == "" {
			data.Image = content
		}
	}

	if data.Image == "" && name == "twitter:image" {
		data.Image = content
	}
	if data.Title == "" && name == "twitter:title" {
		data.Title = content
	}
}

// cleanupData validates and normalizes the extracted fields.
func cleanupData(data *Data) {
	data.Title = strings.TrimSpace(strings.ReplaceAll(data.Title, "\x00", ""))
	if len(data.Title) > 200 {
		data.Title = data.Title[:197] + "..."
	}

	data.Image = strings.TrimSpace(data.Image)
	if data.Image != "" && !urlutils.IsValidURL(data.Image) {
		data.Image = ""
	}
}
