package blog

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/arifsetiawan/blogfolio/pkg/rss"
)

var testSource = FeedSource{
	URL:      "https://dev.to/feed/tag/react",
	Name:     "Dev.to React",
	Category: "React",
}

func TestNormalize(t *testing.T) {
	published := time.Date(2025, 10, 21, 13, 33, 0, 0, time.UTC)
	now := time.Date(2025, 10, 22, 8, 0, 0, 0, time.UTC)

	item := rss.Item{
		Title:       "Understanding React Hooks",
		Link:        "https://dev.to/user/understanding-react-hooks",
		GUID:        "guid-123",
		Description: "<p>Hooks let you use state without classes.</p>",
		PublishedAt: &published,
		ImageURLs:   []string{"https://media.dev.to/cover.jpg"},
	}

	post, err := Normalize(item, testSource, now)
	if err != nil {
		t.Fatalf("Normalize() returned error: %v", err)
	}

	if post.ID != "guid-123" {
		t.Errorf("ID = %q, expected feed GUID", post.ID)
	}
	if post.Title != "Understanding React Hooks" {
		t.Errorf("Title = %q", post.Title)
	}
	if post.Excerpt != "Hooks let you use state without classes...." {
		t.Errorf("Excerpt = %q", post.Excerpt)
	}
	if post.PublishedAt != "2025-10-21T13:33:00Z" {
		t.Errorf("PublishedAt = %q", post.PublishedAt)
	}
	if post.Category != "React" {
		t.Errorf("Category = %q", post.Category)
	}
	if len(post.Tags) != 1 || post.Tags[0] != "react" {
		t.Errorf("Tags = %v, expected [react]", post.Tags)
	}
	if post.Source.Name != "Dev.to React" || post.Source.URL != testSource.URL {
		t.Errorf("Source = %+v", post.Source)
	}
	if post.Source.OriginalURL != item.Link {
		t.Errorf("Source.OriginalURL = %q, expected item link", post.Source.OriginalURL)
	}
	if post.Thumbnail == nil || post.Thumbnail.URL != "https://media.dev.to/cover.jpg" {
		t.Errorf("Thumbnail = %+v", post.Thumbnail)
	}
	if post.Thumbnail != nil && post.Thumbnail.Alt != post.Title {
		t.Errorf("Thumbnail.Alt = %q, expected post title", post.Thumbnail.Alt)
	}
	if post.ReadingTime != 1 {
		t.Errorf("ReadingTime = %d, expected 1", post.ReadingTime)
	}
	if post.Slug != "understanding-react-hooks" {
		t.Errorf("Slug = %q", post.Slug)
	}
}

func TestNormalizeMissingRequiredFields(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		item rss.Item
	}{
		{name: "missing title", item: rss.Item{Link: "https://example.com/post"}},
		{name: "missing link", item: rss.Item{Title: "Title Only"}},
		{name: "whitespace title", item: rss.Item{Title: "   ", Link: "https://example.com/post"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.item, testSource, now)
			if !errors.Is(err, ErrMissingRequiredFields) {
				t.Errorf("Normalize() error = %v, expected ErrMissingRequiredFields", err)
			}
		})
	}
}

func TestNormalizeMissingDateUsesFetchTime(t *testing.T) {
	now := time.Date(2025, 10, 22, 8, 0, 0, 0, time.UTC)

	item := rss.Item{
		Title: "Undated Post",
		Link:  "https://example.com/undated",
	}

	post, err := Normalize(item, testSource, now)
	if err != nil {
		t.Fatalf("Normalize() returned error: %v", err)
	}
	if post.PublishedAt != "2025-10-22T08:00:00Z" {
		t.Errorf("PublishedAt = %q, expected the fetch time", post.PublishedAt)
	}
}

func TestNormalizeDerivesIDFromLink(t *testing.T) {
	now := time.Now()
	item := rss.Item{Title: "No GUID", Link: "https://example.com/no-guid"}

	post, err := Normalize(item, testSource, now)
	if err != nil {
		t.Fatalf("Normalize() returned error: %v", err)
	}
	if post.ID == "" {
		t.Fatal("ID is empty, expected link-derived id")
	}

	again, err := Normalize(item, testSource, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("Normalize() returned error: %v", err)
	}
	if again.ID != post.ID {
		t.Errorf("link-derived id not stable: %q != %q", again.ID, post.ID)
	}
}

func TestNormalizeExcerptBounds(t *testing.T) {
	now := time.Now()
	item := rss.Item{
		Title:       "Long Body",
		Link:        "https://example.com/long",
		Description: "<p>" + strings.Repeat("lorem ipsum ", 100) + "</p>",
	}

	post, err := Normalize(item, testSource, now)
	if err != nil {
		t.Fatalf("Normalize() returned error: %v", err)
	}
	if !strings.HasSuffix(post.Excerpt, "...") {
		t.Errorf("Excerpt missing ellipsis: %q", post.Excerpt)
	}
	if len(post.Excerpt) > ExcerptLength+3 {
		t.Errorf("Excerpt length = %d, expected at most %d", len(post.Excerpt), ExcerptLength+3)
	}
}

func TestNormalizeContentFallback(t *testing.T) {
	now := time.Now()
	item := rss.Item{
		Title:   "Content Only",
		Link:    "https://example.com/content-only",
		Content: "<p>Body from content:encoded.</p>",
	}

	post, err := Normalize(item, testSource, now)
	if err != nil {
		t.Fatalf("Normalize() returned error: %v", err)
	}
	if post.Excerpt != "Body from content:encoded...." {
		t.Errorf("Excerpt = %q, expected content fallback", post.Excerpt)
	}
}

func TestNormalizeSlugBounds(t *testing.T) {
	now := time.Now()
	item := rss.Item{
		Title: strings.Repeat("very long title ", 20),
		Link:  "https://example.com/very-long",
	}

	post, err := Normalize(item, testSource, now)
	if err != nil {
		t.Fatalf("Normalize() returned error: %v", err)
	}
	if len(post.Slug) > SlugLength {
		t.Errorf("Slug length = %d, expected at most %d", len(post.Slug), SlugLength)
	}
}

func TestIsRasterImageURL(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected bool
	}{
		{
			name:     "jpg",
			url:      "https://example.com/cover.jpg",
			expected: true,
		},
		{
			name:     "png with query string",
			url:      "https://example.com/cover.png?w=800",
			expected: true,
		},
		{
			name:     "uppercase extension",
			url:      "https://example.com/COVER.JPEG",
			expected: true,
		},
		{
			name:     "webp",
			url:      "https://example.com/cover.webp",
			expected: true,
		},
		{
			name:     "svg rejected",
			url:      "https://example.com/logo.svg",
			expected: false,
		},
		{
			name:     "gif rejected",
			url:      "https://example.com/anim.gif",
			expected: false,
		},
		{
			name:     "relative URL rejected",
			url:      "/images/cover.jpg",
			expected: false,
		},
		{
			name:     "empty rejected",
			url:      "",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsRasterImageURL(tt.url)
			if result != tt.expected {
				t.Errorf("IsRasterImageURL(%q) = %v, expected %v", tt.url, result, tt.expected)
			}
		})
	}
}

func TestNormalizeSkipsNonRasterThumbnails(t *testing.T) {
	now := time.Now()
	item := rss.Item{
		Title:     "SVG Then PNG",
		Link:      "https://example.com/svg-then-png",
		ImageURLs: []string{"https://example.com/logo.svg", "https://example.com/cover.png"},
	}

	post, err := Normalize(item, testSource, now)
	if err != nil {
		t.Fatalf("Normalize() returned error: %v", err)
	}
	if post.Thumbnail == nil || post.Thumbnail.URL != "https://example.com/cover.png" {
		t.Errorf("Thumbnail = %+v, expected the first raster candidate", post.Thumbnail)
	}
}
