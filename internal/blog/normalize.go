package blog

import (
	"errors"
	"strings"
	"time"

	"github.com/arifsetiawan/blogfolio/pkg/rss"
	"github.com/arifsetiawan/blogfolio/pkg/textutil"
	"github.com/arifsetiawan/blogfolio/pkg/urlutils"
)

const (
	// ExcerptLength bounds the HTML-stripped summary.
	ExcerptLength = 300
	// SlugLength bounds the derived post slug.
	SlugLength = 100
)

// ErrMissingRequiredFields marks an item without a title or link; these
// are the only two hard-required fields.
var ErrMissingRequiredFields = errors.New("item is missing title or link")

var rasterImageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// Normalize maps one raw feed item onto the canonical Post shape.
//
// now supplies the timestamp used when the feed omits a publish date;
// defaulting to the fetch time is deliberate so the item still sorts into
// the aggregation rather than being dropped.
func Normalize(item rss.Item, source FeedSource, now time.Time) (*Post, error) {
	if strings.TrimSpace(item.Title) == "" || strings.TrimSpace(item.Link) == "" {
		return nil, ErrMissingRequiredFields
	}

	title := textutil.CleanText(item.Title)
	link := strings.TrimSpace(item.Link)

	description := item.Description
	if description == "" {
		description = item.Content
	}
	excerpt := excerptOf(description)

	publishedAt := now
	if item.PublishedAt != nil {
		publishedAt = *item.PublishedAt
	}

	id := item.GUID
	if id == "" {
		id = urlutils.DeterministicID(link)
	}

	return &Post{
		ID:          id,
		Title:       title,
		Excerpt:     excerpt,
		PublishedAt: publishedAt.UTC().Format(time.RFC3339),
		Category:    source.Category,
		Tags:        []string{textutil.CategorySlug(source.Category)},
		Source: Source{
			Name:        source.Name,
			URL:         source.URL,
			OriginalURL: link,
		},
		Thumbnail:   thumbnailOf(item.ImageURLs, title),
		ReadingTime: textutil.ReadingTime(excerpt),
		Slug:        textutil.Slugify(title, SlugLength),
	}, nil
}

// excerptOf strips markup from the item body, bounds it to ExcerptLength
// and appends the ellipsis marker.
func excerptOf(description string) string {
	clean := textutil.CleanText(description)
	bounded := textutil.Truncate(clean, ExcerptLength)
	if !strings.HasSuffix(bounded, "...") {
		bounded += "..."
	}
	return bounded
}

// thumbnailOf returns the first image candidate with a known raster
// extension, or nil when none qualifies.
func thumbnailOf(candidates []string, alt string) *Thumbnail {
	for _, candidate := range candidates {
		if IsRasterImageURL(candidate) {
			return &Thumbnail{URL: candidate, Alt: alt}
		}
	}
	return nil
}

// IsRasterImageURL reports whether a URL points at a known raster image
// type. The match is a substring check so query-string suffixes such as
// cover.jpg?w=800 still qualify.
func IsRasterImageURL(rawURL string) bool {
	if !urlutils.IsValidURL(rawURL) {
		return false
	}

	lowered := strings.ToLower(rawURL)
	for _, ext := range rasterImageExtensions {
		if strings.Contains(lowered, ext) {
			return true
		}
	}
	return false
}
