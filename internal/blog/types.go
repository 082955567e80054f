// Package blog defines the canonical post model and the normalization,
// deduplication and categorization rules used by the aggregator.
package blog

// FeedSource is one registered RSS/Atom endpoint. The list of sources is
// immutable configuration, injected at construction time.
type FeedSource struct {
	URL         string `mapstructure:"url" yaml:"url" json:"url"`
	Name        string `mapstructure:"name" yaml:"name" json:"name"`
	Category    string `mapstructure:"category" yaml:"category" json:"category"`
	Description string `mapstructure:"description" yaml:"description" json:"description"`
}

// Source records where a post came from.
type Source struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	OriginalURL string `json:"originalUrl"`
}

// Thumbnail is an optional raster image attached to a post.
type Thumbnail struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// Post is the canonical, normalized unit of aggregation.
//
// ID is stable: the feed GUID when present, otherwise derived
// deterministically from the item link. PublishedAt is always a valid
// RFC3339 timestamp; items without a date get the fetch time, which is a
// deliberate policy rather than an error. Slug contains only lowercase
// alphanumerics and hyphens.
type Post struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	PublishedAt string     `json:"publishedAt"`
	Category    string     `json:"category"`
	Tags        []string   `json:"tags"`
	Source      Source     `json:"source"`
	Thumbnail   *Thumbnail `json:"thumbnail,omitempty"`
	ReadingTime int        `json:"readingTime"`
	Slug        string     `json:"slug"`
}

// Category is a view over a post list: one entry per distinct post
// category with its post count. It has no lifecycle of its own and is
// recomputed on every aggregation pass.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Count       int    `json:"count"`
	Description string `json:"description"`
}
