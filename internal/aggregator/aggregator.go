// Package aggregator runs the feed aggregation pipeline: fetch every
// registered source, normalize and deduplicate the items, then sort and
// cap the merged result.
package aggregator

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/arifsetiawan/blogfolio/internal/blog"
	"github.com/arifsetiawan/blogfolio/pkg/httputil"
	"github.com/arifsetiawan/blogfolio/pkg/rss"
)

// DefaultMaxPosts caps the merged post list.
const DefaultMaxPosts = 50

// ErrAllSourcesFailed is returned when not a single source could be
// fetched; partial failures never surface as errors.
var ErrAllSourcesFailed = errors.New("all feed sources failed")

// ThumbnailResolver supplies a fallback thumbnail for posts whose feed
// item carried no usable image.
type ThumbnailResolver interface {
	Resolve(ctx context.Context, pageURL string) *blog.Thumbnail
}

// Result is one complete aggregation pass.
type Result struct {
	Posts      []blog.Post
	Categories []blog.Category
	FetchedAt  time.Time
}

// Config collects the aggregator dependencies.
type Config struct {
	Sources     []blog.FeedSource
	Client      *httputil.Client
	MaxPosts    int
	Concurrency int
	Thumbnails  ThumbnailResolver // optional
	Now         func() time.Time  // optional, for tests
}

// Aggregator fetches all registered feed sources and merges them into a
// canonical post list. Safe for concurrent use.
type Aggregator struct {
	sources     []blog.FeedSource
	client      *httputil.Client
	parser      *rss.Parser
	maxPosts    int
	concurrency int
	thumbnails  ThumbnailResolver
	now         func() time.Time
}

// New creates an aggregator over the given source registry.
func New(cfg Config) *Aggregator {
	if cfg.Client == nil {
		cfg.Client = httputil.NewClient(nil)
	}
	if cfg.MaxPosts <= 0 {
		cfg.MaxPosts = DefaultMaxPosts
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Aggregator{
		sources:     cfg.Sources,
		client:      cfg.Client,
		parser:      rss.NewParser(),
		maxPosts:    cfg.MaxPosts,
		concurrency: cfg.Concurrency,
		thumbnails:  cfg.Thumbnails,
		now:         cfg.Now,
	}
}

// sourceItems pairs a registered source with its parsed items. Sources
// that failed to fetch or parse have ok=false and are skipped.
type sourceItems struct {
	source blog.FeedSource
	items  []rss.Item
	ok     bool
}

// Aggregate runs one full pass over every source. A failing source is
// logged and skipped; the pass only errors when no source succeeded.
func (a *Aggregator) Aggregate(ctx context.Context) (*Result, error) {
	fetched := a.fetchAll(ctx)

	succeeded := 0
	for _, sf := range fetched {
		if sf.ok {
			succeeded++
		}
	}
	if len(a.sources) > 0 && succeeded == 0 {
		return nil, ErrAllSourcesFailed
	}

	now := a.now()
	var accepted []blog.Post

	// Normalization and dedup walk sources in registration order so the
	// pass is deterministic regardless of fetch completion order.
	for _, sf := range fetched {
		if !sf.ok {
			continue
		}
		for _, item := range sf.items {
			post, err := blog.Normalize(item, sf.source, now)
			if err != nil {
				slog.Debug("Dropping feed item", "source", sf.source.Name, "error", err)
				continue
			}
			if blog.IsDuplicate(post, accepted) {
				continue
			}
			accepted = append(accepted, *post)
		}
	}

	sortByPublishedDesc(accepted)
	if len(accepted) > a.maxPosts {
		accepted = accepted[:a.maxPosts]
	}

	a.resolveThumbnails(ctx, accepted)

	return &Result{
		Posts:      accepted,
		Categories: blog.Categories(accepted),
		FetchedAt:  now,
	}, nil
}

// fetchAll pulls every source with bounded parallelism. The returned
// slice is indexed by source registration order.
func (a *Aggregator) fetchAll(ctx context.Context) []sourceItems {
	results := make([]sourceItems, len(a.sources))

	sem := make(chan struct{}, a.concurrency)
	var wg sync.WaitGroup

	for i, source := range a.sources {
		wg.Add(1)
		go func(i int, source blog.FeedSource) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = a.fetchOne(ctx, source)
		}(i, source)
	}

	wg.Wait()
	return results
}

// fetchOne fetches and parses a single source. Fetch and parse failures
// are both recovered here so one bad source never aborts the batch.
func (a *Aggregator) fetchOne(ctx context.Context, source blog.FeedSource) sourceItems {
	body, err := a.client.Get(ctx, source.URL)
	if err != nil {
		slog.Warn("Failed to fetch feed", "source", source.Name, "url", source.URL, "error", err)
		return sourceItems{source: source}
	}

	items, err := a.parser.Parse(body)
	if err != nil {
		slog.Warn("Failed to parse feed", "source", source.Name, "url", source.URL, "error", err)
		return sourceItems{source: source}
	}

	slog.Debug("Fetched feed", "source", source.Name, "items", len(items))
	return sourceItems{source: source, items: items, ok: true}
}

// resolveThumbnails fills missing thumbnails from the optional resolver.
// Only the capped result is enriched, not every raw item.
func (a *Aggregator) resolveThumbnails(ctx context.Context, posts []blog.Post) {
	if a.thumbnails == nil {
		return
	}

	for i := range posts {
		if posts[i].Thumbnail != nil {
			continue
		}
		if thumb := a.thumbnails.Resolve(ctx, posts[i].Source.OriginalURL); thumb != nil {
			posts[i].Thumbnail = thumb
		}
	}
}

// sortByPublishedDesc orders posts newest first. The sort is stable, so
// posts sharing a timestamp keep source registration order.
func sortByPublishedDesc(posts []blog.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return parseTime(posts[i].PublishedAt).After(parseTime(posts[j].PublishedAt))
	})
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
