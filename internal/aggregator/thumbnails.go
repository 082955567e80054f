package aggregator

import (
	"context"
	"log/slog"

	"github.com/arifsetiawan/blogfolio/internal/blog"
	"github.com/arifsetiawan/blogfolio/pkg/opengraph"
)

// OpenGraphResolver adapts the OpenGraph fetcher into a thumbnail
// source. Only images with a known raster extension are accepted, the
// same rule applied to feed enclosures.
type OpenGraphResolver struct {
	fetcher *opengraph.Fetcher
}

// NewOpenGraphResolver wraps an OpenGraph fetcher.
func NewOpenGraphResolver(fetcher *opengraph.Fetcher) *OpenGraphResolver {
	return &OpenGraphResolver{fetcher: fetcher}
}

// Resolve implements ThumbnailResolver. Lookup failures return nil; a
// missing thumbnail is never worth failing a post over.
func (r *OpenGraphResolver) Resolve(ctx context.Context, pageURL string) *blog.Thumbnail {
	data, err := r.fetcher.FetchData(ctx, pageURL)
	if err != nil {
		slog.Debug("OpenGraph lookup failed", "url", pageURL, "error", err)
		return nil
	}
	if data == nil || data.Image == "" {
		return nil
	}

	if !blog.IsRasterImageURL(data.Image) {
		return nil
	}

	return &blog.Thumbnail{URL: data.Image, Alt: data.Title}
}
