// Package main provides the CLI entry point for blogfolio.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	kongyaml "github.com/alecthomas/kong-yaml"

	"github.com/arifsetiawan/blogfolio/internal/aggregator"
	"github.com/arifsetiawan/blogfolio/internal/blog"
	"github.com/arifsetiawan/blogfolio/internal/config"
	"github.com/arifsetiawan/blogfolio/internal/server"
	"github.com/arifsetiawan/blogfolio/pkg/filesystem"
	"github.com/arifsetiawan/blogfolio/pkg/httputil"
	"github.com/arifsetiawan/blogfolio/pkg/opengraph"
	"github.com/arifsetiawan/blogfolio/pkg/preview"
)

// CLI structure
var CLI struct {
	Config string `help:"Configuration file path" default:"config.yaml"`
	Debug  bool   `help:"Enable debug logging" default:"false"`

	Serve struct {
		Addr string `help:"Listen address override, e.g. :8080"`
	} `cmd:"serve" help:"Run the blog aggregation API server."`

	Fetch struct {
		Outfile  string `help:"Output file path, stdout when empty" short:"o"`
		Category string `help:"Only include posts from this category slug"`
		Limit    int    `help:"Maximum number of posts" default:"0"`
	} `cmd:"fetch" help:"Run one aggregation pass and print the result as JSON."`

	Preview struct {
		Category string `help:"Only include posts from this category slug"`
	} `cmd:"preview" help:"Browse aggregated posts interactively."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Configuration(kongyaml.Loader, "config.yaml", "~/.blogfolio/config.yaml"),
	)

	// Configure logging level based on debug flag
	if CLI.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	} else {
		slog.SetLogLoggerLevel(slog.LevelWarn)
	}

	cfg, err := config.LoadConfig(CLI.Config)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	switch ctx.Command() {
	case "serve":
		runServe(cfg)
	case "fetch":
		runFetch(cfg)
	case "preview":
		runPreview(cfg)
	default:
		panic(ctx.Command())
	}
}

// buildAggregator wires the HTTP client, the optional OpenGraph thumbnail
// fallback and the aggregator itself from the loaded configuration. The
// returned cleanup closes the thumbnail cache and is safe to call always.
func buildAggregator(cfg *config.Config) (*aggregator.Aggregator, func()) {
	clientConfig := httputil.DefaultConfig()
	clientConfig.Timeout = cfg.FetchTimeout()
	clientConfig.MaxRetries = cfg.Fetch.MaxRetries
	clientConfig.UserAgent = cfg.Fetch.UserAgent

	cleanup := func() {}

	var thumbnails aggregator.ThumbnailResolver
	if cfg.Thumbnails.OpenGraphFallback {
		cache, err := opengraph.NewCache(cfg.Thumbnails.CachePath)
		if err != nil {
			slog.Warn("OpenGraph cache unavailable, thumbnail fallback disabled", "error", err)
		} else {
			thumbnails = aggregator.NewOpenGraphResolver(opengraph.NewFetcher(cache))
			cleanup = func() {
				if err := cache.Close(); err != nil {
					slog.Warn("Failed to close OpenGraph cache", "error", err)
				}
			}
		}
	}

	agg := aggregator.New(aggregator.Config{
		Sources:     cfg.Sources,
		Client:      httputil.NewClient(clientConfig),
		MaxPosts:    cfg.Blog.MaxPosts,
		Concurrency: cfg.Fetch.Concurrency,
		Thumbnails:  thumbnails,
	})
	return agg, cleanup
}

func runServe(cfg *config.Config) {
	agg, cleanup := buildAggregator(cfg)
	defer cleanup()

	cache := aggregator.NewCache(agg, cfg.CacheTTL(), nil)
	srv := server.New(cache)

	addr := cfg.Server.Addr
	if CLI.Serve.Addr != "" {
		addr = CLI.Serve.Addr
	}

	slog.Info("Starting blog API server", "addr", addr, "sources", len(cfg.Sources))
	if err := srv.Run(addr); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func runFetch(cfg *config.Config) {
	agg, cleanup := buildAggregator(cfg)
	defer cleanup()

	result, err := agg.Aggregate(context.Background())
	if err != nil {
		slog.Error("Aggregation failed", "error", err)
		os.Exit(1)
	}

	posts := result.Posts
	if CLI.Fetch.Category != "" {
		posts = blog.FilterByCategory(posts, CLI.Fetch.Category)
	}
	if CLI.Fetch.Limit > 0 && CLI.Fetch.Limit < len(posts) {
		posts = posts[:CLI.Fetch.Limit]
	}

	out := struct {
		Posts       []blog.Post     `json:"posts"`
		Categories  []blog.Category `json:"categories"`
		Total       int             `json:"total"`
		LastUpdated string          `json:"lastUpdated"`
	}{
		Posts:       posts,
		Categories:  result.Categories,
		Total:       len(posts),
		LastUpdated: result.FetchedAt.UTC().Format(time.RFC3339),
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		slog.Error("Failed to encode result", "error", err)
		os.Exit(1)
	}

	if CLI.Fetch.Outfile == "" {
		fmt.Println(string(data))
		return
	}
	if err := filesystem.WriteFile(CLI.Fetch.Outfile, append(data, '\n')); err != nil {
		slog.Error("Failed to write output file", "error", err)
		os.Exit(1)
	}
	slog.Info("Wrote aggregated posts", "outfile", CLI.Fetch.Outfile, "posts", len(posts))
}

func runPreview(cfg *config.Config) {
	agg, cleanup := buildAggregator(cfg)
	defer cleanup()

	result, err := agg.Aggregate(context.Background())
	if err != nil {
		slog.Error("Aggregation failed", "error", err)
		os.Exit(1)
	}

	posts := result.Posts
	title := "Blog Posts"
	if CLI.Preview.Category != "" {
		posts = blog.FilterByCategory(posts, CLI.Preview.Category)
		title = fmt.Sprintf("Blog Posts: %s", CLI.Preview.Category)
	}

	if err := preview.Run(posts, title); err != nil {
		slog.Error("Preview failed", "error", err)
		os.Exit(1)
	}
}
