// Package config loads the application configuration: the feed source
// registry plus server, fetch and cache settings.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/arifsetiawan/blogfolio/configs"
	"github.com/arifsetiawan/blogfolio/internal/blog"
)

// Config holds the central application configuration
type Config struct {
	// Server configuration
	Server struct {
		Addr string `mapstructure:"addr"` // Listen address, e.g. ":8080"
	} `mapstructure:"server"`

	// Outbound fetch configuration
	Fetch struct {
		TimeoutSeconds int    `mapstructure:"timeout_seconds"` // Per-source request timeout
		MaxRetries     int    `mapstructure:"max_retries"`     // Retries per source request
		Concurrency    int    `mapstructure:"concurrency"`     // Parallel source fetches
		UserAgent      string `mapstructure:"user_agent"`      // Outbound User-Agent header
	} `mapstructure:"fetch"`

	// Aggregation cache configuration
	Cache struct {
		TTLSeconds int `mapstructure:"ttl_seconds"` // Revalidation window
	} `mapstructure:"cache"`

	// Aggregation result bounds
	Blog struct {
		MaxPosts int `mapstructure:"max_posts"` // Cap on the aggregated post list
	} `mapstructure:"blog"`

	// Thumbnail enrichment configuration
	Thumbnails struct {
		OpenGraphFallback bool   `mapstructure:"opengraph_fallback"` // Fetch og:image when the feed has none
		CachePath         string `mapstructure:"cache_path"`         // SQLite cache location
	} `mapstructure:"thumbnails"`

	// Feed source registry; defaults to the embedded list
	Sources []blog.FeedSource `mapstructure:"sources"`
}

// FetchTimeout returns the per-source timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// CacheTTL returns the revalidation window as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// LoadConfig loads the configuration from a file, falling back to
// defaults when the file is absent. The default source registry comes
// from the embedded configs/sources.yaml.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = "config.yaml"
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("fetch.timeout_seconds", 10)
	v.SetDefault("fetch.max_retries", 2)
	v.SetDefault("fetch.concurrency", 5)
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (compatible; BlogAggregator/1.0)")
	v.SetDefault("cache.ttl_seconds", 600)
	v.SetDefault("blog.max_posts", 50)
	v.SetDefault("thumbnails.opengraph_fallback", false)
	v.SetDefault("thumbnails.cache_path", "opengraph.db")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, the defaults carry the service.
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if len(config.Sources) == 0 {
		sources, err := DefaultSources()
		if err != nil {
			return nil, err
		}
		config.Sources = sources
	}

	return &config, nil
}

// DefaultSources parses the embedded feed source registry.
func DefaultSources() ([]blog.FeedSource, error) {
	raw, err := configs.EmbeddedConfigs.ReadFile("sources.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded sources: %w", err)
	}

	var doc struct {
		Sources []blog.FeedSource `yaml:"sources"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse embedded sources: %w", err)
	}
	if len(doc.Sources) == 0 {
		return nil, fmt.Errorf("embedded source registry is empty")
	}
	return doc.Sources, nil
}
