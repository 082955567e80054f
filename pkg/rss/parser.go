// Package rss parses raw RSS 2.0 and Atom documents into a uniform item
// shape. Dialect detection, entry/item root differences and the
// single-item-as-scalar pitfall are all handled by the underlying gofeed
// parser; this package only flattens its output.
package rss

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"
)

// Item is the loosely-typed output of feed parsing, one per entry. Every
// field is optional at this stage; this is the trust boundary where
// external data enters the system.
type Item struct {
	Title       string
	Link        string
	GUID        string
	Description string
	Content     string
	Published   string     // raw date string as it appeared in the feed
	PublishedAt *time.Time // parsed date, nil when absent or unparseable
	ImageURLs   []string   // enclosure / media:content candidates, in feed order
}

// Parser converts feed documents into Items.
type Parser struct {
	inner *gofeed.Parser
}

// NewParser creates a feed parser.
func NewParser() *Parser {
	return &Parser{inner: gofeed.NewParser()}
}

// Parse parses a feed document. Malformed XML returns an error; callers
// fetching multiple feeds are expected to isolate it per source.
func (p *Parser) Parse(data []byte) ([]Item, error) {
	feed, err := p.inner.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if entry == nil {
			continue
		}
		items = append(items, flattenItem(entry))
	}
	return items, nil
}

// flattenItem maps a gofeed item onto the uniform Item shape.
func flattenItem(entry *gofeed.Item) Item {
	item := Item{
		Title:       strings.TrimSpace(entry.Title),
		Link:        strings.TrimSpace(entry.Link),
		GUID:        strings.TrimSpace(entry.GUID),
		Description: entry.Description,
		Content:     entry.Content,
		Published:   strings.TrimSpace(entry.Published),
		ImageURLs:   imageCandidates(entry),
	}

	switch {
	case entry.PublishedParsed != nil:
		item.PublishedAt = entry.PublishedParsed
	case entry.UpdatedParsed != nil:
		item.PublishedAt = entry.UpdatedParsed
	case item.Published != "":
		// gofeed gave up on the date format; dateparse handles most of
		// the nonstandard timestamps seen in the wild.
		if t, err := dateparse.ParseAny(item.Published); err == nil {
			item.PublishedAt = &t
		}
	}

	return item
}

// imageCandidates collects possible thumbnail URLs from enclosures,
// media:content extensions and the item-level image, in that order.
func imageCandidates(entry *gofeed.Item) []string {
	var urls []string

	for _, enc := range entry.Enclosures {
		if enc != nil && strings.TrimSpace(enc.URL) != "" {
			urls = append(urls, strings.TrimSpace(enc.URL))
		}
	}

	if media, ok := entry.Extensions["media"]; ok {
		for _, ext := range media["content"] {
			if u := strings.TrimSpace(ext.Attrs["url"]); u != "" {
				urls = append(urls, u)
			}
		}
		for _, ext := range media["thumbnail"] {
			if u := strings.TrimSpace(ext.Attrs["url"]); u != "" {
				urls = append(urls, u)
			}
		}
	}

	if entry.Image != nil && strings.TrimSpace(entry.Image.URL) != "" {
		urls = append(urls, strings.TrimSpace(entry.Image.URL))
	}

	return urls
}
