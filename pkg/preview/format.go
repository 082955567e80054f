// Package preview provides an interactive browser for aggregated posts
// using a Bubble Tea TUI.
package preview

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arifsetiawan/blogfolio/internal/blog"
)

// wrapText wraps text to the specified width, breaking at word boundaries when possible
func wrapText(text string, width int) string {
	if width <= 0 {
		width = 70
	}

	var result strings.Builder
	var line strings.Builder
	lineLen := 0

	words := strings.Fields(text)
	for i, word := range words {
		wordLen := len(word)

		if lineLen > 0 && lineLen+1+wordLen > width {
			result.WriteString(line.String())
			result.WriteString("\n")
			line.Reset()
			lineLen = 0
		}

		if lineLen > 0 {
			line.WriteString(" ")
			lineLen++
		}

		line.WriteString(word)
		lineLen += wordLen

		if i == len(words)-1 {
			result.WriteString(line.String())
		}
	}

	return result.String()
}

// FormatCompactListItem formats a single post in compact list format
// Example: " 1. 2025-10-21T13:33  [React]        Post Title"
func FormatCompactListItem(index int, post blog.Post) string {
	title := post.Title

	const maxTitleLength = 70
	if len(title) > maxTitleLength {
		title = title[:maxTitleLength-3] + "..."
	}

	return fmt.Sprintf("%2d. %s  [%-15s] %s", index+1, post.PublishedAt, post.Category, title)
}

// FormatDetailedPost formats a single post with all metadata
func FormatDetailedPost(post blog.Post) string {
	var b strings.Builder

	b.WriteString("═══════════════════════════════════════════════════════════════════════\n")
	b.WriteString(fmt.Sprintf("Title: %s\n", post.Title))
	b.WriteString(fmt.Sprintf("Link: %s\n", post.Source.OriginalURL))
	b.WriteString(fmt.Sprintf("Source: %s\n", post.Source.Name))
	b.WriteString(fmt.Sprintf("Category: %s | Slug: %s\n", post.Category, post.Slug))
	b.WriteString(fmt.Sprintf("Published: %s | Reading time: %d min\n", post.PublishedAt, post.ReadingTime))

	if len(post.Tags) > 0 {
		b.WriteString(fmt.Sprintf("Tags: %s\n", strings.Join(post.Tags, ", ")))
	}

	if post.Thumbnail != nil {
		b.WriteString(fmt.Sprintf("Thumbnail: %s\n", post.Thumbnail.URL))
	}

	if post.Excerpt != "" {
		b.WriteString(fmt.Sprintf("\nExcerpt:\n%s\n", wrapText(post.Excerpt, 70)))
	}

	b.WriteString("═══════════════════════════════════════════════════════════════════════\n")

	return b.String()
}

// FormatJSONPost formats a single post the way the API would serve it.
func FormatJSONPost(post blog.Post) string {
	encoded, err := json.MarshalIndent(post, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error encoding post: %s", err)
	}
	return string(encoded)
}
