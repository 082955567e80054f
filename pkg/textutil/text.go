// Package textutil provides the text normalization helpers shared by the
// blog pipeline: HTML stripping, slug derivation and reading time.
package textutil

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const wordsPerMinute = 200

var (
	slugInvalidRe  = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
	hyphenRunRe    = regexp.MustCompile(`-+`)
	trimHyphenRe   = regexp.MustCompile(`^-|-$`)
	htmlEntityRe   = regexp.MustCompile(`&[#\w]+;`)
	htmlFallbackRe = regexp.MustCompile(`<[^>]*>`)
)

// CleanText strips HTML markup from text and collapses all whitespace
// runs into single spaces. Entities are decoded as part of parsing;
// anything the parser rejects falls back to regex stripping.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		text = htmlFallbackRe.ReplaceAllString(text, "")
		text = htmlEntityRe.ReplaceAllString(text, " ")
		return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	}

	return strings.TrimSpace(whitespaceRe.ReplaceAllString(doc.Text(), " "))
}

// Truncate cuts text to at most limit bytes, never splitting a multi-byte
// rune, and appends an ellipsis marker when anything was removed.
func Truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}

	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}

	return strings.TrimSpace(text[:cut]) + "..."
}

// Slugify derives a URL-safe identifier from a title: lowercase, strip
// everything but alphanumerics, spaces and hyphens, turn whitespace runs
// into single hyphens and cap the result at maxLen bytes.
func Slugify(title string, maxLen int) string {
	slug := strings.ToLower(title)
	slug = slugInvalidRe.ReplaceAllString(slug, "")
	slug = whitespaceRe.ReplaceAllString(slug, "-")
	slug = hyphenRunRe.ReplaceAllString(slug, "-")
	slug = trimHyphenRe.ReplaceAllString(slug, "")

	if maxLen > 0 && len(slug) > maxLen {
		slug = slug[:maxLen]
	}
	return slug
}

// CategorySlug derives the filter slug for a category name. Unlike post
// slugs only whitespace is rewritten, so "Next.js" stays "next.js".
func CategorySlug(name string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(name), "-")
}

// ReadingTime estimates minutes to read the given text at 200 words per
// minute, never reporting less than one minute.
func ReadingTime(text string) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 1
	}

	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
