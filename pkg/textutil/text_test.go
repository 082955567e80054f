package textutil

import (
	"strings"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text unchanged",
			input:    "Just plain text",
			expected: "Just plain text",
		},
		{
			name:     "strips tags",
			input:    "<p>Hello <strong>world</strong></p>",
			expected: "Hello world",
		},
		{
			name:     "decodes entities",
			input:    "Tom &amp; Jerry &lt;3",
			expected: "Tom & Jerry <3",
		},
		{
			name:     "collapses whitespace runs",
			input:    "too   many\n\n  spaces",
			expected: "too many spaces",
		},
		{
			name:     "nested markup",
			input:    "<div><ul><li>one</li><li>two</li></ul></div>",
			expected: "onetwo",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanText(tt.input)
			if result != tt.expected {
				t.Errorf("CleanText(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		limit    int
		expected string
	}{
		{
			name:     "under limit unchanged",
			input:    "short",
			limit:    10,
			expected: "short",
		},
		{
			name:     "exactly at limit unchanged",
			input:    "exact",
			limit:    5,
			expected: "exact",
		},
		{
			name:     "over limit gets ellipsis",
			input:    "hello world",
			limit:    5,
			expected: "hello...",
		},
		{
			name:     "trailing space trimmed before ellipsis",
			input:    "hello world",
			limit:    6,
			expected: "hello...",
		},
		{
			name:     "zero limit unchanged",
			input:    "anything",
			limit:    0,
			expected: "anything",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Truncate(tt.input, tt.limit)
			if result != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, expected %q", tt.input, tt.limit, result, tt.expected)
			}
		})
	}
}

func TestTruncateNeverSplitsRunes(t *testing.T) {
	// "héllo" has a two-byte rune at index 1; a cut at byte 2 would land
	// mid-rune.
	result := Truncate("héllo wörld", 2)
	if strings.ContainsRune(result, '�') {
		t.Errorf("Truncate produced invalid UTF-8: %q", result)
	}
	if result != "h..." {
		t.Errorf("Truncate(%q, 2) = %q, expected %q", "héllo wörld", result, "h...")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		maxLen   int
		expected string
	}{
		{
			name:     "basic title",
			title:    "Hello World",
			maxLen:   100,
			expected: "hello-world",
		},
		{
			name:     "punctuation stripped",
			title:    "What's New in React 19?",
			maxLen:   100,
			expected: "whats-new-in-react-19",
		},
		{
			name:     "dots removed",
			title:    "Intro to Next.js",
			maxLen:   100,
			expected: "intro-to-nextjs",
		},
		{
			name:     "whitespace runs collapse",
			title:    "too   many    spaces",
			maxLen:   100,
			expected: "too-many-spaces",
		},
		{
			name:     "leading and trailing hyphens trimmed",
			title:    "- leading and trailing -",
			maxLen:   100,
			expected: "leading-and-trailing",
		},
		{
			name:     "capped at max length",
			title:    "a very long title that keeps going",
			maxLen:   10,
			expected: "a-very-lon",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Slugify(tt.title, tt.maxLen)
			if result != tt.expected {
				t.Errorf("Slugify(%q, %d) = %q, expected %q", tt.title, tt.maxLen, result, tt.expected)
			}
		})
	}
}

func TestCategorySlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "lowercases",
			input:    "React",
			expected: "react",
		},
		{
			name:     "keeps dots",
			input:    "Next.js",
			expected: "next.js",
		},
		{
			name:     "whitespace becomes hyphen",
			input:    "Web Development",
			expected: "web-development",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CategorySlug(tt.input)
			if result != tt.expected {
				t.Errorf("CategorySlug(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestReadingTime(t *testing.T) {
	tests := []struct {
		name     string
		words    int
		expected int
	}{
		{name: "empty text", words: 0, expected: 1},
		{name: "single word", words: 1, expected: 1},
		{name: "exactly one minute", words: 200, expected: 1},
		{name: "just over one minute", words: 201, expected: 2},
		{name: "three minutes", words: 600, expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := strings.TrimSpace(strings.Repeat("word ", tt.words))
			result := ReadingTime(text)
			if result != tt.expected {
				t.Errorf("ReadingTime(%d words) = %d, expected %d", tt.words, result, tt.expected)
			}
		})
	}
}
