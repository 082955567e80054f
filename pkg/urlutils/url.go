// Package urlutils provides URL validation and identifier helpers.
package urlutils

import (
	"encoding/base64"
	"net/url"
	"regexp"
)

const idLength = 16

var nonAlphanumericRe = regexp.MustCompile(`[^a-zA-Z0-9]`)

// IsValidURL checks if a URL is valid
func IsValidURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// ResolveURL resolves a relative URL against a base URL
// If the URL is already absolute, it returns it unchanged
func ResolveURL(baseURL, relativeURL string) (string, error) {
	rel, err := url.Parse(relativeURL)
	if err != nil {
		return "", err
	}

	if rel.IsAbs() {
		return relativeURL, nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}

	return base.ResolveReference(rel).String(), nil
}

// DeterministicID derives a short stable identifier from a URL: the
// base64 encoding stripped to alphanumerics and capped at 16 characters.
// The same URL always yields the same id, so an item cannot be re-admitted
// as new across aggregation runs.
func DeterministicID(rawURL string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(rawURL))
	cleaned := nonAlphanumericRe.ReplaceAllString(encoded, "")
	if len(cleaned) > idLength {
		cleaned = cleaned[:idLength]
	}
	return cleaned
}
