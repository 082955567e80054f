package blog

import "strings"

// IsDuplicate reports whether candidate matches any accepted post by
// case-insensitive title, original URL or id. The scan is linear; the
// accepted set is bounded by the aggregation cap, so an index would not
// pay for itself at this scale.
func IsDuplicate(candidate *Post, accepted []Post) bool {
	if candidate == nil {
		return false
	}

	for i := range accepted {
		existing := &accepted[i]
		if strings.EqualFold(existing.Title, candidate.Title) {
			return true
		}
		if strings.EqualFold(existing.Source.OriginalURL, candidate.Source.OriginalURL) {
			return true
		}
		if strings.EqualFold(existing.ID, candidate.ID) {
			return true
		}
	}
	return false
}
