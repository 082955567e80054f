package blog

import (
	"fmt"
	"strings"

	"github.com/arifsetiawan/blogfolio/pkg/textutil"
)

// Categories derives the category index from an aggregated post list:
// one entry per distinct category with its post count, ordered by first
// appearance in the input rather than alphabetically or by count.
func Categories(posts []Post) []Category {
	type entry struct {
		count       int
		description string
	}

	counts := make(map[string]*entry)
	var order []string

	for i := range posts {
		name := posts[i].Category
		if existing, ok := counts[name]; ok {
			existing.count++
			continue
		}
		counts[name] = &entry{
			count:       1,
			description: fmt.Sprintf("Artikel tentang %s", name),
		}
		order = append(order, name)
	}

	categories := make([]Category, 0, len(order))
	for _, name := range order {
		slug := textutil.CategorySlug(name)
		categories = append(categories, Category{
			ID:          slug,
			Name:        name,
			Slug:        slug,
			Count:       counts[name].count,
			Description: counts[name].description,
		})
	}
	return categories
}

// FilterByCategory returns the posts whose category slug matches the
// given slug, case-insensitively. An empty slug means no filtering.
func FilterByCategory(posts []Post, categorySlug string) []Post {
	if categorySlug == "" {
		return posts
	}
	categorySlug = strings.ToLower(categorySlug)

	filtered := make([]Post, 0, len(posts))
	for i := range posts {
		if textutil.CategorySlug(posts[i].Category) == categorySlug {
			filtered = append(filtered, posts[i])
		}
	}
	return filtered
}
