package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arifsetiawan/blogfolio/internal/aggregator"
	"github.com/arifsetiawan/blogfolio/internal/blog"
)

// Cache-Control values mirror the aggregation revalidation window: CDNs
// may serve for 600s and revalidate in the background for another 300s.
const (
	cacheControlFresh = "s-maxage=600, stale-while-revalidate=300"
	cacheControlError = "no-cache"
)

// BlogSource produces the current aggregation result. Implemented by
// aggregator.Cache.
type BlogSource interface {
	Get(ctx context.Context) (*aggregator.Result, error)
}

// blogMeta describes the unfiltered aggregation behind a response.
type blogMeta struct {
	TotalPosts      int     `json:"totalPosts"`
	TotalCategories int     `json:"totalCategories"`
	CurrentCategory *string `json:"currentCategory"`
}

// blogResponse is the success body of GET /api/blog.
type blogResponse struct {
	Posts       []blog.Post     `json:"posts"`
	Categories  []blog.Category `json:"categories"`
	Total       int             `json:"total"`
	LastUpdated string          `json:"lastUpdated"`
	Meta        blogMeta        `json:"meta"`
}

// errorResponse is the failure body; the consuming page renders its
// empty post list as an empty state, never an error screen.
type errorResponse struct {
	Error       string          `json:"error"`
	Message     string          `json:"message"`
	Posts       []blog.Post     `json:"posts"`
	Categories  []blog.Category `json:"categories"`
	Total       int             `json:"total"`
	LastUpdated string          `json:"lastUpdated"`
}

// handleBlog serves GET /api/blog?category=<slug>&limit=<n>.
func (s *Server) handleBlog(c *gin.Context) {
	result, err := s.blog.Get(c.Request.Context())
	if err != nil {
		slog.Error("Aggregation failed", "error", err)
		s.renderError(c, err)
		return
	}

	category := c.Query("category")

	posts := result.Posts
	if category != "" {
		posts = blog.FilterByCategory(posts, category)
	}

	if rawLimit := c.Query("limit"); rawLimit != "" {
		// Invalid or non-positive limits are ignored rather than rejected.
		if limit, err := strconv.Atoi(rawLimit); err == nil && limit > 0 && limit < len(posts) {
			posts = posts[:limit]
		}
	}

	var currentCategory *string
	if category != "" {
		currentCategory = &category
	}

	if posts == nil {
		posts = []blog.Post{}
	}
	categories := result.Categories
	if categories == nil {
		categories = []blog.Category{}
	}

	c.Header("Cache-Control", cacheControlFresh)
	c.JSON(http.StatusOK, blogResponse{
		Posts:       posts,
		Categories:  categories,
		Total:       len(posts),
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
		Meta: blogMeta{
			TotalPosts:      len(result.Posts),
			TotalCategories: len(result.Categories),
			CurrentCategory: currentCategory,
		},
	})
}

// handleCategories serves the sidebar's category index.
func (s *Server) handleCategories(c *gin.Context) {
	result, err := s.blog.Get(c.Request.Context())
	if err != nil {
		slog.Error("Aggregation failed", "error", err)
		s.renderError(c, err)
		return
	}

	categories := result.Categories
	if categories == nil {
		categories = []blog.Category{}
	}

	c.Header("Cache-Control", cacheControlFresh)
	c.JSON(http.StatusOK, gin.H{
		"categories":  categories,
		"total":       len(categories),
		"lastUpdated": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// renderError converts any aggregation failure into the documented
// well-formed 500 body.
func (s *Server) renderError(c *gin.Context, err error) {
	c.Header("Cache-Control", cacheControlError)
	c.JSON(http.StatusInternalServerError, errorResponse{
		Error:       "Failed to fetch blog posts",
		Message:     err.Error(),
		Posts:       []blog.Post{},
		Categories:  []blog.Category{},
		Total:       0,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	})
}
