package model

import "time"

// ArticleType distinguishes the two content categories, which carry
// different payout rates.
type ArticleType string

const (
	TypeNews ArticleType = "news"
	TypeBlog ArticleType = "blog"
)

// Source describes where an article came from. ID may be empty; Name is
// never empty after sanitization.
type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Article is a single unit of content as served to the dashboard. The
// field names and JSON shape follow the upstream provider's schema.
type Article struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Content     string      `json:"content"`
	Author      string      `json:"author"`
	PublishedAt string      `json:"publishedAt"`
	URL         string      `json:"url"`
	URLToImage  string      `json:"urlToImage"`
	Source      Source      `json:"source"`
	Type        ArticleType `json:"type"`
}

// PublishedTime parses the publishedAt timestamp. The boolean is false
// when the field is missing or not a valid RFC 3339 instant.
func (a Article) PublishedTime() (time.Time, bool) {
	if a.PublishedAt == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, a.PublishedAt)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Fallback values substituted for missing fields at the ingress boundary.
const (
	UnknownAuthor   = "Unknown Author"
	UntitledArticle = "Untitled Article"
	DefaultSource   = "News API"
)

// Sanitize normalizes a single article pulled from an untrusted source.
// It returns false when the article must be dropped (empty id). Missing
// text fields get safe defaults so downstream code never sees empty
// author or source names; an unknown type normalizes to news so that a
// rate can always be resolved.
func Sanitize(a Article, now time.Time) (Article, bool) {
	if a.ID == "" {
		return Article{}, false
	}
	if a.Title == "" {
		a.Title = UntitledArticle
	}
	if a.Author == "" {
		a.Author = UnknownAuthor
	}
	if a.PublishedAt == "" {
		a.PublishedAt = now.UTC().Format(time.RFC3339)
	}
	if a.Source.Name == "" {
		a.Source.Name = DefaultSource
	}
	if a.Type != TypeNews && a.Type != TypeBlog {
		a.Type = TypeNews
	}
	return a, true
}

// SanitizeAll applies Sanitize over a collection, dropping rejects and
// preserving the order of survivors.
func SanitizeAll(articles []Article, now time.Time) []Article {
	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		clean, ok := Sanitize(a, now)
		if !ok {
			continue
		}
		out = append(out, clean)
	}
	return out
}
