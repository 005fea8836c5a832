// Package filter narrows article collections by author, date range,
// type and free-text search.
package filter

import (
	"strings"
	"time"

	"github.com/Danishh07/paydesk/internal/model"
)

type predicate func(model.Article) bool

// Apply returns the articles passing every active predicate of the
// filter, preserving input order. An article whose publishedAt does not
// parse fails only the date predicates; the other predicates still see
// it. The default filter passes everything.
func Apply(articles []model.Article, f model.FilterState) []model.Article {
	preds := build(f)
	if len(preds) == 0 {
		return articles
	}

	out := make([]model.Article, 0, len(articles))
	for _, a := range articles {
		if matchesAll(a, preds) {
			out = append(out, a)
		}
	}
	return out
}

func matchesAll(a model.Article, preds []predicate) bool {
	for _, p := range preds {
		if !p(a) {
			return false
		}
	}
	return true
}

func build(f model.FilterState) []predicate {
	var preds []predicate

	if f.Author != "" {
		needle := strings.ToLower(f.Author)
		preds = append(preds, func(a model.Article) bool {
			return strings.Contains(strings.ToLower(a.Author), needle)
		})
	}

	// Date bounds are inclusive and only active when they parse. A bound
	// given as a bare date covers that whole day.
	if from, ok := parseBound(f.DateFrom, false); ok {
		preds = append(preds, func(a model.Article) bool {
			t, ok := a.PublishedTime()
			return ok && !t.Before(from)
		})
	}
	if to, ok := parseBound(f.DateTo, true); ok {
		preds = append(preds, func(a model.Article) bool {
			t, ok := a.PublishedTime()
			return ok && !t.After(to)
		})
	}

	if f.Type != "" && f.Type != model.FilterAll {
		want := model.ArticleType(f.Type)
		preds = append(preds, func(a model.Article) bool {
			return a.Type == want
		})
	}

	if f.SearchQuery != "" {
		needle := strings.ToLower(f.SearchQuery)
		preds = append(preds, func(a model.Article) bool {
			return strings.Contains(strings.ToLower(a.Title), needle) ||
				strings.Contains(strings.ToLower(a.Description), needle) ||
				strings.Contains(strings.ToLower(a.Author), needle)
		})
	}

	return preds
}

// parseBound accepts an RFC 3339 instant or a bare YYYY-MM-DD date. For
// upper bounds a bare date is pushed to the end of that day.
func parseBound(s string, upper bool) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	if upper {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, true
}
