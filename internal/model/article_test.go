package model

import (
	"testing"
	"time"
)

func TestSanitizeDropsEmptyID(t *testing.T) {
	_, ok := Sanitize(Article{Title: "No ID"}, time.Now())
	if ok {
		t.Error("expected article without id to be dropped")
	}
}

func TestSanitizeDefaults(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	got, ok := Sanitize(Article{ID: "a1"}, now)
	if !ok {
		t.Fatal("expected article to survive")
	}
	if got.Title != UntitledArticle {
		t.Errorf("title = %q, want %q", got.Title, UntitledArticle)
	}
	if got.Author != UnknownAuthor {
		t.Errorf("author = %q, want %q", got.Author, UnknownAuthor)
	}
	if got.Source.Name != DefaultSource {
		t.Errorf("source name = %q, want %q", got.Source.Name, DefaultSource)
	}
	if got.PublishedAt != "2025-03-01T12:00:00Z" {
		t.Errorf("publishedAt = %q", got.PublishedAt)
	}
	if got.Type != TypeNews {
		t.Errorf("type = %q, want news", got.Type)
	}
}

func TestSanitizeKeepsValidFields(t *testing.T) {
	in := Article{
		ID:          "a2",
		Title:       "Kept",
		Author:      "Jane Roe",
		PublishedAt: "2025-01-15T08:30:00Z",
		Source:      Source{ID: "the-verge", Name: "The Verge"},
		Type:        TypeBlog,
	}
	got, ok := Sanitize(in, time.Now())
	if !ok {
		t.Fatal("expected article to survive")
	}
	if got != in {
		t.Errorf("sanitize altered a valid article: %+v", got)
	}
}

func TestSanitizeAllPreservesOrder(t *testing.T) {
	in := []Article{
		{ID: "x", Author: "A"},
		{Author: "dropped"},
		{ID: "y", Author: "B"},
	}
	got := SanitizeAll(in, time.Now())
	if len(got) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(got))
	}
	if got[0].ID != "x" || got[1].ID != "y" {
		t.Errorf("order not preserved: %q, %q", got[0].ID, got[1].ID)
	}
}

func TestPublishedTime(t *testing.T) {
	tests := []struct {
		published string
		ok        bool
	}{
		{"2025-06-01T10:00:00Z", true},
		{"2025-06-01T10:00:00+02:00", true},
		{"not-a-date", false},
		{"", false},
	}
	for _, tt := range tests {
		_, ok := Article{PublishedAt: tt.published}.PublishedTime()
		if ok != tt.ok {
			t.Errorf("PublishedTime(%q) ok = %v, want %v", tt.published, ok, tt.ok)
		}
	}
}

func TestRateFor(t *testing.T) {
	r := PayoutRate{NewsRate: 50, BlogRate: 100}
	if r.For(TypeNews) != 50 {
		t.Errorf("news rate = %v, want 50", r.For(TypeNews))
	}
	if r.For(TypeBlog) != 100 {
		t.Errorf("blog rate = %v, want 100", r.For(TypeBlog))
	}
}
