package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Danishh07/paydesk/internal/config"
	"github.com/Danishh07/paydesk/internal/model"
)

var rssBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Dev Blog</title>
  <item>
    <title>Shipping faster with worker pools</title>
    <link>https://example.com/worker-pools</link>
    <description><![CDATA[<p>Some <b>HTML</b> here</p>]]></description>
    <author>jane@example.com (Jane Roe)</author>
    <pubDate>` + time.Now().Add(-2*time.Hour).Format(time.RFC1123Z) + `</pubDate>
  </item>
  <item>
    <title>Ancient history</title>
    <link>https://example.com/old</link>
    <pubDate>Mon, 02 Jan 2006 15:04:05 -0700</pubDate>
  </item>
</channel>
</rss>`

func TestFeedFetcherMapsItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rssBody))
	}))
	defer srv.Close()

	got, err := NewFeedFetcher().Fetch(context.Background(), config.Feed{Name: "Dev Blog", URL: srv.URL})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	// The 2006 item falls outside the window.
	if len(got) != 1 {
		t.Fatalf("expected 1 article, got %d", len(got))
	}

	a := got[0]
	if a.ID == "" {
		t.Error("expected derived id")
	}
	if a.Type != model.TypeBlog {
		t.Errorf("type = %q, want blog", a.Type)
	}
	if a.Source.Name != "Dev Blog" {
		t.Errorf("source = %q", a.Source.Name)
	}
	if a.Description != "Some HTML here" {
		t.Errorf("description = %q, want HTML stripped", a.Description)
	}
	if _, ok := a.PublishedTime(); !ok {
		t.Errorf("publishedAt %q does not parse", a.PublishedAt)
	}
}

func TestFetchAllFeedsPartialFailure(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssBody))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	articles, errs := FetchAllFeeds(context.Background(), []config.Feed{
		{Name: "Good", URL: good.URL},
		{Name: "Bad", URL: bad.URL},
	})
	if len(errs) != 1 {
		t.Errorf("expected 1 failure, got %d", len(errs))
	}
	if len(articles) != 1 {
		t.Errorf("expected the good feed's article, got %d", len(articles))
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"short", 10, "short"},
		{"this is a long string", 10, "this is..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.input, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<p>Hello</p>", "Hello"},
		{"<b>Bold</b> and <i>italic</i>", "Bold and italic"},
		{"No tags here", "No tags here"},
		{"<div>  Multiple   spaces  </div>", "Multiple spaces"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := stripHTML(tt.input); got != tt.want {
			t.Errorf("stripHTML(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
