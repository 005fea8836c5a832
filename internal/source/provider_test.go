package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Danishh07/paydesk/internal/model"
)

func providerArticleJSON(title string) string {
	return `{"source":{"id":null,"name":""},"author":null,"title":"` + title + `",
		"description":"d","url":"https://example.com/` + strings.ReplaceAll(title, " ", "-") + `",
		"publishedAt":"2025-05-01T00:00:00Z","content":"c"}`
}

func TestProviderFetchBothBranches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apiKey") == "" {
			t.Error("missing apiKey param")
		}
		q := r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(q, "technology") {
			w.Write([]byte(`{"status":"ok","articles":[` + providerArticleJSON("news one") + `,` + providerArticleJSON("news two") + `]}`))
		} else {
			w.Write([]byte(`{"status":"ok","articles":[` + providerArticleJSON("blog one") + `]}`))
		}
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, "test-key")
	got, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(got))
	}
	// News branch results come first regardless of completion order.
	if got[0].Type != model.TypeNews || got[1].Type != model.TypeNews || got[2].Type != model.TypeBlog {
		t.Errorf("types = [%s %s %s], want [news news blog]", got[0].Type, got[1].Type, got[2].Type)
	}
}

func TestProviderBranchOrderStable(t *testing.T) {
	// Delay the news branch so the blog branch finishes first; the
	// concatenation order must not change.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if strings.Contains(q, "technology") {
			time.Sleep(50 * time.Millisecond)
			w.Write([]byte(`{"status":"ok","articles":[` + providerArticleJSON("slow news") + `]}`))
			return
		}
		w.Write([]byte(`{"status":"ok","articles":[` + providerArticleJSON("fast blog") + `]}`))
	}))
	defer srv.Close()

	got, err := NewProvider(srv.URL, "test-key").Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 2 || got[0].Type != model.TypeNews {
		t.Errorf("expected news result first, got %+v", got)
	}
}

func TestProviderPartialFailureTolerated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Query().Get("q"), "technology") {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"status":"error","message":"rate limited"}`))
			return
		}
		w.Write([]byte(`{"status":"ok","articles":[` + providerArticleJSON("surviving blog") + `]}`))
	}))
	defer srv.Close()

	got, err := NewProvider(srv.URL, "test-key").Fetch(context.Background())
	if err != nil {
		t.Fatalf("partial failure should not be an error: %v", err)
	}
	if len(got) != 1 || got[0].Type != model.TypeBlog {
		t.Errorf("expected the surviving branch only, got %+v", got)
	}
}

func TestProviderTotalFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":"error","message":"bad key"}`))
	}))
	defer srv.Close()

	if _, err := NewProvider(srv.URL, "test-key").Fetch(context.Background()); err == nil {
		t.Error("expected error when both branches fail")
	}
}

func TestProviderRequiresAPIKey(t *testing.T) {
	if _, err := NewProvider("http://unused", "").Fetch(context.Background()); err == nil {
		t.Error("expected error without an API key")
	}
}

func TestMapProviderArticle(t *testing.T) {
	raw := providerArticle{}
	raw.Title = "Mapped"
	raw.URL = "https://example.com/mapped"
	raw.Source.Name = "The Verge"

	a := mapProviderArticle(raw, model.TypeBlog)
	if a.ID == "" {
		t.Error("expected derived id")
	}
	if a.Type != model.TypeBlog {
		t.Errorf("type = %q", a.Type)
	}
	if a.Source.Name != "The Verge" {
		t.Errorf("source = %q", a.Source.Name)
	}

	// Same URL, same identity across fetches.
	if b := mapProviderArticle(raw, model.TypeBlog); b.ID != a.ID {
		t.Error("id not stable for the same URL")
	}
}

func TestArticleIDWithoutURL(t *testing.T) {
	if articleID("") == articleID("") {
		t.Error("items without a URL should get distinct random ids")
	}
}
