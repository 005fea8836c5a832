package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Danishh07/paydesk/internal/cache"
	"github.com/Danishh07/paydesk/internal/config"
	"github.com/Danishh07/paydesk/internal/model"
	"github.com/Danishh07/paydesk/internal/netprobe"
	"github.com/Danishh07/paydesk/internal/source"
)

func testServer(t *testing.T) (*Server, *cache.Cache) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := cache.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening cache: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// A dead upstream: the mediated and provider strategies fail fast,
	// leaving cache and sample data to serve requests.
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(dead.Close)

	cfg := &config.Config{Rates: model.PayoutRate{NewsRate: 50, BlogRate: 100}}
	provider := source.NewProvider(dead.URL, "")
	chain := source.New(db, netprobe.Static(false), source.NewMediated(dead.URL), provider)

	srv, err := New(cfg, db, chain, provider)
	if err != nil {
		t.Fatalf("building server: %v", err)
	}
	return srv, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	var reqBody *strings.Reader
	if body == "" {
		reqBody = strings.NewReader("")
	} else {
		reqBody = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	out := map[string]json.RawMessage{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("%s %s: invalid JSON body %q", method, path, w.Body.String())
	}
	return w, out
}

func TestNewsEndpointNeverEmpty(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.Router()

	w, body := doJSON(t, router, http.MethodGet, "/api/news", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var status string
	json.Unmarshal(body["status"], &status)
	if status != "ok" {
		t.Errorf("status field = %q", status)
	}

	var articles []model.Article
	json.Unmarshal(body["articles"], &articles)
	if len(articles) == 0 {
		t.Fatal("mediated endpoint served an empty collection")
	}
	for _, a := range articles {
		if a.ID == "" || a.Author == "" {
			t.Errorf("unsanitized article in response: %+v", a)
		}
	}
}

func TestNewsEndpointTypeFilter(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.Router()

	_, body := doJSON(t, router, http.MethodGet, "/api/news?type=blog", "", nil)
	var articles []model.Article
	json.Unmarshal(body["articles"], &articles)
	if len(articles) == 0 {
		t.Fatal("expected blog articles")
	}
	for _, a := range articles {
		if a.Type != model.TypeBlog {
			t.Errorf("type filter leaked a %q article", a.Type)
		}
	}
}

func TestNewsEndpointRejectsBadType(t *testing.T) {
	srv, _ := testServer(t)
	w, _ := doJSON(t, srv.Router(), http.MethodGet, "/api/news?type=podcast", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestArticlesEndpointFiltering(t *testing.T) {
	srv, db := testServer(t)
	// Seed the cache so the chain's cache strategy serves known data.
	seed := []model.Article{
		{ID: "1", Title: "Go release notes", Author: "Alice Chen", PublishedAt: "2025-05-01T00:00:00Z",
			Source: model.Source{Name: "Wired"}, Type: model.TypeNews},
		{ID: "2", Title: "Scaling postgres", Author: "Bob Martinez", PublishedAt: "2025-05-02T00:00:00Z",
			Source: model.Source{Name: "Dev Blog"}, Type: model.TypeBlog},
	}
	if err := db.ReplaceArticles(seed); err != nil {
		t.Fatalf("seeding cache: %v", err)
	}

	_, body := doJSON(t, srv.Router(), http.MethodGet, "/api/articles?author=alice", "", nil)
	var articles []model.Article
	json.Unmarshal(body["articles"], &articles)
	if len(articles) != 1 || articles[0].ID != "1" {
		t.Errorf("filtered articles = %+v", articles)
	}
}

func TestRatesRoundTrip(t *testing.T) {
	srv, db := testServer(t)
	router := srv.Router()

	// Defaults come from config until an admin persists new rates.
	_, body := doJSON(t, router, http.MethodGet, "/api/rates", "", nil)
	var rates model.PayoutRate
	json.Unmarshal(body["rates"], &rates)
	if rates.NewsRate != 50 || rates.BlogRate != 100 {
		t.Errorf("initial rates = %+v", rates)
	}

	w, _ := doJSON(t, router, http.MethodPut, "/api/rates",
		`{"newsRate":10,"blogRate":20}`, map[string]string{"X-User-Role": "admin"})
	if w.Code != http.StatusOK {
		t.Fatalf("put rates status = %d", w.Code)
	}

	stored, ok, err := db.Rates()
	if err != nil || !ok {
		t.Fatalf("rates not persisted: ok=%v err=%v", ok, err)
	}
	if stored.NewsRate != 10 || stored.BlogRate != 20 {
		t.Errorf("persisted rates = %+v", stored)
	}
}

func TestPutRatesRequiresAdminRole(t *testing.T) {
	srv, _ := testServer(t)
	router := srv.Router()

	w, _ := doJSON(t, router, http.MethodPut, "/api/rates", `{"newsRate":1,"blogRate":2}`, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("no role: status = %d, want 403", w.Code)
	}

	w, _ = doJSON(t, router, http.MethodPut, "/api/rates", `{"newsRate":1,"blogRate":2}`,
		map[string]string{"X-User-Role": "user"})
	if w.Code != http.StatusForbidden {
		t.Errorf("user role: status = %d, want 403", w.Code)
	}
}

func TestPutRatesRejectsNegative(t *testing.T) {
	srv, _ := testServer(t)
	w, _ := doJSON(t, srv.Router(), http.MethodPut, "/api/rates",
		`{"newsRate":-5,"blogRate":20}`, map[string]string{"X-User-Role": "admin"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestPayoutsComputedThenRescaled(t *testing.T) {
	srv, db := testServer(t)
	seed := []model.Article{
		{ID: "1", Title: "One", Author: "Alice Chen", PublishedAt: "2025-05-01T00:00:00Z",
			Source: model.Source{Name: "Wired"}, Type: model.TypeNews},
		{ID: "2", Title: "Two", Author: "Bob Martinez", PublishedAt: "2025-05-02T00:00:00Z",
			Source: model.Source{Name: "Dev Blog"}, Type: model.TypeBlog},
		{ID: "3", Title: "Three", Author: "Alice Chen", PublishedAt: "2025-05-03T00:00:00Z",
			Source: model.Source{Name: "Wired"}, Type: model.TypeBlog},
	}
	if err := db.ReplaceArticles(seed); err != nil {
		t.Fatalf("seeding cache: %v", err)
	}
	router := srv.Router()

	_, body := doJSON(t, router, http.MethodGet, "/api/payouts", "", nil)
	var payouts []model.AuthorPayout
	json.Unmarshal(body["payouts"], &payouts)
	if len(payouts) != 2 {
		t.Fatalf("expected 2 authors, got %d", len(payouts))
	}
	if payouts[0].Author != "Alice Chen" || payouts[0].TotalPayout != 150 {
		t.Errorf("alice = %+v", payouts[0])
	}

	// A rate change rescales without touching counts or order.
	doJSON(t, router, http.MethodPut, "/api/rates",
		`{"newsRate":10,"blogRate":20}`, map[string]string{"X-User-Role": "admin"})

	_, body = doJSON(t, router, http.MethodGet, "/api/payouts", "", nil)
	var state string
	json.Unmarshal(body["state"], &state)
	if state != "rescaled" {
		t.Errorf("state = %q, want rescaled", state)
	}
	json.Unmarshal(body["payouts"], &payouts)
	if payouts[0].Author != "Alice Chen" || payouts[0].TotalPayout != 30 || payouts[0].ArticleCount != 2 {
		t.Errorf("rescaled alice = %+v", payouts[0])
	}

	// Aggregates survive in the cache for the next session.
	stored, err := db.Payouts()
	if err != nil || len(stored) != 2 {
		t.Errorf("persisted payouts: %v, %d entries", err, len(stored))
	}
}
