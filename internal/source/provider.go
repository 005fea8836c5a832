package source

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Danishh07/paydesk/internal/model"
)

// Provider talks to the upstream content API directly. Two topical
// queries run in parallel, one per article type; either side may fail
// as long as the other delivers. Concatenation order is fixed (news
// results before blog results) so repeated fetches agree on author
// ordering.
type Provider struct {
	BaseURL   string
	APIKey    string
	NewsQuery string
	BlogQuery string
	PageSize  int
	Client    *http.Client
}

func NewProvider(baseURL, apiKey string) *Provider {
	return &Provider{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		NewsQuery: "technology",
		BlogQuery: "programming blog",
		PageSize:  20,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *Provider) Name() string { return "provider" }

func (p *Provider) Fetch(ctx context.Context) ([]model.Article, error) {
	if p.APIKey == "" {
		return nil, fmt.Errorf("no provider API key configured")
	}

	branches := []struct {
		query string
		typ   model.ArticleType
	}{
		{p.NewsQuery, model.TypeNews},
		{p.BlogQuery, model.TypeBlog},
	}

	results := make([][]model.Article, len(branches))
	errs := make([]error, len(branches))

	var wg sync.WaitGroup
	for i, b := range branches {
		wg.Add(1)
		go func(i int, query string, typ model.ArticleType) {
			defer wg.Done()
			results[i], errs[i] = p.runQuery(ctx, query, typ)
		}(i, b.query, b.typ)
	}
	wg.Wait()

	var articles []model.Article
	failed := 0
	for i := range branches {
		if errs[i] != nil {
			failed++
			continue
		}
		articles = append(articles, results[i]...)
	}
	if failed == len(branches) {
		return nil, fmt.Errorf("all provider queries failed: %v", errs)
	}
	return articles, nil
}

// providerArticle mirrors the upstream response item. The provider has
// no id or type field; both are assigned during mapping.
type providerArticle struct {
	Source struct {
		ID   *string `json:"id"`
		Name string  `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}

type providerResponse struct {
	Status   string            `json:"status"`
	Message  string            `json:"message"`
	Articles []providerArticle `json:"articles"`
}

func (p *Provider) runQuery(ctx context.Context, query string, typ model.ArticleType) ([]model.Article, error) {
	u := fmt.Sprintf("%s/v2/everything?q=%s&pageSize=%d&sortBy=publishedAt&apiKey=%s",
		p.BaseURL, url.QueryEscape(query), p.PageSize, p.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying provider for %q: %w", query, err)
	}
	defer resp.Body.Close()

	var body providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding provider response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || body.Status != "ok" {
		return nil, fmt.Errorf("provider status %d/%q: %s", resp.StatusCode, body.Status, body.Message)
	}

	articles := make([]model.Article, 0, len(body.Articles))
	for _, raw := range body.Articles {
		articles = append(articles, mapProviderArticle(raw, typ))
	}
	return articles, nil
}

// mapProviderArticle converts an upstream item into the dashboard shape.
// Field defaults are left to the sanitize boundary; only the id needs
// assigning here since the provider has none.
func mapProviderArticle(raw providerArticle, typ model.ArticleType) model.Article {
	a := model.Article{
		Title:       raw.Title,
		Description: raw.Description,
		Content:     raw.Content,
		Author:      raw.Author,
		PublishedAt: raw.PublishedAt,
		URL:         raw.URL,
		URLToImage:  raw.URLToImage,
		Type:        typ,
	}
	if raw.Source.ID != nil {
		a.Source.ID = *raw.Source.ID
	}
	a.Source.Name = raw.Source.Name
	a.ID = articleID(raw.URL)
	return a
}

// articleID derives a stable id from the article URL so the same story
// keeps its identity across fetches. Items without a URL get a random id.
func articleID(link string) string {
	if link == "" {
		return uuid.NewString()
	}
	h := sha256.Sum256([]byte(link))
	return fmt.Sprintf("%x", h[:16])
}
