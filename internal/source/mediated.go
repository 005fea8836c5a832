package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Danishh07/paydesk/internal/model"
)

// Mediated fetches a mixed article set through the trusted intermediary
// endpoint, which holds the provider credentials so clients never do.
type Mediated struct {
	BaseURL string
	Client  *http.Client
}

func NewMediated(baseURL string) *Mediated {
	return &Mediated{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (m *Mediated) Name() string { return "mediated" }

type mediatedResponse struct {
	Status   string          `json:"status"`
	Articles []model.Article `json:"articles"`
	Message  string          `json:"message"`
}

func (m *Mediated) Fetch(ctx context.Context) ([]model.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.BaseURL+"/api/news?type=mixed", nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting mediated feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mediated feed returned %d", resp.StatusCode)
	}

	var body mediatedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding mediated response: %w", err)
	}
	// Shape violations demote to the next strategy like transport errors.
	if body.Status != "ok" {
		return nil, fmt.Errorf("mediated feed status %q: %s", body.Status, body.Message)
	}
	if body.Articles == nil {
		return nil, fmt.Errorf("mediated response missing articles")
	}
	return body.Articles, nil
}
