package source

import (
	"context"
	"fmt"

	"github.com/Danishh07/paydesk/internal/cache"
	"github.com/Danishh07/paydesk/internal/model"
)

// CacheRead serves the most recently persisted collection when the
// network strategies come up empty.
type CacheRead struct {
	DB *cache.Cache
}

func (c *CacheRead) Name() string { return "cache" }

func (c *CacheRead) Fetch(ctx context.Context) ([]model.Article, error) {
	articles, err := c.DB.Articles()
	if err != nil {
		return nil, fmt.Errorf("reading cached articles: %w", err)
	}
	return articles, nil
}
