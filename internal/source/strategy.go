// Package source acquires the article collection the dashboard runs on.
// Strategies are tried in a fixed order until one yields usable data;
// the last strategy fabricates data, so acquisition cannot come back
// empty-handed.
package source

import (
	"context"

	"github.com/Danishh07/paydesk/internal/model"
)

// Strategy is one way of obtaining an article collection. A strategy
// either returns articles or an error describing why it should be
// skipped; returning an empty collection also demotes to the next
// strategy.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context) ([]model.Article, error)
}
