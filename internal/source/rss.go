package source

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/Danishh07/paydesk/internal/config"
	"github.com/Danishh07/paydesk/internal/model"
)

// FeedFetcher pulls configured RSS/Atom feeds and maps their items into
// the dashboard article shape. The mediator server mixes these into its
// responses alongside provider results; feed items count as blog
// content for payout purposes.
type FeedFetcher struct {
	parser *gofeed.Parser
	maxAge time.Duration
}

func NewFeedFetcher() *FeedFetcher {
	return &FeedFetcher{parser: gofeed.NewParser(), maxAge: 30 * 24 * time.Hour}
}

func (f *FeedFetcher) Fetch(ctx context.Context, feed config.Feed) ([]model.Article, error) {
	parsed, err := f.parser.ParseURLWithContext(feed.URL, ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	oldest := now.Add(-f.maxAge)
	articles := make([]model.Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		pub := now
		if item.PublishedParsed != nil {
			pub = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			pub = *item.UpdatedParsed
		}
		if pub.Before(oldest) {
			continue
		}

		desc := item.Description
		if desc == "" {
			desc = item.Content
		}
		desc = truncate(stripHTML(desc), 300)

		author := ""
		if len(item.Authors) > 0 {
			author = item.Authors[0].Name
		}

		articles = append(articles, model.Article{
			ID:          articleID(item.Link),
			Title:       item.Title,
			Description: desc,
			Content:     truncate(stripHTML(item.Content), 2000),
			Author:      author,
			PublishedAt: pub.UTC().Format(time.RFC3339),
			URL:         item.Link,
			Source:      model.Source{Name: feed.Name},
			Type:        model.TypeBlog,
		})
	}
	return articles, nil
}

// FetchAllFeeds pulls every feed concurrently. Partial failures are
// collected, not fatal; result order follows the feed list so repeated
// runs agree.
func FetchAllFeeds(ctx context.Context, feeds []config.Feed) ([]model.Article, []error) {
	fetcher := NewFeedFetcher()

	results := make([][]model.Article, len(feeds))
	errs := make([]error, len(feeds))

	var wg sync.WaitGroup
	for i, feed := range feeds {
		wg.Add(1)
		go func(i int, feed config.Feed) {
			defer wg.Done()
			results[i], errs[i] = fetcher.Fetch(ctx, feed)
		}(i, feed)
	}
	wg.Wait()

	var articles []model.Article
	var failures []error
	for i := range feeds {
		if errs[i] != nil {
			failures = append(failures, errs[i])
			continue
		}
		articles = append(articles, results[i]...)
	}
	return articles, failures
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
