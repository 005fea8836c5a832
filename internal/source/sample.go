package source

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/Danishh07/paydesk/internal/model"
)

// Sample fabricates a renderable article collection when every real
// source is exhausted. It does no I/O and cannot fail, which is what
// makes it a safe end of the chain.
type Sample struct {
	Count int
	rng   *rand.Rand
	now   func() time.Time
}

func NewSample() *Sample {
	return &Sample{
		Count: 12,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
	}
}

var (
	sampleAuthors = []string{
		"Sarah Mitchell", "James Okafor", "Priya Nair",
		"Daniel Reyes", "Emma Lindqvist", "Tom Becker",
	}
	sampleTopics = []string{
		"AI chips reshape the data center",
		"The quiet rise of local-first software",
		"What WebAssembly means for backend teams",
		"Streaming databases go mainstream",
		"Inside the latest browser engine rewrite",
		"Why startups are rethinking microservices",
		"Open source funding, revisited",
		"The state of passwordless authentication",
		"Edge computing beyond the hype",
		"Postgres tricks nobody taught you",
		"Observability on a shoestring budget",
		"A field guide to feature flags",
	}
	sampleSources = []string{"TechWire", "Daily Stack", "The Build Log"}
)

func (s *Sample) Name() string { return "sample" }

func (s *Sample) Fetch(ctx context.Context) ([]model.Article, error) {
	now := s.now()
	articles := make([]model.Article, 0, s.Count)

	for i := 0; i < s.Count; i++ {
		// Two news articles for every blog post.
		typ := model.TypeNews
		if i%3 == 2 {
			typ = model.TypeBlog
		}

		title := sampleTopics[i%len(sampleTopics)]
		author := sampleAuthors[i%len(sampleAuthors)]
		published := now.Add(-time.Duration(s.rng.Intn(30*24)) * time.Hour)

		articles = append(articles, model.Article{
			ID:          uuid.NewString(),
			Title:       title,
			Description: fmt.Sprintf("A closer look: %s.", title),
			Content:     fmt.Sprintf("Placeholder coverage of %q while live sources are unavailable.", title),
			Author:      author,
			PublishedAt: published.UTC().Format(time.RFC3339),
			URL:         fmt.Sprintf("https://example.com/articles/%d", i+1),
			Source:      model.Source{Name: sampleSources[i%len(sampleSources)]},
			Type:        typ,
		})
	}
	return articles, nil
}
