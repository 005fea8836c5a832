package source

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Danishh07/paydesk/internal/cache"
	"github.com/Danishh07/paydesk/internal/model"
	"github.com/Danishh07/paydesk/internal/netprobe"
)

// entry pairs a strategy with whether it reaches the network. Network
// strategies run under the chain deadline and have their winning
// results written back to the cache.
type entry struct {
	Strategy
	networked bool
}

// Chain tries its strategies in order and returns the first non-empty,
// sanitized collection. Overlapping Acquire calls are coalesced so that
// re-entrant dashboard loads cannot trigger duplicate network fetches.
type Chain struct {
	entries    []entry
	db         *cache.Cache
	probe      netprobe.Probe
	netTimeout time.Duration
	group      singleflight.Group
	now        func() time.Time
}

// New assembles the standard four-tier chain: mediated fetch, direct
// provider fetch, cache read, synthetic sample. Either network strategy
// may be nil when unconfigured; the offline tiers are always present.
func New(db *cache.Cache, probe netprobe.Probe, mediated *Mediated, provider *Provider) *Chain {
	entries := make([]entry, 0, 4)
	if mediated != nil {
		entries = append(entries, entry{mediated, true})
	}
	if provider != nil {
		entries = append(entries, entry{provider, true})
	}
	entries = append(entries, entry{&CacheRead{DB: db}, false}, entry{NewSample(), false})

	return &Chain{
		entries:    entries,
		db:         db,
		probe:      probe,
		netTimeout: 10 * time.Second,
		now:        time.Now,
	}
}

// Result is a finished acquisition: the sanitized collection and the
// name of the strategy that produced it.
type Result struct {
	Articles []model.Article
	From     string
}

// Acquire runs the chain. It never fails: the worst case is synthetic
// data. Concurrent callers share one in-flight acquisition; a caller
// whose context is done before the shared flight finishes gets ok=false
// and must not apply the result.
func (c *Chain) Acquire(ctx context.Context) (Result, bool) {
	ch := c.group.DoChan("acquire", func() (interface{}, error) {
		return c.acquire(), nil
	})

	select {
	case <-ctx.Done():
		// The flight keeps running for other callers; this caller's
		// context is gone, so its result is discarded.
		return Result{}, false
	case res := <-ch:
		return res.Val.(Result), true
	}
}

// acquire walks the strategy list. Strategy errors are logged and
// demoted, never propagated: the sample strategy at the end of the list
// does no I/O and always yields, so the loop always returns.
func (c *Chain) acquire() Result {
	for _, e := range c.entries {
		articles, ok := c.try(e)
		if !ok {
			continue
		}
		if e.networked {
			c.persist(articles)
		}
		return Result{Articles: articles, From: e.Name()}
	}
	// Unreachable: the sample strategy cannot fail or come back empty.
	return Result{}
}

func (c *Chain) try(e entry) ([]model.Article, bool) {
	ctx := context.Background()
	if e.networked {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.netTimeout)
		defer cancel()
	}

	articles, err := e.Fetch(ctx)
	if err != nil {
		log.Printf("source %s: %v", e.Name(), err)
		return nil, false
	}

	clean := model.SanitizeAll(articles, c.now())
	if len(clean) == 0 {
		return nil, false
	}
	return clean, true
}

// persist writes a fresh network result back to the cache, best-effort.
// A failed write never fails the acquisition that produced the data.
func (c *Chain) persist(articles []model.Article) {
	if c.db == nil {
		return
	}
	if c.probe != nil && !c.probe.Online(context.Background()) {
		return
	}
	if err := c.db.ReplaceArticles(articles); err != nil {
		log.Printf("caching articles: %v", err)
		return
	}
	if err := c.db.SetLastRefresh(); err != nil {
		log.Printf("recording refresh time: %v", err)
	}
}
