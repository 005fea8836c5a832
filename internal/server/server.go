// Package server exposes the dashboard JSON API and the mediated news
// endpoint that keeps provider credentials off browser clients.
package server

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/Danishh07/paydesk/internal/cache"
	"github.com/Danishh07/paydesk/internal/config"
	"github.com/Danishh07/paydesk/internal/model"
	"github.com/Danishh07/paydesk/internal/payout"
	"github.com/Danishh07/paydesk/internal/source"
)

type Server struct {
	mu    sync.Mutex
	cfg   *config.Config
	db    *cache.Cache
	chain *source.Chain

	// provider is also held directly for the mediated endpoint, which
	// queries upstream itself rather than recursing into the chain.
	provider *source.Provider
	sample   *source.Sample
	snap     payout.Snapshot
	hub      *Hub
}

// New wires the server against the cache and acquisition chain. Rates
// and aggregates persisted in a previous session are restored before
// any recomputation happens.
func New(cfg *config.Config, db *cache.Cache, chain *source.Chain, provider *source.Provider) (*Server, error) {
	rates := cfg.Rates
	if stored, ok, err := db.Rates(); err != nil {
		return nil, err
	} else if ok {
		rates = stored
	}

	stored, err := db.Payouts()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		db:       db,
		chain:    chain,
		provider: provider,
		sample:   source.NewSample(),
		snap:     payout.Restore(stored, rates),
		hub:      NewHub(),
	}
	go s.hub.Run()
	return s, nil
}

// Router builds the gin engine with all API routes mounted.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")
	{
		api.GET("/news", s.handleNews)
		api.GET("/articles", s.handleArticles)
		api.GET("/payouts", s.handlePayouts)
		api.GET("/rates", s.handleGetRates)
		api.PUT("/rates", requireRole("admin"), s.handlePutRates)
		api.GET("/events", s.handleEvents)
	}

	return r
}

func (s *Server) Run(addr string) error {
	return s.Router().Run(addr)
}

// Reload swaps in a fresh config (from the fsnotify watcher). A changed
// rate table takes the cheap rescale path unless an admin has already
// persisted rates, which take precedence over config.
func (s *Server) Reload(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()

	oldRates := s.cfg.Rates
	s.cfg = cfg

	if _, ok, _ := s.db.Rates(); ok {
		return
	}
	if cfg.Rates == oldRates {
		return
	}
	// Config-sourced rates are not written to the rates store, so a
	// later admin PUT still wins and later config edits still apply.
	s.applyRatesLocked(cfg.Rates, false)
}

// applyRatesLocked runs the rates transition and issues the follow-up
// persistence commands. Callers hold s.mu.
func (s *Server) applyRatesLocked(rates model.PayoutRate, persist bool) {
	s.snap = s.snap.WithRates(rates)
	if persist {
		if err := s.db.SaveRates(rates); err != nil {
			log.Printf("persisting rates: %v", err)
		}
	}
	if s.snap.State != payout.StateEmpty {
		if err := s.db.ReplacePayouts(s.snap.Payouts); err != nil {
			log.Printf("persisting payouts: %v", err)
		}
	}
	s.hub.Broadcast(Event{Kind: "rates"})
	s.hub.Broadcast(Event{Kind: "payouts"})
}

// currentArticles acquires the working collection through the chain.
func (s *Server) currentArticles(ctx context.Context) []model.Article {
	res, ok := s.chain.Acquire(ctx)
	if !ok {
		return nil
	}
	return res.Articles
}

// requireRole trusts the role claim header attached by the identity
// layer in front of this service; it only checks the claim's value.
func requireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-User-Role") != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status":  "error",
				"message": "admin role required",
			})
			return
		}
		c.Next()
	}
}
