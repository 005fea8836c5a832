package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Danishh07/paydesk/internal/filter"
	"github.com/Danishh07/paydesk/internal/model"
	"github.com/Danishh07/paydesk/internal/payout"
	"github.com/Danishh07/paydesk/internal/source"
)

// handleNews is the mediated endpoint: it aggregates the upstream
// provider and the configured RSS feeds server-side and hands clients a
// mixed, sanitized set. It degrades through cache and sample data, so a
// 200 with articles is the overwhelmingly common outcome; only a
// request-level problem produces an error body.
func (s *Server) handleNews(c *gin.Context) {
	want := c.DefaultQuery("type", "mixed")
	if want != "mixed" && want != "news" && want != "blog" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "invalid type",
			"details": "type must be one of mixed, news, blog",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	articles := s.gatherUpstream(ctx)
	if len(articles) > 0 {
		s.hub.Broadcast(Event{Kind: "articles"})
	} else if cached, err := s.db.Articles(); err == nil && len(cached) > 0 {
		articles = cached
	}
	if len(articles) == 0 {
		articles, _ = s.sample.Fetch(ctx)
	}
	articles = model.SanitizeAll(articles, time.Now())

	if want != "mixed" {
		f := model.DefaultFilter()
		f.Type = model.FilterType(want)
		articles = filter.Apply(articles, f)
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "articles": articles})
}

// gatherUpstream combines direct provider results with the enabled RSS
// feeds. Either side may fail; whatever arrives is used.
func (s *Server) gatherUpstream(ctx context.Context) []model.Article {
	s.mu.Lock()
	feeds := s.cfg.EnabledFeeds()
	s.mu.Unlock()

	var articles []model.Article
	if s.provider != nil {
		got, err := s.provider.Fetch(ctx)
		if err != nil {
			log.Printf("provider fetch: %v", err)
		} else {
			articles = append(articles, got...)
		}
	}

	if len(feeds) > 0 {
		got, errs := source.FetchAllFeeds(ctx, feeds)
		for _, err := range errs {
			log.Printf("feed fetch: %v", err)
		}
		articles = append(articles, got...)
	}
	return articles
}

// handleArticles serves the dashboard's filtered article view, backed
// by the full acquisition chain.
func (s *Server) handleArticles(c *gin.Context) {
	want := c.DefaultQuery("type", "all")
	if want != "all" && want != "news" && want != "blog" {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "invalid type",
			"details": "type must be one of all, news, blog",
		})
		return
	}

	articles := s.currentArticles(c.Request.Context())
	if articles == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "error",
			"message": "acquisition interrupted",
		})
		return
	}

	f := model.FilterState{
		Author:      c.Query("author"),
		DateFrom:    c.Query("from"),
		DateTo:      c.Query("to"),
		Type:        model.FilterType(want),
		SearchQuery: c.Query("q"),
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "articles": filter.Apply(articles, f)})
}

// handlePayouts returns the current aggregates, computing them from a
// fresh acquisition when the session has none yet.
func (s *Server) handlePayouts(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap.State == payout.StateEmpty {
		articles := s.currentArticles(c.Request.Context())
		if articles == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "error",
				"message": "acquisition interrupted",
			})
			return
		}
		s.snap = s.snap.WithArticles(articles, s.snap.Rates)
		if err := s.db.ReplacePayouts(s.snap.Payouts); err != nil {
			log.Printf("persisting payouts: %v", err)
		}
		s.hub.Broadcast(Event{Kind: "payouts"})
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"state":   s.snap.State.String(),
		"rates":   s.snap.Rates,
		"payouts": s.snap.Payouts,
		"total":   payout.Total(s.snap.Payouts),
	})
}

func (s *Server) handleGetRates(c *gin.Context) {
	s.mu.Lock()
	rates := s.snap.Rates
	s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "rates": rates})
}

// handlePutRates updates the rate singleton. Admin-gated by middleware;
// negative rates are rejected here, at the configuration boundary.
func (s *Server) handlePutRates(c *gin.Context) {
	var rates model.PayoutRate
	if err := c.ShouldBindJSON(&rates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "invalid rates payload",
			"details": err.Error(),
		})
		return
	}
	if !rates.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "rates must be non-negative",
		})
		return
	}

	s.mu.Lock()
	s.applyRatesLocked(rates, true)
	snap := s.snap
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"rates":   snap.Rates,
		"state":   snap.State.String(),
		"payouts": snap.Payouts,
	})
}

func (s *Server) handleEvents(c *gin.Context) {
	s.hub.ServeWS(c.Writer, c.Request)
}
