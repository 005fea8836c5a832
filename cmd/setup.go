package cmd

import (
	"fmt"

	"github.com/Danishh07/paydesk/internal/cache"
	"github.com/Danishh07/paydesk/internal/config"
	"github.com/Danishh07/paydesk/internal/model"
	"github.com/Danishh07/paydesk/internal/netprobe"
	"github.com/Danishh07/paydesk/internal/source"
)

func openCache() (*cache.Cache, error) {
	db, err := cache.Open(config.CachePath())
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return db, nil
}

// openAll loads the config, opens the cache and assembles the
// acquisition chain, the shared preamble of most commands.
func openAll() (*config.Config, *cache.Cache, *source.Chain, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	db, err := openCache()
	if err != nil {
		return nil, nil, nil, err
	}

	var mediated *source.Mediated
	if cfg.Server.MediatedURL != "" {
		mediated = source.NewMediated(cfg.Server.MediatedURL)
	}
	provider := source.NewProvider(cfg.Provider.BaseURL, cfg.APIKey())
	if cfg.Provider.NewsQuery != "" {
		provider.NewsQuery = cfg.Provider.NewsQuery
	}
	if cfg.Provider.BlogQuery != "" {
		provider.BlogQuery = cfg.Provider.BlogQuery
	}

	chain := source.New(db, netprobe.NewDialProbe(), mediated, provider)
	return cfg, db, chain, nil
}

// effectiveRates prefers admin-persisted rates over config defaults.
func effectiveRates(cfg *config.Config, db *cache.Cache) (model.PayoutRate, error) {
	if stored, ok, err := db.Rates(); err != nil {
		return model.PayoutRate{}, err
	} else if ok {
		return stored, nil
	}
	return cfg.Rates, nil
}
