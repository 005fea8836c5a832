package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Danishh07/paydesk/internal/config"
	"github.com/Danishh07/paydesk/internal/netprobe"
	"github.com/Danishh07/paydesk/internal/server"
	"github.com/Danishh07/paydesk/internal/source"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard and mediated news API",
	Long: `Start the HTTP server hosting the dashboard JSON API: the mediated
/api/news endpoint, articles, payouts, rates and the websocket event
stream. Config changes are picked up without a restart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		db, err := openCache()
		if err != nil {
			return err
		}
		defer db.Close()

		provider := source.NewProvider(cfg.Provider.BaseURL, cfg.APIKey())
		if cfg.Provider.NewsQuery != "" {
			provider.NewsQuery = cfg.Provider.NewsQuery
		}
		if cfg.Provider.BlogQuery != "" {
			provider.BlogQuery = cfg.Provider.BlogQuery
		}

		// The serve process is the mediator, so its own chain skips the
		// mediated tier and goes straight to the provider.
		chain := source.New(db, netprobe.NewDialProbe(), nil, provider)

		srv, err := server.New(cfg, db, chain, provider)
		if err != nil {
			return fmt.Errorf("building server: %w", err)
		}

		stop := make(chan struct{})
		defer close(stop)
		cfgPath := flagConfig
		if cfgPath == "" {
			cfgPath = config.DefaultConfigPath()
		}
		if err := config.Watch(cfgPath, srv.Reload, stop); err != nil {
			fmt.Printf("  [warn] config watch disabled: %v\n", err)
		}

		addr := cfg.Server.Addr
		if flagAddr != "" {
			addr = flagAddr
		}
		if addr == "" {
			addr = ":8090"
		}

		fmt.Printf("paydesk dashboard listening on %s\n", addr)
		return srv.Run(addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides config)")
}
