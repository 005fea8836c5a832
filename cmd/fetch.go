package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Acquire articles through the fallback chain",
	Long: `Run the acquisition chain once (mediated endpoint, direct provider,
local cache, sample data) and report which source delivered.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, chain, err := openAll()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		res, ok := chain.Acquire(ctx)
		if !ok {
			return fmt.Errorf("acquisition interrupted")
		}

		fmt.Printf("Acquired %d article(s) via %s.\n", len(res.Articles), res.From)

		// Housekeeping after a successful refresh.
		if _, err := db.Prune(cfg.RetentionDuration()); err != nil {
			fmt.Printf("  [warn] prune: %v\n", err)
		}
		return nil
	},
}
