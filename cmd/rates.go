package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Danishh07/paydesk/internal/model"
	"github.com/Danishh07/paydesk/internal/payout"
)

var ratesCmd = &cobra.Command{
	Use:   "rates",
	Short: "Show the payout rate table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, _, err := openAll()
		if err != nil {
			return err
		}
		defer db.Close()

		rates, err := effectiveRates(cfg, db)
		if err != nil {
			return err
		}
		_, persisted, err := db.Rates()
		if err != nil {
			return err
		}

		origin := "config default"
		if persisted {
			origin = "persisted"
		}
		fmt.Printf("News rate: %.2f\nBlog rate: %.2f\n(%s)\n", rates.NewsRate, rates.BlogRate, origin)
		return nil
	},
}

var ratesSetCmd = &cobra.Command{
	Use:   "set <news-rate> <blog-rate>",
	Short: "Update and persist the payout rate table",
	Long: `Persist a new rate table and rescale any stored aggregates in place.
Counts and author ordering are untouched; only rates and totals change.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		newsRate, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid news rate %q: %w", args[0], err)
		}
		blogRate, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid blog rate %q: %w", args[1], err)
		}
		rates := model.PayoutRate{NewsRate: newsRate, BlogRate: blogRate}
		if !rates.Valid() {
			return fmt.Errorf("rates must be non-negative")
		}

		_, db, _, err := openAll()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.SaveRates(rates); err != nil {
			return err
		}

		// Rescale stored aggregates so the next read reflects the new rates.
		stored, err := db.Payouts()
		if err != nil {
			return err
		}
		if len(stored) > 0 {
			if err := db.ReplacePayouts(payout.Rescale(stored, rates)); err != nil {
				return err
			}
		}

		fmt.Printf("Rates updated: news %.2f, blog %.2f.\n", newsRate, blogRate)
		return nil
	},
}

func init() {
	ratesCmd.AddCommand(ratesSetCmd)
}
