package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Danishh07/paydesk/internal/model"
	"github.com/Danishh07/paydesk/internal/payout"
	"github.com/Danishh07/paydesk/internal/source"
)

var flagPayoutDetail bool

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorDim     = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorGreen   = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}

	payoutHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	payoutAuthorStyle = lipgloss.NewStyle().Bold(true)
	payoutTotalStyle  = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	payoutLineStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

var payoutCmd = &cobra.Command{
	Use:   "payout",
	Short: "Compute and display per-author payouts",
	Long: `Acquire the current article collection, apply the payout rate table and
print the per-author breakdown. Persisted aggregates are reused and
rescaled when only the rates changed since the last run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, chain, err := openAll()
		if err != nil {
			return err
		}
		defer db.Close()

		rates, err := effectiveRates(cfg, db)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		res, ok := chain.Acquire(ctx)
		if !ok {
			return fmt.Errorf("acquisition interrupted")
		}

		stored, err := db.Payouts()
		if err != nil {
			return err
		}

		snap := payoutSnapshot(res, stored, rates)
		if err := db.ReplacePayouts(snap.Payouts); err != nil {
			fmt.Printf("  [warn] persisting payouts: %v\n", err)
		}

		fmt.Printf("%d article(s) via %s, rates: news %.2f / blog %.2f\n\n",
			len(res.Articles), res.From, rates.NewsRate, rates.BlogRate)
		printPayouts(snap.Payouts)
		return nil
	},
}

func init() {
	payoutCmd.Flags().BoolVar(&flagPayoutDetail, "detail", false, "show per-article line items")
}

// payoutSnapshot picks the cheap path: when the acquisition served the
// cached collection, the persisted aggregates already describe it and a
// rate change reduces to a rescale. Fresh collections get a full
// recompute.
func payoutSnapshot(res source.Result, stored []model.AuthorPayout, rates model.PayoutRate) payout.Snapshot {
	if res.From == "cache" && len(stored) > 0 {
		return payout.Restore(stored, rates).WithRates(rates)
	}
	return payout.Snapshot{}.WithArticles(res.Articles, rates)
}

func printPayouts(payouts []model.AuthorPayout) {
	fmt.Println(payoutHeaderStyle.Render(fmt.Sprintf("%-30s %10s %12s", "AUTHOR", "ARTICLES", "PAYOUT")))
	for _, p := range payouts {
		fmt.Printf("%s %10d %s\n",
			payoutAuthorStyle.Render(fmt.Sprintf("%-30s", clip(p.Author, 30))),
			p.ArticleCount,
			payoutTotalStyle.Render(fmt.Sprintf("%12.2f", p.TotalPayout)))
		if flagPayoutDetail {
			for _, l := range p.Articles {
				fmt.Println(payoutLineStyle.Render(
					fmt.Sprintf("    %-6s %8.2f  %s", l.Type, l.Rate, clip(l.Title, 60))))
			}
		}
	}
	fmt.Printf("\n%s %s\n",
		payoutHeaderStyle.Render("TOTAL"),
		payoutTotalStyle.Render(fmt.Sprintf("%.2f", payout.Total(payouts))))
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n-1])) + "…"
}
