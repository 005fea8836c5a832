package cmd

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Danishh07/paydesk/internal/model"
)

var openCmd = &cobra.Command{
	Use:   "open <n|id>",
	Short: "Open a cached article in the browser",
	Long: `Open the URL of a cached article in the default browser.

The argument is either the 1-based position shown by "paydesk fetch"
or a prefix of the article ID.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openCache()
		if err != nil {
			return err
		}
		defer db.Close()

		articles, err := db.Articles()
		if err != nil {
			return fmt.Errorf("reading cache: %w", err)
		}
		if len(articles) == 0 {
			return fmt.Errorf("cache is empty, run \"paydesk fetch\" first")
		}

		a, err := findArticle(articles, args[0])
		if err != nil {
			return err
		}
		if a.URL == "" {
			return fmt.Errorf("article %q has no URL", a.Title)
		}

		fmt.Printf("Opening %s\n", a.URL)
		return openURL(a.URL)
	},
}

func findArticle(articles []model.Article, key string) (model.Article, error) {
	if n, err := strconv.Atoi(key); err == nil {
		if n < 1 || n > len(articles) {
			return model.Article{}, fmt.Errorf("position %d out of range (1-%d)", n, len(articles))
		}
		return articles[n-1], nil
	}
	for _, a := range articles {
		if strings.HasPrefix(a.ID, key) {
			return a, nil
		}
	}
	return model.Article{}, fmt.Errorf("no cached article matches %q", key)
}

func openURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open URL with scheme %q (only http/https allowed)", u.Scheme)
	}

	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", rawURL).Start()
	case "windows":
		// rundll32 avoids shell interpretation of the URL
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL).Start()
	default:
		return exec.Command("xdg-open", rawURL).Start()
	}
}
