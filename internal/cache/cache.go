// Package cache is the persistent local store backing the dashboard:
// the last acquired article collection, the computed payout aggregates
// and the payout rate configuration all survive restarts here.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Danishh07/paydesk/internal/model"
)

type Cache struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	c := &Cache{readDB: readDB, writeDB: writeDB}
	if err := c.init(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Cache) init() error {
	_, err := c.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS articles (
			id           TEXT PRIMARY KEY,
			position     INTEGER NOT NULL,
			title        TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			content      TEXT NOT NULL DEFAULT '',
			author       TEXT NOT NULL,
			published_at TEXT NOT NULL,
			url          TEXT NOT NULL DEFAULT '',
			image_url    TEXT NOT NULL DEFAULT '',
			source_id    TEXT NOT NULL DEFAULT '',
			source_name  TEXT NOT NULL,
			type         TEXT NOT NULL,
			fetched_at   DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_articles_position ON articles(position);
		CREATE INDEX IF NOT EXISTS idx_articles_author ON articles(author);

		CREATE TABLE IF NOT EXISTS payouts (
			author        TEXT PRIMARY KEY,
			position      INTEGER NOT NULL,
			article_count INTEGER NOT NULL,
			total_payout  REAL NOT NULL,
			lines         TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS rates (
			id        TEXT PRIMARY KEY CHECK (id = 'default'),
			news_rate REAL NOT NULL,
			blog_rate REAL NOT NULL
		);

		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (c *Cache) Close() error {
	var errs []error
	if c.readDB != nil {
		errs = append(errs, c.readDB.Close())
	}
	if c.writeDB != nil {
		errs = append(errs, c.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// ReplaceArticles swaps the full cached collection for a new one in a
// single transaction. The stored order is the order of the slice, so a
// later read returns the collection exactly as it was acquired.
func (c *Cache) ReplaceArticles(articles []model.Article) error {
	tx, err := c.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM articles"); err != nil {
		return fmt.Errorf("clearing articles: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO articles (id, position, title, description, content, author,
			published_at, url, image_url, source_id, source_name, type, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for i, a := range articles {
		_, err := stmt.Exec(a.ID, i, a.Title, a.Description, a.Content, a.Author,
			a.PublishedAt, a.URL, a.URLToImage, a.Source.ID, a.Source.Name, string(a.Type), now)
		if err != nil {
			return fmt.Errorf("inserting article %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// Articles returns the cached collection in its original acquisition order.
func (c *Cache) Articles() ([]model.Article, error) {
	rows, err := c.readDB.Query(`
		SELECT id, title, description, content, author, published_at,
			url, image_url, source_id, source_name, type
		FROM articles ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var articles []model.Article
	for rows.Next() {
		var a model.Article
		var typ string
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Content, &a.Author,
			&a.PublishedAt, &a.URL, &a.URLToImage, &a.Source.ID, &a.Source.Name, &typ); err != nil {
			return nil, fmt.Errorf("scanning article: %w", err)
		}
		a.Type = model.ArticleType(typ)
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// ReplacePayouts swaps the persisted aggregates for a new collection,
// all-or-nothing. Line items are stored as JSON alongside the totals.
func (c *Cache) ReplacePayouts(payouts []model.AuthorPayout) error {
	tx, err := c.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM payouts"); err != nil {
		return fmt.Errorf("clearing payouts: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO payouts (author, position, article_count, total_payout, lines)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range payouts {
		lines, err := json.Marshal(p.Articles)
		if err != nil {
			return fmt.Errorf("encoding lines for %s: %w", p.Author, err)
		}
		if _, err := stmt.Exec(p.Author, i, p.ArticleCount, p.TotalPayout, string(lines)); err != nil {
			return fmt.Errorf("inserting payout for %s: %w", p.Author, err)
		}
	}

	return tx.Commit()
}

// Payouts returns the persisted aggregates in their stored order.
func (c *Cache) Payouts() ([]model.AuthorPayout, error) {
	rows, err := c.readDB.Query(`
		SELECT author, article_count, total_payout, lines
		FROM payouts ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying payouts: %w", err)
	}
	defer rows.Close()

	var payouts []model.AuthorPayout
	for rows.Next() {
		var p model.AuthorPayout
		var lines string
		if err := rows.Scan(&p.Author, &p.ArticleCount, &p.TotalPayout, &lines); err != nil {
			return nil, fmt.Errorf("scanning payout: %w", err)
		}
		if err := json.Unmarshal([]byte(lines), &p.Articles); err != nil {
			return nil, fmt.Errorf("decoding lines for %s: %w", p.Author, err)
		}
		payouts = append(payouts, p)
	}
	return payouts, rows.Err()
}

// SaveRates upserts the rate singleton.
func (c *Cache) SaveRates(r model.PayoutRate) error {
	_, err := c.writeDB.Exec(`
		INSERT INTO rates (id, news_rate, blog_rate) VALUES ('default', ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			news_rate = excluded.news_rate,
			blog_rate = excluded.blog_rate
	`, r.NewsRate, r.BlogRate)
	if err != nil {
		return fmt.Errorf("saving rates: %w", err)
	}
	return nil
}

// Rates returns the persisted rate table. The boolean is false when no
// rates have been saved yet.
func (c *Cache) Rates() (model.PayoutRate, bool, error) {
	var r model.PayoutRate
	err := c.readDB.QueryRow("SELECT news_rate, blog_rate FROM rates WHERE id = 'default'").
		Scan(&r.NewsRate, &r.BlogRate)
	if err == sql.ErrNoRows {
		return model.PayoutRate{}, false, nil
	}
	if err != nil {
		return model.PayoutRate{}, false, fmt.Errorf("reading rates: %w", err)
	}
	return r, true, nil
}

func (c *Cache) NeedsRefresh(interval time.Duration) bool {
	var value string
	err := c.readDB.QueryRow("SELECT value FROM meta WHERE key = 'last_refresh'").Scan(&value)
	if err != nil {
		return true
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return true
	}
	return time.Since(t) > interval
}

func (c *Cache) SetLastRefresh() error {
	return c.setMeta("last_refresh", time.Now().Format(time.RFC3339))
}

func (c *Cache) setMeta(key, value string) error {
	_, err := c.writeDB.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// Prune deletes cached articles fetched longer ago than the retention
// period and reports how many were removed.
func (c *Cache) Prune(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	res, err := c.writeDB.Exec("DELETE FROM articles WHERE fetched_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning articles: %w", err)
	}
	return res.RowsAffected()
}

// Stats reports the cached article count and the database file size.
func (c *Cache) Stats(dbPath string) (count int64, size int64, err error) {
	if err := c.readDB.QueryRow("SELECT COUNT(*) FROM articles").Scan(&count); err != nil {
		return 0, 0, fmt.Errorf("counting articles: %w", err)
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return 0, 0, fmt.Errorf("reading db file: %w", err)
	}
	return count, info.Size(), nil
}
