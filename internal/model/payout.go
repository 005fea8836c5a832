package model

// PayoutRate is the per-article rate table, persisted as a singleton
// record and editable by admins through the dashboard API.
type PayoutRate struct {
	NewsRate float64 `json:"newsRate" yaml:"news_rate"`
	BlogRate float64 `json:"blogRate" yaml:"blog_rate"`
}

// For resolves the rate applicable to an article type.
func (r PayoutRate) For(t ArticleType) float64 {
	if t == TypeBlog {
		return r.BlogRate
	}
	return r.NewsRate
}

// Valid reports whether both rates are non-negative.
func (r PayoutRate) Valid() bool {
	return r.NewsRate >= 0 && r.BlogRate >= 0
}

// PayoutLine is one article's contribution to an author's payout. Enough
// of the article is carried here that a rate change can be re-applied
// without the original articles in scope.
type PayoutLine struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Type        ArticleType `json:"type"`
	PublishedAt string      `json:"publishedAt"`
	Rate        float64     `json:"rate"`
}

// AuthorPayout aggregates one author's articles under a rate table.
// Line items keep the order the articles were encountered in.
type AuthorPayout struct {
	Author       string       `json:"author"`
	ArticleCount int          `json:"articleCount"`
	TotalPayout  float64      `json:"totalPayout"`
	Articles     []PayoutLine `json:"articles"`
}
