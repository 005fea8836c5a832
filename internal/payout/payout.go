// Package payout computes per-author payout aggregates from article
// collections and a rate table. Everything here is pure: callers persist
// results and feed back stored aggregates for cheap rate changes.
package payout

import "github.com/Danishh07/paydesk/internal/model"

// Calculate groups articles by exact author string and sums the rate
// applicable to each article's type. Authors appear in the order their
// first article was encountered; line items keep encounter order.
//
// Input must already have passed the sanitize boundary: every article
// has a non-empty author and a type of news or blog.
func Calculate(articles []model.Article, rates model.PayoutRate) []model.AuthorPayout {
	index := make(map[string]int, len(articles))
	payouts := make([]model.AuthorPayout, 0)

	for _, a := range articles {
		rate := rates.For(a.Type)
		line := model.PayoutLine{
			ID:          a.ID,
			Title:       a.Title,
			Type:        a.Type,
			PublishedAt: a.PublishedAt,
			Rate:        rate,
		}

		i, seen := index[a.Author]
		if !seen {
			i = len(payouts)
			index[a.Author] = i
			payouts = append(payouts, model.AuthorPayout{Author: a.Author})
		}

		payouts[i].Articles = append(payouts[i].Articles, line)
		payouts[i].ArticleCount++
		payouts[i].TotalPayout += rate
	}

	return payouts
}

// Rescale re-applies a new rate table to previously computed aggregates
// without the original articles. Each line item's rate is re-resolved
// from its stored type and totals are resummed; the author set, counts
// and ordering are untouched. The input is not mutated.
func Rescale(previous []model.AuthorPayout, rates model.PayoutRate) []model.AuthorPayout {
	out := make([]model.AuthorPayout, len(previous))
	for i, p := range previous {
		lines := make([]model.PayoutLine, len(p.Articles))
		total := 0.0
		for j, line := range p.Articles {
			line.Rate = rates.For(line.Type)
			lines[j] = line
			total += line.Rate
		}
		out[i] = model.AuthorPayout{
			Author:       p.Author,
			ArticleCount: p.ArticleCount,
			TotalPayout:  total,
			Articles:     lines,
		}
	}
	return out
}

// Total sums TotalPayout across all aggregates.
func Total(payouts []model.AuthorPayout) float64 {
	sum := 0.0
	for _, p := range payouts {
		sum += p.TotalPayout
	}
	return sum
}
