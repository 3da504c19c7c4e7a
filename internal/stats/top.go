package stats

import (
	"sort"

	"github.com/verte-zerg/recite/internal/model"
)

// TopMissedWords returns up to n words with the most misses.
// Words that were never missed are left out.
func TopMissedWords(aggs []model.WordAggregate, n int) []string {
	if n <= 0 || len(aggs) == 0 {
		return nil
	}
	missed := make([]model.WordAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Incorrect > 0 {
			missed = append(missed, agg)
		}
	}
	sort.Slice(missed, func(i, j int) bool {
		if missed[i].Incorrect == missed[j].Incorrect {
			return missed[i].Word < missed[j].Word
		}
		return missed[i].Incorrect > missed[j].Incorrect
	})
	n = min(n, len(missed))
	out := make([]string, 0, n)
	for _, agg := range missed[:n] {
		out = append(out, agg.Word)
	}
	return out
}
