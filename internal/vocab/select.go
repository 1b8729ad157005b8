package vocab

import (
	"sort"
	"time"
)

// Select computes the working vocabulary for one conversation turn:
// the topN words by Score (the spaced/due set) plus the newK most common
// words that have never been used (the new-words set), deduplicated by
// surface form.
//
// An empty pool yields an empty result. The returned order carries no
// meaning, but sorting is stable so ties resolve the same way for
// identical input.
func Select(pool []WordUsage, topN, newK int, now time.Time) []string {
	if len(pool) == 0 {
		return []string{}
	}

	type scored struct {
		word     string
		rank     int
		score    int
		hasUsage bool
	}

	all := make([]scored, 0, len(pool))
	for _, wu := range pool {
		all = append(all, scored{
			word:     wu.Word.Word,
			rank:     wu.Word.Frequency,
			score:    Score(wu.Word.Frequency, wu.Usage, now),
			hasUsage: len(wu.Usage) > 0,
		})
	}

	byScore := make([]scored, len(all))
	copy(byScore, all)
	sort.SliceStable(byScore, func(i, j int) bool {
		return byScore[i].score > byScore[j].score
	})

	selected := make([]string, 0, topN+newK)
	seen := make(map[string]struct{}, topN+newK)
	add := func(w string) {
		if _, ok := seen[w]; ok {
			return
		}
		seen[w] = struct{}{}
		selected = append(selected, w)
	}

	for i := 0; i < topN && i < len(byScore); i++ {
		add(byScore[i].word)
	}

	fresh := make([]scored, 0, len(all))
	for _, s := range all {
		if !s.hasUsage {
			fresh = append(fresh, s)
		}
	}
	sort.SliceStable(fresh, func(i, j int) bool {
		return fresh[i].rank < fresh[j].rank
	})
	for i := 0; i < newK && i < len(fresh); i++ {
		add(fresh[i].word)
	}

	return selected
}
