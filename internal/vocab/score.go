// Package vocab implements the spaced-repetition scoring and vocabulary
// selection that bound what the tutor is allowed to say in a turn.
package vocab

import (
	"time"

	"github.com/huayu/api/internal/config"
	"github.com/huayu/api/internal/model"
)

// Usage is one scored use of a word.
type Usage struct {
	Timestamp time.Time
	Correct   bool
}

// WordUsage pairs a word with its full usage history.
type WordUsage struct {
	Word  model.Word
	Usage []Usage
}

// Score returns the selection priority of a word: (ScoreBase - rank) plus
// a need score of 1 when the word has never been used correctly or its
// most recent correct use is at least DueHours old. The history may be in
// any order; the result depends only on the maximum correct timestamp.
//
// Because the need score is bounded by 1 and ScoreBase exceeds every
// supported rank, a lower rank always wins for equal usage state.
func Score(rank int, history []Usage, now time.Time) int {
	base := config.ScoreBase - rank

	var lastCorrect time.Time
	found := false
	for _, u := range history {
		if u.Correct && u.Timestamp.After(lastCorrect) {
			lastCorrect = u.Timestamp
			found = true
		}
	}
	if !found {
		return base + 1
	}
	if now.Sub(lastCorrect) >= time.Duration(config.DueHours)*time.Hour {
		return base + 1
	}
	return base
}
