package chat

import (
	"errors"
	"strings"

	"github.com/huayu/api/internal/middleware"
	"github.com/huayu/api/internal/store"
)

// Usage recording is deliberately asymmetric between the two grading
// paths. When the yes/no check accepts the whole sentence, every token
// that resolves to a known word is credited, vocabulary member or not.
// When grading falls back to the misused-word block, only tokens inside
// this turn's selected vocabulary are scored at all. Keep the distinction
// unless product intent changes.

// recordAllCorrect credits every known-word token of the user's message.
func (o *Orchestrator) recordAllCorrect(tokens []string) ([]RecordedUsage, error) {
	recorded := make([]RecordedUsage, 0, len(tokens))
	for _, t := range tokens {
		if strings.TrimSpace(t) == "" {
			continue
		}
		w, err := o.store.WordBySurface(t)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return recorded, err
		}
		if _, err := o.store.RecordUsage(w.ID, true); err != nil {
			return recorded, err
		}
		middleware.ObserveUsageEvent(true)
		recorded = append(recorded, RecordedUsage{Word: w.Word, Correct: true})
	}
	return recorded, nil
}

// recordGraded scores only tokens that are both known words and members
// of the selected vocabulary; a token is incorrect when the model's
// misused-word block names it.
func (o *Orchestrator) recordGraded(tokens, vocabList, misused []string) ([]RecordedUsage, error) {
	vocabSet := make(map[string]struct{}, len(vocabList))
	for _, w := range vocabList {
		vocabSet[w] = struct{}{}
	}
	misusedSet := make(map[string]struct{}, len(misused))
	for _, w := range misused {
		misusedSet[w] = struct{}{}
	}

	recorded := make([]RecordedUsage, 0, len(tokens))
	for _, t := range tokens {
		if strings.TrimSpace(t) == "" {
			continue
		}
		if _, ok := vocabSet[t]; !ok {
			continue
		}
		w, err := o.store.WordBySurface(t)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return recorded, err
		}
		_, wasMisused := misusedSet[t]
		correct := !wasMisused
		if _, err := o.store.RecordUsage(w.ID, correct); err != nil {
			return recorded, err
		}
		middleware.ObserveUsageEvent(correct)
		recorded = append(recorded, RecordedUsage{Word: w.Word, Correct: correct})
	}
	return recorded, nil
}
