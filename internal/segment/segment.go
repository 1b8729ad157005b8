// Package segment wraps the gse tokenizer behind the small collaborator
// surface the orchestrator needs: deterministic word segmentation of a
// Chinese string.
package segment

import (
	"github.com/go-ego/gse"
)

// Segmenter splits Chinese text into word tokens. When the embedded
// dictionary failed to load it degrades to returning the whole string as
// a single token.
type Segmenter struct {
	seg   gse.Segmenter
	ready bool
}

// New loads the embedded simplified-Chinese dictionary. On error the
// returned Segmenter is still usable in degraded whole-string mode.
func New() (*Segmenter, error) {
	s := &Segmenter{}
	if err := s.seg.LoadDict(); err != nil {
		return s, err
	}
	s.ready = true
	return s, nil
}

// Segment returns the ordered word tokens of text. Deterministic for
// identical input.
func (s *Segmenter) Segment(text string) []string {
	if text == "" {
		return []string{}
	}
	if !s.ready {
		return []string{text}
	}
	tokens := s.seg.Cut(text, true)
	if len(tokens) == 0 {
		return []string{text}
	}
	return tokens
}
