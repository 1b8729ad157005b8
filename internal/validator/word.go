// Package validator screens surface forms before they reach the
// dictionary pipeline, so junk input never creates Word rows.
package validator

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxWordRunes bounds a lookup term; CC-CEDICT entries are short and
// anything longer is a sentence, not a word.
const MaxWordRunes = 8

type WordValidator struct{}

func NewWordValidator() *WordValidator {
	return &WordValidator{}
}

// IsValid reports whether s is a plausible Chinese word: non-empty after
// trimming, within the length bound, and containing at least one Han
// character with no embedded whitespace.
func (v *WordValidator) IsValid(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || utf8.RuneCountInString(s) > MaxWordRunes {
		return false
	}
	hasHan := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			return false
		}
		if unicode.Is(unicode.Han, r) {
			hasHan = true
		}
	}
	return hasHan
}
