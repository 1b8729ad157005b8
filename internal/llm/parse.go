package llm

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode"
)

// misusedBlockRe matches a non-nested brace block carrying the
// misused_words key. The prompt asks for that block once at the very end
// of the reply, but models sometimes echo the instruction format earlier
// in their output, so every match is collected and only the last one is
// treated as authoritative.
var misusedBlockRe = regexp.MustCompile(`\{[^{}]*"misused_words"[^{}]*\}`)

type misusedBlock struct {
	MisusedWords []string `json:"misused_words"`
}

// ExtractMisusedWords returns the word list from the trailing misused-word
// block, or an empty list when no block is present or the last candidate
// does not decode. Model output is untrusted free text; a malformed block
// is normal input variation, never an error.
func ExtractMisusedWords(content string) []string {
	matches := misusedBlockRe.FindAllString(content, -1)
	if len(matches) == 0 {
		return []string{}
	}
	var block misusedBlock
	if err := json.Unmarshal([]byte(matches[len(matches)-1]), &block); err != nil {
		return []string{}
	}
	if block.MisusedWords == nil {
		return []string{}
	}
	return block.MisusedWords
}

// StripMisusedBlock returns the display text: everything strictly before
// the authoritative misused-word block, trimmed. Without a decodable
// block the trimmed input is returned unchanged.
func StripMisusedBlock(content string) string {
	locs := misusedBlockRe.FindAllStringIndex(content, -1)
	if len(locs) == 0 {
		return strings.TrimSpace(content)
	}
	last := locs[len(locs)-1]
	var block misusedBlock
	if err := json.Unmarshal([]byte(content[last[0]:last[1]]), &block); err != nil {
		return strings.TrimSpace(content)
	}
	return strings.TrimSpace(content[:last[0]])
}

// ParseYesNo leniently reads a strict-yes/no reply: the answer counts as
// affirmative when it begins with an affirmative token after leading
// whitespace and punctuation are dropped. Case-insensitive.
func ParseYesNo(content string) bool {
	s := strings.TrimLeftFunc(content, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r)
	})
	s = strings.ToLower(s)
	if strings.HasPrefix(s, "yes") || strings.HasPrefix(s, "correct") {
		return true
	}
	if strings.HasPrefix(s, "是") || strings.HasPrefix(s, "对") {
		return true
	}
	// A bare "y" (possibly followed by punctuation stripped above).
	return s == "y" || strings.HasPrefix(s, "y ") || strings.HasPrefix(s, "y.")
}
