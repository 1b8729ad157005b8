package dict

import (
	"regexp"
	"strings"
	"unicode"
)

// Numeric-tone pinyin ("ni3 hao3") to diacritic form ("nǐ hǎo").
// Syllables are space-separated; tone 5 (or 0/absent) is neutral. ü may
// be written "v" in numeric form.

var toneMarks = map[rune][4]rune{
	'a': {'ā', 'á', 'ǎ', 'à'},
	'e': {'ē', 'é', 'ě', 'è'},
	'i': {'ī', 'í', 'ǐ', 'ì'},
	'o': {'ō', 'ó', 'ǒ', 'ò'},
	'u': {'ū', 'ú', 'ǔ', 'ù'},
	'ü': {'ǖ', 'ǘ', 'ǚ', 'ǜ'},
}

var numericToneRe = regexp.MustCompile(`(?i)[a-züv]+[1-5]\b`)

var syllableRe = regexp.MustCompile(`^(.+?)([1-5])$`)

// ToDiacritic converts numeric-tone pinyin to diacritic form. Strings
// that do not look like numeric pinyin come back unchanged.
func ToDiacritic(pinyin string) string {
	if pinyin == "" || !numericToneRe.MatchString(pinyin) {
		return pinyin
	}
	syllables := strings.Fields(pinyin)
	for i, s := range syllables {
		syllables[i] = syllableToDiacritic(s)
	}
	return strings.Join(syllables, " ")
}

func syllableToDiacritic(syllable string) string {
	m := syllableRe.FindStringSubmatch(syllable)
	if m == nil {
		return syllable
	}
	base, tone := m[1], int(m[2][0]-'0')
	if tone == 5 {
		return base
	}

	runes := []rune(base)
	idx := toneVowelIndex(runes)
	if idx == -1 {
		return base
	}

	r := unicode.ToLower(runes[idx])
	if r == 'v' {
		r = 'ü'
	}
	row, ok := toneMarks[r]
	if !ok {
		return base
	}
	marked := row[tone-1]
	if unicode.IsUpper(runes[idx]) {
		marked = unicode.ToUpper(marked)
	}
	runes[idx] = marked
	return string(runes)
}

// toneVowelIndex picks which vowel carries the mark: a/e if present,
// then o, then the first of u, v, ü, i.
func toneVowelIndex(runes []rune) int {
	lower := strings.ToLower(string(runes))
	if i := strings.IndexRune(lower, 'a'); i != -1 {
		return runeIndex(runes, i)
	}
	if i := strings.IndexRune(lower, 'e'); i != -1 {
		return runeIndex(runes, i)
	}
	if i := strings.IndexRune(lower, 'o'); i != -1 {
		return runeIndex(runes, i)
	}
	for _, v := range []rune{'u', 'v', 'ü', 'i'} {
		if i := strings.IndexRune(lower, v); i != -1 {
			return runeIndex(runes, i)
		}
	}
	return -1
}

// runeIndex maps a byte offset from strings.IndexRune back to a rune
// offset; pinyin bases are ASCII apart from ü, so walk to be safe.
func runeIndex(runes []rune, byteOffset int) int {
	n := 0
	for i := range runes {
		if n == byteOffset {
			return i
		}
		n += len(string(runes[i]))
	}
	return len(runes) - 1
}
