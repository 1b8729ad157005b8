package dict

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDiacritic(t *testing.T) {
	cases := map[string]string{
		"ni3 hao3":    "nǐ hǎo",
		"zhong1 guo2": "zhōng guó",
		"lv3 you2":    "lǚ yóu",
		"ma5":         "ma",
		"hao3":        "hǎo",
		"xie4 xie5":   "xiè xie",
		"shuo1":       "shuō",
		"gou3":        "gǒu",
		"xiu1":        "xiū",
	}
	for in, want := range cases {
		assert.Equal(t, want, ToDiacritic(in), "input %q", in)
	}
}

func TestToDiacriticPassThrough(t *testing.T) {
	for _, s := range []string{"", "nǐ hǎo", "hello", "你好"} {
		assert.Equal(t, s, ToDiacritic(s))
	}
}

func TestToDiacriticToneVowelPlacement(t *testing.T) {
	// a/e take the mark when present, then o, then u/v/i in that order.
	assert.Equal(t, "guài", ToDiacritic("guai4"))
	assert.Equal(t, "duō", ToDiacritic("duo1"))
	assert.Equal(t, "dōu", ToDiacritic("dou1"))
	assert.Equal(t, "shǔi", ToDiacritic("shui3"))
}
