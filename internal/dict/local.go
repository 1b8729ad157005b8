package dict

import (
	"encoding/json"
	"io"
	"strings"
)

// localEntry is the shape of data/cedict-lookup.json, which stores the
// gloss pre-joined rather than as a sense list.
type localEntry struct {
	Pinyin  string `json:"pinyin"`
	English string `json:"english_translation"`
}

func decodeLocalMap(r io.Reader) (map[string]Entry, error) {
	var raw map[string]localEntry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}
	entries := make(map[string]Entry, len(raw))
	for word, le := range raw {
		var senses []string
		for _, s := range strings.Split(le.English, ";") {
			if s = strings.TrimSpace(s); s != "" {
				senses = append(senses, s)
			}
		}
		entries[word] = Entry{Pinyin: le.Pinyin, Senses: senses}
	}
	return entries, nil
}
