package dict

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Frequency resolves a surface form to its frequency rank (1 = most
// frequent) from an optional data/word-frequency.json file. Absent file
// or absent word means no rank; callers fall back to MAX(frequency)+1
// from the inventory.
type Frequency struct {
	path string

	once  sync.Once
	ranks map[string]int
}

func NewFrequency(dataDir string) *Frequency {
	return &Frequency{path: filepath.Join(dataDir, "word-frequency.json")}
}

func (f *Frequency) Rank(word string) (int, bool) {
	f.once.Do(func() {
		f.ranks = loadRankMap(f.path)
	})
	rank, ok := f.ranks[strings.TrimSpace(word)]
	if !ok || rank < 1 {
		return 0, false
	}
	return rank, true
}

func loadRankMap(path string) map[string]int {
	raw, err := os.ReadFile(path)
	if err != nil {
		return map[string]int{}
	}
	var ranks map[string]int
	if err := json.Unmarshal(raw, &ranks); err != nil {
		log.Printf("[dict] ignoring unreadable frequency file %s: %v", path, err)
		return map[string]int{}
	}
	return ranks
}
