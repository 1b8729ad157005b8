package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"

	"github.com/huayu/api/internal/config"
	"github.com/huayu/api/internal/database"
	"github.com/huayu/api/internal/dict"
	"github.com/huayu/api/internal/model"
	"github.com/huayu/api/internal/store"
)

func main() {
	limit := flag.Int("limit", 3000, "Maximum number of words to seed, by ascending frequency rank")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	st := store.New(db)

	ranks, err := loadRanks(filepath.Join(cfg.DataDir, "word-frequency.json"))
	if err != nil {
		log.Fatalf("Failed to load frequency list: %v", err)
	}
	log.Printf("Loaded %d ranked words", len(ranks))

	cedict := dict.NewCedict(cfg.DataDir, cfg.CedictURL)

	type ranked struct {
		word string
		rank int
	}
	ordered := make([]ranked, 0, len(ranks))
	for w, r := range ranks {
		if r >= 1 {
			ordered = append(ordered, ranked{word: w, rank: r})
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].rank < ordered[j].rank })
	if len(ordered) > *limit {
		ordered = ordered[:*limit]
	}

	inserted, skipped, missing := 0, 0, 0
	for _, rw := range ordered {
		if _, err := st.WordBySurface(rw.word); err == nil {
			skipped++
			continue
		}

		var pinyin, english string
		if e, ok := cedict.LookupLocal(rw.word); ok {
			pinyin = dict.ToDiacritic(e.Pinyin)
			english = e.English()
		} else {
			missing++
		}

		err := st.CreateWord(&model.Word{
			Word:      rw.word,
			Frequency: rw.rank,
			Pinyin:    pinyin,
			English:   english,
		})
		if err != nil {
			log.Printf("Failed to insert %q: %v", rw.word, err)
			continue
		}
		inserted++
	}

	log.Printf("Seeding complete: inserted=%d skipped=%d withoutEntry=%d", inserted, skipped, missing)
	if missing > 0 {
		log.Printf("Words without a local dictionary entry get back-filled by the scheduler or on first lookup")
	}
}

func loadRanks(path string) (map[string]int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ranks map[string]int
	if err := json.Unmarshal(raw, &ranks); err != nil {
		return nil, err
	}
	return ranks, nil
}
