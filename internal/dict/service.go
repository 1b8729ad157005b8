package dict

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/huayu/api/internal/cache"
	"github.com/huayu/api/internal/middleware"
	"github.com/huayu/api/internal/model"
	"github.com/huayu/api/internal/store"
)

// ErrNoEntry means the surface form exists in no dictionary source.
var ErrNoEntry = errors.New("no dictionary entry for word")

// Service is the lookup pipeline handed to handlers and the backfill
// scheduler: local file, then redis, then the dict_entries table, then
// one remote CC-CEDICT fetch.
type Service struct {
	store  *store.Store
	cache  *cache.RedisCache // nil when Redis is unavailable
	cedict *Cedict
	freq   *Frequency
}

func NewService(st *store.Store, rc *cache.RedisCache, cedict *Cedict, freq *Frequency) *Service {
	return &Service{store: st, cache: rc, cedict: cedict, freq: freq}
}

// Lookup resolves a surface form to a dictionary entry, caching remote
// hits in redis and the dict_entries table.
func (s *Service) Lookup(ctx context.Context, word string) (Entry, error) {
	if e, ok := s.cedict.LookupLocal(word); ok {
		middleware.ObserveDictLookup("local")
		return e, nil
	}

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, cache.DictKey(word)); err == nil {
			var e Entry
			if err := json.Unmarshal(raw, &e); err == nil {
				middleware.ObserveDictLookup("redis")
				return e, nil
			}
		}
	}

	if row, err := s.store.DictEntryByWord(word); err == nil {
		var senses []string
		if err := json.Unmarshal(row.Senses, &senses); err != nil {
			senses = nil
		}
		middleware.ObserveDictLookup("db")
		return Entry{Pinyin: row.Pinyin, Senses: senses}, nil
	}

	e, ok, err := s.cedict.LookupRemote(ctx, word)
	if err != nil {
		return Entry{}, err
	}
	if !ok {
		middleware.ObserveDictLookup("miss")
		return Entry{}, ErrNoEntry
	}
	middleware.ObserveDictLookup("remote")
	s.persist(ctx, word, e)
	return e, nil
}

func (s *Service) persist(ctx context.Context, word string, e Entry) {
	senses, err := json.Marshal(e.Senses)
	if err != nil {
		return
	}
	if err := s.store.SaveDictEntry(&model.DictEntry{
		Word:   word,
		Pinyin: e.Pinyin,
		Senses: senses,
	}); err != nil {
		log.Printf("[dict] failed to persist entry for %q: %v", word, err)
	}
	if s.cache != nil {
		if raw, err := json.Marshal(e); err == nil {
			if err := s.cache.Set(ctx, cache.DictKey(word), raw); err != nil {
				log.Printf("[dict] failed to cache entry for %q: %v", word, err)
			}
		}
	}
}

// LookupOrCreate returns the Word row for a surface form, creating it on
// first lookup. Existing rows get empty pinyin/gloss back-filled
// best-effort; a row is never deleted or re-ranked.
func (s *Service) LookupOrCreate(ctx context.Context, surface string) (*model.Word, error) {
	w, err := s.store.WordBySurface(surface)
	if err == nil {
		if w.Pinyin == "" || w.English == "" {
			if e, lerr := s.Lookup(ctx, surface); lerr == nil {
				if uerr := s.Backfill(w, e); uerr == nil {
					return s.store.WordBySurface(surface)
				}
			}
		}
		return w, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	e, err := s.Lookup(ctx, surface)
	if err != nil {
		return nil, err
	}

	rank, ok := s.freq.Rank(surface)
	if !ok {
		max, merr := s.store.MaxFrequency()
		if merr != nil {
			return nil, merr
		}
		rank = max + 1
	}

	word := &model.Word{
		Word:      surface,
		Frequency: rank,
		Pinyin:    ToDiacritic(e.Pinyin),
		English:   e.English(),
	}
	if err := s.store.CreateWord(word); err != nil {
		return nil, err
	}
	return word, nil
}

// Backfill fills a word's missing pinyin/gloss from a dictionary entry,
// leaving already-populated fields alone.
func (s *Service) Backfill(w *model.Word, e Entry) error {
	pinyin := w.Pinyin
	if pinyin == "" {
		pinyin = ToDiacritic(e.Pinyin)
	}
	english := w.English
	if english == "" {
		english = e.English()
	}
	return s.store.UpdateWordDetails(w.ID, pinyin, english)
}
