// Package scheduler runs the background job that fills in pinyin and
// glosses for words created before the dictionary knew them.
package scheduler

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/huayu/api/internal/dict"
	"github.com/huayu/api/internal/store"
)

// batchSize bounds how many words one run touches; a cold run against
// the remote dictionary should not hammer it.
const batchSize = 200

type Backfill struct {
	scheduler *gocron.Scheduler
	store     *store.Store
	dict      *dict.Service

	mu        sync.Mutex
	lastRun   time.Time
	lastCount int
}

func NewBackfill(st *store.Store, d *dict.Service, interval time.Duration) *Backfill {
	s := gocron.NewScheduler(time.UTC)
	b := &Backfill{
		scheduler: s,
		store:     st,
		dict:      d,
	}
	s.Every(interval).Do(b.run)
	return b
}

func (b *Backfill) Start() {
	b.scheduler.StartAsync()
	log.Printf("[scheduler] backfill started")
}

func (b *Backfill) Stop() {
	b.scheduler.Stop()
}

func (b *Backfill) run() {
	ctx := context.Background()

	words, err := b.store.WordsMissingDetails(batchSize)
	if err != nil {
		log.Printf("[scheduler] failed to list words needing backfill: %v", err)
		return
	}

	filled := 0
	for i := range words {
		w := &words[i]
		entry, err := b.dict.Lookup(ctx, w.Word)
		if err != nil {
			if errors.Is(err, dict.ErrNoEntry) {
				continue
			}
			// Remote dictionary unreachable; retry whole batch next run.
			log.Printf("[scheduler] dictionary lookup for %q failed: %v", w.Word, err)
			break
		}
		if err := b.dict.Backfill(w, entry); err != nil {
			log.Printf("[scheduler] backfill for %q failed: %v", w.Word, err)
			continue
		}
		filled++
	}

	b.mu.Lock()
	b.lastRun = time.Now()
	b.lastCount = filled
	b.mu.Unlock()

	if filled > 0 {
		log.Printf("[scheduler] back-filled %d of %d words", filled, len(words))
	}
}

// Status reports the last run for the /scheduler/status endpoint.
func (b *Backfill) Status() map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	status := map[string]interface{}{
		"enabled":   true,
		"lastCount": b.lastCount,
	}
	if !b.lastRun.IsZero() {
		status["lastRun"] = b.lastRun
	}
	return status
}
