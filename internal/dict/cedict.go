// Package dict resolves Chinese surface forms to pinyin and an English
// gloss. Lookups go local file → redis → dict_entries table → one remote
// CC-CEDICT fetch per process.
package dict

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Entry is the dictionary view of one simplified surface form.
type Entry struct {
	Pinyin  string   `json:"pinyin"`
	Senses  []string `json:"senses"`
}

// English joins the senses into the gloss stored on Word rows.
func (e *Entry) English() string {
	return strings.Join(e.Senses, "; ")
}

// cedictLineRe matches "傳統 传统 [chuan2 tong3] /traditional/convention/".
var cedictLineRe = regexp.MustCompile(`^(\S+)\s+(\S+)\s+\[([^\]]+)\]\s+(.*)$`)

// Cedict serves entries from an optional local lookup file and, on miss,
// from the full CC-CEDICT fetched at most once per process.
type Cedict struct {
	localPath string
	remoteURL string

	httpClient *http.Client

	localOnce sync.Once
	local     map[string]Entry

	remoteOnce sync.Once
	remote     map[string]Entry
	remoteErr  error
}

func NewCedict(dataDir, remoteURL string) *Cedict {
	return &Cedict{
		localPath: filepath.Join(dataDir, "cedict-lookup.json"),
		remoteURL: remoteURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// LookupLocal consults only the local lookup file. Missing or unreadable
// files degrade to an empty map.
func (c *Cedict) LookupLocal(word string) (Entry, bool) {
	c.localOnce.Do(func() {
		c.local = loadLocalMap(c.localPath)
	})
	e, ok := c.local[strings.TrimSpace(word)]
	return e, ok
}

// LookupRemote consults the full CC-CEDICT, fetching it on first use.
// A failed fetch is remembered for the life of the process.
func (c *Cedict) LookupRemote(ctx context.Context, word string) (Entry, bool, error) {
	c.remoteOnce.Do(func() {
		c.remote, c.remoteErr = c.fetchRemote(ctx)
	})
	if c.remoteErr != nil {
		return Entry{}, false, c.remoteErr
	}
	e, ok := c.remote[strings.TrimSpace(word)]
	return e, ok, nil
}

func (c *Cedict) fetchRemote(ctx context.Context) (map[string]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.remoteURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CEDICT remote fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CEDICT remote fetch failed: %s returned %s", c.remoteURL, resp.Status)
	}

	entries, err := ParseCedict(resp.Body)
	if err != nil {
		return nil, err
	}
	log.Printf("[dict] loaded %d CC-CEDICT entries from remote", len(entries))
	return entries, nil
}

// ParseCedict reads CC-CEDICT lines into a simplified-form map. The first
// entry per surface form wins.
func ParseCedict(r io.Reader) (map[string]Entry, error) {
	entries := make(map[string]Entry)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m := cedictLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		simplified, pinyin, rest := m[2], m[3], m[4]
		if _, ok := entries[simplified]; ok {
			continue
		}
		var senses []string
		for _, s := range strings.Split(rest, "/") {
			if s = strings.TrimSpace(s); s != "" {
				senses = append(senses, s)
			}
		}
		entries[simplified] = Entry{Pinyin: pinyin, Senses: senses}
	}
	return entries, scanner.Err()
}

func loadLocalMap(path string) map[string]Entry {
	f, err := os.Open(path)
	if err != nil {
		return map[string]Entry{}
	}
	defer f.Close()

	entries, err := decodeLocalMap(f)
	if err != nil {
		log.Printf("[dict] ignoring unreadable local lookup file %s: %v", path, err)
		return map[string]Entry{}
	}
	return entries
}
