// Package catalog holds the keyword→response table used by the keyword
// matching stage. The table is loaded once from the store and shared by every
// worker; reload swaps a fresh immutable snapshot behind an atomic pointer so
// readers never block and never see a partially updated table.
package catalog

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync/atomic"
)

// DefaultResponse is the single-entry table substituted when the backing
// store yields nothing, so the keyword stage always has a candidate.
const DefaultResponse = "Sorry, I couldn't find an answer to your query."

// Source fetches all keyword/response pairs from the backing store.
type Source interface {
	KeywordResponses(ctx context.Context) (map[string]string, error)
}

// Snapshot is one immutable loaded table. Keys are kept in a sorted slice so
// iteration order is deterministic for the lifetime of the snapshot.
type Snapshot struct {
	entries map[string]string
	keys    []string
}

// Keys returns the catalog keys in iteration order (lexicographic).
func (s *Snapshot) Keys() []string {
	return s.keys
}

// Response returns the response for a key.
func (s *Snapshot) Response(key string) (string, bool) {
	resp, ok := s.entries[key]
	return resp, ok
}

// Len returns the number of entries.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// Catalog is the shared response table.
type Catalog struct {
	current atomic.Pointer[Snapshot]
}

// Load fetches the keyword table from the source and returns a catalog. A
// failed or empty fetch substitutes the default entry; the catalog is never
// empty.
func Load(ctx context.Context, source Source) *Catalog {
	c := &Catalog{}
	c.current.Store(build(ctx, source))
	return c
}

// Reload fetches a fresh table and atomically replaces the current snapshot.
// Resolutions in flight keep reading the snapshot they started with.
func (c *Catalog) Reload(ctx context.Context, source Source) {
	c.current.Store(build(ctx, source))
}

// Snapshot returns the current table.
func (c *Catalog) Snapshot() *Snapshot {
	return c.current.Load()
}

func build(ctx context.Context, source Source) *Snapshot {
	pairs, err := source.KeywordResponses(ctx)
	if err != nil {
		log.Printf("ERROR: failed to load keyword responses, using default catalog: %v", err)
		pairs = nil
	}

	entries := make(map[string]string, len(pairs))
	for keyword, response := range pairs {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		// A blank keyword would substring-match every utterance and
		// shadow the fallback stage.
		if keyword == "" {
			log.Printf("WARN: skipping blank keyword in response table")
			continue
		}
		entries[keyword] = response
	}
	if len(entries) == 0 {
		entries = map[string]string{"default": DefaultResponse}
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return &Snapshot{entries: entries, keys: keys}
}
