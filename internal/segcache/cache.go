// Package segcache caches the timed display segments derived from a
// transcript, keyed by transcript id and validated against the transcript's
// updatedAt.
package segcache

import (
	"sync"
	"time"

	"github.com/pulpitworks/sermon-pipeline/internal/store"
)

// DisplaySegment is one render unit of a transcript.
type DisplaySegment struct {
	Text      string
	StartTime float64
	EndTime   float64
	WordRange [2]int
}

type entry struct {
	mu        sync.Mutex
	updatedAt time.Time
	segments  []DisplaySegment
	valid     bool
}

// Cache holds computed display segments per transcript id. Entries carry
// their own locks so computation for one transcript never blocks lookups for
// another. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{entries: make(map[string]*entry)}
}

// Segments returns the cached segments for transcript when its updatedAt is
// unchanged since they were computed; otherwise compute is invoked exactly
// once, its result stored under the transcript's current updatedAt, and
// returned.
func (c *Cache) Segments(transcript store.Transcript, compute func() []DisplaySegment) []DisplaySegment {
	c.mu.Lock()
	e, ok := c.entries[transcript.ID]
	if !ok {
		e = &entry{}
		c.entries[transcript.ID] = e
	}
	c.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.valid && e.updatedAt.Equal(transcript.UpdatedAt) {
		return e.segments
	}
	e.segments = compute()
	e.updatedAt = transcript.UpdatedAt
	e.valid = true
	return e.segments
}

// Invalidate removes exactly one transcript's entry. Unknown ids are a no-op.
func (c *Cache) Invalidate(transcriptID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, transcriptID)
}

// Clear empties the entire cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}
