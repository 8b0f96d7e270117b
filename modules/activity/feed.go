package activity

import (
	"sync"
	"time"
)

// Entry is one line in an owner's activity feed.
type Entry struct {
	TaskID     string    `json:"task_id"`
	Kind       string    `json:"kind"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Feed keeps the most recent entries per owner, newest last.
type Feed struct {
	mu      sync.RWMutex
	limit   int
	byOwner map[string][]Entry
}

// NewFeed creates a feed retaining up to limit entries per owner.
func NewFeed(limit int) *Feed {
	if limit <= 0 {
		limit = 100
	}
	return &Feed{
		limit:   limit,
		byOwner: make(map[string][]Entry),
	}
}

// Append records e for ownerID, dropping the oldest entry when full.
func (f *Feed) Append(ownerID string, e Entry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries := append(f.byOwner[ownerID], e)
	if len(entries) > f.limit {
		entries = entries[len(entries)-f.limit:]
	}
	f.byOwner[ownerID] = entries
}

// List returns a copy of ownerID's entries, newest first.
func (f *Feed) List(ownerID string) []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entries := f.byOwner[ownerID]
	result := make([]Entry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		result = append(result, entries[i])
	}
	return result
}

// Owners returns how many owners have at least one entry.
func (f *Feed) Owners() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.byOwner)
}
