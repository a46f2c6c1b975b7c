package cache

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Memory is a size bounded LRU held in process.
type Memory struct {
	entries *lru.Cache[string, *Entry]
}

func NewMemory(maxEntries int) *Memory {
	if maxEntries < 1 {
		maxEntries = 1
	}
	// New only fails for a non-positive size.
	entries, _ := lru.New[string, *Entry](maxEntries)
	return &Memory{entries: entries}
}

func (m *Memory) Get(_ context.Context, key string) (*Entry, bool, error) {
	entry, ok := m.entries.Get(key)
	return entry, ok, nil
}

func (m *Memory) Put(_ context.Context, key string, entry *Entry) error {
	m.entries.Add(key, entry)
	return nil
}

func (m *Memory) Invalidate(_ context.Context, key string) error {
	m.entries.Remove(key)
	return nil
}

func (m *Memory) Len() int {
	return m.entries.Len()
}

func (m *Memory) Close() error {
	m.entries.Purge()
	return nil
}
