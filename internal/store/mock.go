package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fjacquet/mood-journal/internal/models"
)

// MockStore is an in-memory EntryStore for testing.
type MockStore struct {
	mu      sync.Mutex
	entries []models.Entry
	seq     int

	// Error flags for testing error conditions
	SaveError  error
	FeedError  error
	ListError  error
	CloseError error

	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

// NewMockStore returns an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{}
}

// Save records the entry in memory.
func (m *MockStore) Save(_ context.Context, entry models.Entry) (models.Entry, error) {
	if m.SaveError != nil {
		return models.Entry{}, m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	entry.ID = fmt.Sprintf("mock-%04d", m.seq)
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	entry.CreatedAt = now().UTC()
	entry.Scores = copyScores(entry.Scores)
	m.entries = append(m.entries, entry)
	return entry, nil
}

// Feed returns the most recently saved entries first.
func (m *MockStore) Feed(_ context.Context, limit, snippetLen int) ([]models.FeedItem, error) {
	if m.FeedError != nil {
		return nil, m.FeedError
	}
	entries := m.Entries()

	var items []models.FeedItem
	for i := len(entries) - 1; i >= 0 && len(items) < limit; i-- {
		e := entries[i]
		text := []rune(e.Text)
		if len(text) > snippetLen {
			text = text[:snippetLen]
		}
		items = append(items, models.FeedItem{
			ID:        e.ID,
			Alias:     e.DisplayAlias(),
			Snippet:   string(text),
			Label:     e.Label,
			CreatedAt: e.CreatedAt,
		})
	}
	return items, nil
}

// List returns entries oldest first, filtered by alias when given.
func (m *MockStore) List(_ context.Context, alias string) ([]models.Entry, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	var out []models.Entry
	for _, e := range m.Entries() {
		if alias == "" || e.Alias == alias {
			out = append(out, e)
		}
	}
	return out, nil
}

// Close returns CloseError.
func (m *MockStore) Close() error {
	return m.CloseError
}

// Entries returns a copy of everything saved so far, in insertion order.
func (m *MockStore) Entries() []models.Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

func copyScores(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
