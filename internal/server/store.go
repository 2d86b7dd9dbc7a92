// ABOUTME: In-memory entry table for the local fixture backend.
// ABOUTME: Keeps entries ordered newest first and pages by exclusive start key.
package server

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/2389-research/gratitude/internal/models"
)

// record is one stored entry.
type record struct {
	id        string
	content   string
	createdAt time.Time
}

func (r record) entry() models.Entry {
	return models.NewEntry(r.id, r.content, r.createdAt.UTC().Format(time.RFC3339Nano))
}

// Store is a concurrency-safe in-memory entry table. IDs are UUIDv7 strings,
// so lexical order is creation order.
type Store struct {
	mu      sync.RWMutex
	records []record // sorted by id descending
	newID   func() (string, error)
	now     func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		newID: func() (string, error) {
			id, err := uuid.NewV7()
			if err != nil {
				return "", err
			}
			return id.String(), nil
		},
		now: time.Now,
	}
}

// Put stores a new entry and returns its id.
func (s *Store) Put(content string) (string, error) {
	id, err := s.newID()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record{id: id, content: content, createdAt: s.now()})
	sort.Slice(s.records, func(i, j int) bool {
		return s.records[i].id > s.records[j].id
	})
	return id, nil
}

// Delete removes the entry with the given id. It reports whether it existed.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.id == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Query returns up to limit entries strictly after startKey, and the id of the
// last returned entry when more entries remain.
func (s *Store) Query(startKey string, limit int) (items []models.Entry, lastKey string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := 0
	if startKey != "" {
		start = sort.Search(len(s.records), func(i int) bool {
			return s.records[i].id < startKey
		})
	}

	end := start + limit
	if end > len(s.records) {
		end = len(s.records)
	}

	items = make([]models.Entry, 0, end-start)
	for _, r := range s.records[start:end] {
		items = append(items, r.entry())
	}
	if end < len(s.records) && end > start {
		lastKey = s.records[end-1].id
	}
	return items, lastKey
}
