// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tweetsearch/internal/db"
	"tweetsearch/internal/models"
)

// MemoryStore is an in-memory search record store with the same semantics as db.DB.
// Timestamps come from a clock that advances one millisecond per write, so
// ordering by recency is deterministic.
type MemoryStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*models.SearchRecord
	now     time.Time
	Writes  int

	// Err, when set, is returned by every method.
	Err error
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[uuid.UUID]*models.SearchRecord),
		now:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *MemoryStore) tick() time.Time {
	s.now = s.now.Add(time.Millisecond)
	return s.now
}

func (s *MemoryStore) byPhrase(phrase string) *models.SearchRecord {
	for _, r := range s.records {
		if r.Phrase == phrase {
			return r
		}
	}
	return nil
}

// RecordSearch creates or increments the record for phrase.
func (s *MemoryStore) RecordSearch(ctx context.Context, phrase string) (*models.SearchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	s.Writes++
	now := s.tick()
	r := s.byPhrase(phrase)
	if r == nil {
		r = &models.SearchRecord{ID: uuid.New(), Phrase: strings.Clone(phrase), CreatedAt: now}
		s.records[r.ID] = r
	}
	r.Count++
	r.LastSearchedAt = now

	copied := *r
	return &copied, nil
}

// ListSearchRecords returns records most recently searched first.
func (s *MemoryStore) ListSearchRecords(ctx context.Context, limit int) ([]models.SearchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	records := make([]models.SearchRecord, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, *r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].LastSearchedAt.After(records[j].LastSearchedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// GetSearchRecordByPhrase returns the record for phrase.
func (s *MemoryStore) GetSearchRecordByPhrase(ctx context.Context, phrase string) (*models.SearchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	r := s.byPhrase(phrase)
	if r == nil {
		return nil, db.ErrSearchRecordNotFound
	}
	copied := *r
	return &copied, nil
}

// GetSearchRecordByID returns the record with id.
func (s *MemoryStore) GetSearchRecordByID(ctx context.Context, id uuid.UUID) (*models.SearchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}

	r, ok := s.records[id]
	if !ok {
		return nil, db.ErrSearchRecordNotFound
	}
	copied := *r
	return &copied, nil
}

// CreateSearchRecord inserts a new record.
func (s *MemoryStore) CreateSearchRecord(ctx context.Context, record *models.SearchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.byPhrase(record.Phrase) != nil {
		return db.ErrDuplicatePhrase
	}

	s.Writes++
	now := s.tick()
	record.ID = uuid.New()
	record.LastSearchedAt = now
	record.CreatedAt = now
	copied := *record
	copied.Phrase = strings.Clone(record.Phrase)
	s.records[record.ID] = &copied
	return nil
}

// UpdateSearchRecord saves phrase and count and refreshes LastSearchedAt.
func (s *MemoryStore) UpdateSearchRecord(ctx context.Context, record *models.SearchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	existing, ok := s.records[record.ID]
	if !ok {
		return db.ErrSearchRecordNotFound
	}
	if other := s.byPhrase(record.Phrase); other != nil && other.ID != record.ID {
		return db.ErrDuplicatePhrase
	}

	s.Writes++
	existing.Phrase = strings.Clone(record.Phrase)
	existing.Count = record.Count
	existing.LastSearchedAt = s.tick()
	record.LastSearchedAt = existing.LastSearchedAt
	record.CreatedAt = existing.CreatedAt
	return nil
}

// DeleteSearchRecord removes the record with id.
func (s *MemoryStore) DeleteSearchRecord(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.records[id]; !ok {
		return db.ErrSearchRecordNotFound
	}
	s.Writes++
	delete(s.records, id)
	return nil
}

// Ping reports Err.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return s.Err
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// FakeFetcher returns canned results and counts calls.
type FakeFetcher struct {
	mu      sync.Mutex
	Results []string
	Err     error
	Calls   []string
}

// FetchResults records the phrase and returns Results or Err.
func (f *FakeFetcher) FetchResults(ctx context.Context, phrase string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, phrase)
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Results, nil
}

// CallCount returns how many times FetchResults was called.
func (f *FakeFetcher) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}
