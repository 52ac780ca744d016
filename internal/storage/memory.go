package storage

import (
	"context"
	"sync"
	"time"

	"fintrack/internal/core"
)

// MemoryStore keeps records and settings in memory with the same contract as
// the durable stores. Used by tests and as a throwaway dev backend.
type MemoryStore struct {
	mu       sync.Mutex
	records  []core.Record
	settings *core.Settings
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) GetRecords(_ context.Context) []core.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *MemoryStore) SaveRecord(_ context.Context, r core.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return nil
}

func (s *MemoryStore) UpdateRecord(_ context.Context, id string, patch core.RecordPatch) (core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.ID == id {
			updated := patch.Apply(r)
			updated.UpdatedAt = s.now().UTC().Format(time.RFC3339)
			s.records[i] = updated
			return updated, nil
		}
	}
	return core.Record{}, core.ErrRecordNotFound
}

func (s *MemoryStore) DeleteRecord(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[:0]
	for _, r := range s.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.records = kept
	return nil
}

func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}

func (s *MemoryStore) GetSettings(_ context.Context) core.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		return core.DefaultSettings()
	}
	return *s.settings
}

func (s *MemoryStore) SaveSettings(_ context.Context, settings core.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sanitized := settings.Sanitized()
	s.settings = &sanitized
	return nil
}
