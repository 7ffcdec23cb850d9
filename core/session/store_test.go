package session_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stefnlabs/websession/core/session"
)

// memoryStore is a map-backed Store used across the package tests.
type memoryStore struct {
	mu   sync.Mutex
	recs map[uuid.UUID]session.Record
}

func newMemoryStore() *memoryStore {
	return &memoryStore{recs: make(map[uuid.UUID]session.Record)}
}

func (s *memoryStore) Find(_ context.Context, id uuid.UUID) (*session.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return &rec, nil
}

func (s *memoryStore) Save(_ context.Context, rec *session.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[rec.ID] = *rec
	return nil
}

func (s *memoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recs, id)
	return nil
}

func (s *memoryStore) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	now := time.Now()
	for id, rec := range s.recs {
		if rec.IsExpired(now) {
			delete(s.recs, id)
			n++
		}
	}
	return n, nil
}

// contains reports whether a record with the given id is physically present.
func (s *memoryStore) contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sid, err := uuid.Parse(id)
	if err != nil {
		return false
	}
	_, ok := s.recs[sid]
	return ok
}

// size reports the number of physically present records.
func (s *memoryStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recs)
}

// put inserts a raw record, bypassing the manager. Used to stage expired rows.
func (s *memoryStore) put(rec session.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[rec.ID] = rec
}
