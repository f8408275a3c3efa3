package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shandysiswandi/fileconv/internal/converter/entity"
	"github.com/shandysiswandi/fileconv/internal/pkg/pkgerror"
)

// InMemoryStore keeps sessions in a bounded cache. A session not touched
// for ttl is dropped, and the least recently touched session is dropped
// once capacity is reached.
type InMemoryStore struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, *sessionRecord]
}

type sessionRecord struct {
	mu      sync.RWMutex
	session *entity.Session
}

// NewInMemoryStore creates a store holding at most capacity sessions.
// A zero capacity is unbounded and a zero ttl never expires.
func NewInMemoryStore(capacity int, ttl time.Duration) *InMemoryStore {
	onEvict := func(id string, _ *sessionRecord) {
		slog.Debug("session evicted", "session_id", id)
	}

	return &InMemoryStore{
		sessions: expirable.NewLRU[string, *sessionRecord](capacity, onEvict, ttl),
	}
}

func (s *InMemoryStore) Create(ctx context.Context, session *entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions.Contains(session.ID) {
		return pkgerror.NewBusiness("session already exists", pkgerror.CodeConflict)
	}

	s.sessions.Add(session.ID, &sessionRecord{session: session})

	return nil
}

// View runs fn with the session under a read lock. fn must not keep
// references to the session after it returns.
func (s *InMemoryStore) View(ctx context.Context, sessionID string, fn func(session *entity.Session) error) error {
	rec, err := s.get(sessionID)
	if err != nil {
		return err
	}

	rec.mu.RLock()
	defer rec.mu.RUnlock()

	return fn(rec.session)
}

// Update runs fn with the session under a write lock and refreshes its ttl.
func (s *InMemoryStore) Update(ctx context.Context, sessionID string, fn func(session *entity.Session) error) error {
	rec, err := s.get(sessionID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	err = fn(rec.session)
	rec.mu.Unlock()

	s.touch(sessionID, rec)

	return err
}

func (s *InMemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sessions.Remove(sessionID) {
		return pkgerror.ErrNotFound
	}

	return nil
}

// Len returns the number of live sessions.
func (s *InMemoryStore) Len() int {
	return s.sessions.Len()
}

// Close drops every session.
func (s *InMemoryStore) Close() error {
	s.sessions.Purge()
	return nil
}

func (s *InMemoryStore) get(sessionID string) (*sessionRecord, error) {
	rec, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, pkgerror.ErrNotFound
	}

	return rec, nil
}

// touch re-adds rec to restart its ttl, unless it was removed meanwhile.
func (s *InMemoryStore) touch(sessionID string, rec *sessionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.sessions.Peek(sessionID); ok && cur == rec {
		s.sessions.Add(sessionID, rec)
	}
}
