package sessions

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/flows-media/studio-backend/internal/models"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Store keeps all wizard sessions in memory. There is no persistence by
// design: one guided flow, one session, discarded on restart. Each session
// may own one background render watcher whose cancel func lives here so
// restart and abandon can stop it.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*models.Session
	cancels  map[uuid.UUID]context.CancelFunc
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*models.Session),
		cancels:  make(map[uuid.UUID]context.CancelFunc),
	}
}

func (s *Store) Create() *models.Session {
	now := time.Now()
	sess := &models.Session{
		ID:        uuid.New(),
		Step:      models.StepIntake,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Get returns a copy so callers cannot mutate shared state outside Update.
func (s *Store) Get(id uuid.UUID) (models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return models.Session{}, ErrNotFound
	}
	return *sess, nil
}

// Update mutates a session under the store lock.
func (s *Store) Update(id uuid.UUID, fn func(*models.Session) error) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return models.Session{}, ErrNotFound
	}
	if err := fn(sess); err != nil {
		return models.Session{}, err
	}
	sess.UpdatedAt = time.Now()
	return *sess, nil
}

// SetWatcherCancel registers the cancel func of a session's render watcher,
// stopping any previous watcher first.
func (s *Store) SetWatcherCancel(id uuid.UUID, cancel context.CancelFunc) {
	s.mu.Lock()
	prev := s.cancels[id]
	s.cancels[id] = cancel
	s.mu.Unlock()

	if prev != nil {
		prev()
	}
}

// CancelWatcher stops the session's render watcher if one is running.
func (s *Store) CancelWatcher(id uuid.UUID) {
	s.mu.Lock()
	cancel := s.cancels[id]
	delete(s.cancels, id)
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Delete removes a session and stops its watcher.
func (s *Store) Delete(id uuid.UUID) {
	s.CancelWatcher(id)

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Shutdown stops every watcher. Called once at process exit.
func (s *Store) Shutdown() {
	s.mu.Lock()
	cancels := s.cancels
	s.cancels = make(map[uuid.UUID]context.CancelFunc)
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}
