package agent

import (
	"sync"
	"time"

	"github.com/Huzaifa1910/openaibot/internal/domain"
)

// SessionStore manages chat sessions and their turn history.
type SessionStore interface {
	// Get returns a session with its turns, or nil if unknown.
	Get(id string) *domain.Session

	// Create inserts a new session.
	Create(sess *domain.Session)

	// SaveState persists the session's user name and negotiation state.
	SaveState(sess *domain.Session)

	// AppendTurn adds a chat turn to a session.
	AppendTurn(sessionID string, turn domain.Turn)

	// Prune drops all but the most recent keep turns of a session.
	Prune(sessionID string, keep int)

	// List returns all session IDs.
	List() []string
}

// MemorySessionStore is an in-memory SessionStore implementation.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
}

// NewMemorySessionStore creates an in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*domain.Session)}
}

// Get returns a detached copy, so callers can read and mutate it
// without racing a concurrent writer. Changes only land via SaveState
// and AppendTurn.
func (s *MemorySessionStore) Get(id string) *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	cp := *sess
	cp.State.Target = copyIntPtr(sess.State.Target)
	cp.State.Offer = copyIntPtr(sess.State.Offer)
	cp.Turns = append([]domain.Turn(nil), sess.Turns...)
	return &cp
}

func (s *MemorySessionStore) Create(sess *domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
}

func (s *MemorySessionStore) SaveState(sess *domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stored, ok := s.sessions[sess.ID]; ok {
		stored.UserName = sess.UserName
		stored.State = sess.State
		stored.State.Target = copyIntPtr(sess.State.Target)
		stored.State.Offer = copyIntPtr(sess.State.Offer)
		stored.UpdatedAt = time.Now()
	}
}

func (s *MemorySessionStore) AppendTurn(sessionID string, turn domain.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok {
		if turn.Timestamp.IsZero() {
			turn.Timestamp = time.Now()
		}
		sess.Turns = append(sess.Turns, turn)
		sess.UpdatedAt = time.Now()
	}
}

func (s *MemorySessionStore) Prune(sessionID string, keep int) {
	if keep <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[sessionID]; ok && len(sess.Turns) > keep {
		sess.Turns = append([]domain.Turn(nil), sess.Turns[len(sess.Turns)-keep:]...)
	}
}

func copyIntPtr(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

func (s *MemorySessionStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}
