package checkout

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one in-progress checkout. The form data lives here and nowhere
// else; ending the session discards it.
type Session struct {
	ID         string
	Controller *Controller
	CreatedAt  time.Time
}

// SessionStore keeps at most one checkout session per owner.
type SessionStore struct {
	mu      sync.Mutex
	byOwner map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{byOwner: make(map[string]*Session)}
}

// Start creates a fresh session for the owner, replacing any previous one.
func (s *SessionStore) Start(owner string, mergeSteps bool) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{
		ID:         uuid.NewString(),
		Controller: NewController(mergeSteps),
		CreatedAt:  time.Now(),
	}
	s.byOwner[owner] = sess
	return sess
}

// Get returns the owner's session, or nil when none is active.
func (s *SessionStore) Get(owner string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byOwner[owner]
}

// End discards the owner's session.
func (s *SessionStore) End(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byOwner, owner)
}
