package web

import (
	"os"
	"sync"
	"time"

	"audio-extractor/application/extraction"
	"audio-extractor/domain/audio"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Session holds one batch's result between the extract request and its downloads
type Session struct {
	ID      string
	Format  audio.Format
	Created time.Time
	Run     *extraction.Run
}

// SessionStore keeps sessions in memory until they expire. An expired
// session's outputs are deleted unless a live session still lists them.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	remove   func(path string) error
	logger   logrus.FieldLogger
	sessions map[string]*Session
}

// NewSessionStore creates a store whose sessions live for ttl
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionStore{
		ttl:      ttl,
		now:      time.Now,
		remove:   os.Remove,
		logger:   logrus.StandardLogger(),
		sessions: make(map[string]*Session),
	}
}

// Create stores a run under a new random ID
func (s *SessionStore) Create(format audio.Format, run *extraction.Run) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeLocked()
	session := &Session{
		ID:      uuid.NewString(),
		Format:  format,
		Created: s.now(),
		Run:     run,
	}
	s.sessions[session.ID] = session
	return session
}

// Get returns a live session
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeLocked()
	session, ok := s.sessions[id]
	return session, ok
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeLocked()
	return len(s.sessions)
}

func (s *SessionStore) purgeLocked() {
	cutoff := s.now().Add(-s.ttl)
	var expired []*Session
	for id, session := range s.sessions {
		if session.Created.Before(cutoff) {
			expired = append(expired, session)
			delete(s.sessions, id)
		}
	}
	if len(expired) == 0 {
		return
	}

	live := make(map[string]bool)
	for _, session := range s.sessions {
		for _, path := range session.outputs() {
			live[path] = true
		}
	}
	for _, session := range expired {
		for _, path := range session.outputs() {
			if live[path] {
				continue
			}
			if err := s.remove(path); err != nil && !os.IsNotExist(err) {
				s.logger.WithError(err).WithFields(logrus.Fields{
					"session": session.ID,
					"output":  path,
				}).Warn("failed to remove expired output")
			}
		}
	}
}

func (s *Session) outputs() []string {
	if s.Run == nil || s.Run.Result == nil {
		return nil
	}
	return s.Run.Result.Outputs
}
