package server

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/penerbit-id/naskah/internal/storage"
	"github.com/penerbit-id/naskah/internal/ui/wizard"
)

const sessionCookieName = "naskah_wizard"

type session struct {
	wizard   wizard.Wizard
	lastSeen time.Time
}

// sessionStore keeps one wizard per browser. Wizards are swapped whole under
// the mutex; staged uploads are deleted when no session references them.
type sessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	staging  *storage.FileStore
	sessions map[string]*session
}

func newSessionStore(staging *storage.FileStore, ttl time.Duration) *sessionStore {
	return &sessionStore{
		ttl:      ttl,
		now:      time.Now,
		staging:  staging,
		sessions: make(map[string]*session),
	}
}

// load returns the wizard of id. Unknown or expired ids report false.
func (s *sessionStore) load(id string) (wizard.Wizard, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return wizard.Wizard{}, false
	}
	now := s.now()
	if s.expired(sess, now) {
		s.drop(id, sess)
		return wizard.Wizard{}, false
	}
	sess.lastSeen = now
	return sess.wizard, true
}

// create stores w under a fresh id.
func (s *sessionStore) create(w wizard.Wizard) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &session{wizard: w, lastSeen: s.now()}
	s.mu.Unlock()
	return id
}

// save replaces the wizard of id. It refuses with wizard.ErrSubmissionInFlight
// while the session is submitting, since only the claim holder may write then.
// A staged upload the new wizard no longer points at is removed.
func (s *sessionStore) save(id string, w wizard.Wizard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok && sess.wizard.Phase == wizard.PhaseSubmitting {
		if path := stagedPath(w); path != "" && path != stagedPath(sess.wizard) {
			s.discard(path)
		}
		return wizard.ErrSubmissionInFlight
	}
	s.put(id, w)
	return nil
}

// release stores the outcome of a claimed submission.
func (s *sessionStore) release(id string, w wizard.Wizard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(id, w)
}

func (s *sessionStore) put(id string, w wizard.Wizard) {
	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{}
		s.sessions[id] = sess
	}
	if old := stagedPath(sess.wizard); old != "" && old != stagedPath(w) {
		s.discard(old)
	}
	sess.wizard = w
	sess.lastSeen = s.now()
}

// claim moves the session's wizard into the submitting phase and returns the
// wizard as it was before. A concurrent claim on the same session fails with
// wizard.ErrSubmissionInFlight.
func (s *sessionStore) claim(id string) (wizard.Wizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return wizard.Wizard{}, wizard.ErrNotConfirming
	}
	next, err := sess.wizard.Confirm()
	if err != nil {
		return sess.wizard, err
	}
	prev := sess.wizard
	sess.wizard = next
	sess.lastSeen = s.now()
	return prev, nil
}

// sweep drops sessions idle for longer than the TTL.
func (s *sessionStore) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			s.drop(id, sess)
			removed++
		}
	}
	return removed
}

func (s *sessionStore) run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *sessionStore) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		s.drop(id, sess)
	}
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *sessionStore) expired(sess *session, now time.Time) bool {
	// a submission in flight keeps its session
	if sess.wizard.Phase == wizard.PhaseSubmitting {
		return false
	}
	return s.ttl > 0 && now.Sub(sess.lastSeen) > s.ttl
}

func (s *sessionStore) drop(id string, sess *session) {
	if path := stagedPath(sess.wizard); path != "" {
		s.discard(path)
	}
	delete(s.sessions, id)
}

func (s *sessionStore) discard(path string) {
	if s.staging == nil {
		return
	}
	_ = s.staging.Remove(storage.FileRef{Path: filepath.Base(path)})
}

func stagedPath(w wizard.Wizard) string {
	if w.Form.Manuscript == nil {
		return ""
	}
	return w.Form.Manuscript.Path
}
