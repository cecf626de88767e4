package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

const DefaultTTL = 24 * time.Hour

type entry struct {
	email     string
	expiresAt time.Time
}

// Store maps opaque session tokens to account emails. Sessions live in
// process memory only: a restart invalidates all of them.
type Store struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]entry
	done     chan struct{}
	once     sync.Once
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		ttl:      ttl,
		sessions: make(map[string]entry),
		done:     make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Create issues a new token for the given email. Every call returns a
// distinct token, so two logins for the same account never share one.
func (s *Store) Create(email string) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	sum := sha256.Sum256(append(raw, []byte(email)...))
	sid := hex.EncodeToString(sum[:])

	s.mu.Lock()
	s.sessions[sid] = entry{email: email, expiresAt: time.Now().Add(s.ttl)}
	s.mu.Unlock()

	return sid, nil
}

func (s *Store) Resolve(sid string) (string, bool) {
	s.mu.RLock()
	e, ok := s.sessions[sid]
	s.mu.RUnlock()

	if !ok {
		return "", false
	}
	if time.Now().After(e.expiresAt) {
		s.Revoke(sid)
		return "", false
	}
	return e.email, true
}

func (s *Store) Revoke(sid string) {
	s.mu.Lock()
	delete(s.sessions, sid)
	s.mu.Unlock()
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Store) janitor() {
	interval := s.ttl / 10
	if interval > time.Minute {
		interval = time.Minute
	}
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-t.C:
			s.mu.Lock()
			for sid, e := range s.sessions {
				if now.After(e.expiresAt) {
					delete(s.sessions, sid)
				}
			}
			s.mu.Unlock()
		}
	}
}
