package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/go-gin-inventory-api/internal/domains/accounts/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory SessionStore implementation. A zero TTL keeps
// sessions until they are deleted.
type SessionStore struct {
	session sync.Map
	ttl     time.Duration
	now     func() time.Time
}

type sessionEntry struct {
	accountID int64
	expiresAt time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{ttl: ttl, now: time.Now}
}

func (s *SessionStore) Save(_ context.Context, token string, accountID int64) error {
	entry := sessionEntry{accountID: accountID}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.session.Store(token, entry)
	return nil
}

func (s *SessionStore) Lookup(_ context.Context, token string) (int64, error) {
	value, ok := s.session.Load(token)
	if !ok {
		return 0, ports.ErrSessionNotFound
	}
	entry := value.(sessionEntry)
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		s.session.Delete(token)
		return 0, ports.ErrSessionNotFound
	}
	return entry.accountID, nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.session.Delete(token)
	return nil
}
