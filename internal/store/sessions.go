package store

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

const bearerPrefix = "Bearer "

// Sessions binds opaque tokens to user ids. Tokens never expire and are
// never revoked; a user may hold any number of live tokens.
type Sessions struct {
	mu      sync.RWMutex
	byToken map[string]int64
}

func NewSessions() *Sessions {
	return &Sessions{byToken: make(map[string]int64)}
}

// Create issues a fresh opaque token bound to userID. The id is not
// validated; callers are trusted to pass an existing user.
func (s *Sessions) Create(userID int64) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.byToken[token] = userID
	s.mu.Unlock()
	return token
}

// Resolve looks up the user id for a raw Authorization header value. A
// "Bearer " prefix is stripped when present; otherwise the value is used
// as the token itself.
func (s *Sessions) Resolve(header string) (int64, bool) {
	if header == "" {
		return 0, false
	}
	token := strings.TrimPrefix(header, bearerPrefix)

	s.mu.RLock()
	id, ok := s.byToken[token]
	s.mu.RUnlock()
	return id, ok
}
