package memory

import (
	"fmt"
	"sync"

	ledger "posadmin-cloud/internal/ledger/domain"
)

// SessionStore keeps in-flight report snapshots in memory.
// Sessions live only as long as the process; the upstream sales API
// remains the system of record.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]ledger.Snapshot
}

// NewSessionStore constructs an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]ledger.Snapshot)}
}

// Get returns the snapshot for a shop and date when present.
func (s *SessionStore) Get(shopID int, date string) (ledger.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.sessions[sessionKey(shopID, date)]
	return snapshot, ok
}

// Replace stores a snapshot, overwriting any existing session.
func (s *SessionStore) Replace(snapshot ledger.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionKey(snapshot.ShopID, snapshot.Date)] = snapshot
}

// Delete removes a session.
func (s *SessionStore) Delete(shopID int, date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionKey(shopID, date))
}

func sessionKey(shopID int, date string) string {
	return fmt.Sprintf("%d|%s", shopID, date)
}
