package state

import (
	"sync"

	contractx "github.com/tanpawarit/Cartive-Conversational-Shopping-Agent/agent/contract"
)

// Store keeps per-session conversation history. Turns are append-only within
// a session and never reordered or pruned.
type Store interface {
	Turns(sessionID string) []contractx.Turn
	Append(sessionID string, turns ...contractx.Turn)
	Reset(sessionID string)
}

// MemoryStore holds histories in process memory for the process lifetime.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]contractx.Turn
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string][]contractx.Turn),
	}
}

// Turns returns a copy of the session's history, empty for unknown sessions.
func (s *MemoryStore) Turns(sessionID string) []contractx.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]contractx.Turn(nil), s.sessions[sessionID]...)
}

func (s *MemoryStore) Append(sessionID string, turns ...contractx.Turn) {
	if len(turns) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], turns...)
}

func (s *MemoryStore) Reset(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
