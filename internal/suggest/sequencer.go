package suggest

import "sync"

// Sequencer hands out request tokens and accepts a result only when no
// newer-issued request has been applied already.
type Sequencer struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
}

// Issue returns the next token
func (s *Sequencer) Issue() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Accept records token as applied if it is newer than the last applied one
func (s *Sequencer) Accept(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token <= s.applied {
		return false
	}
	s.applied = token
	return true
}

// Invalidate makes every token issued so far stale
func (s *Sequencer) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = s.issued
}
