package testutil

import (
	"sync"
)

// Speaker records every utterance instead of playing it.
type Speaker struct {
	mu     sync.Mutex
	spoken []string
}

// Speak records text.
func (s *Speaker) Speak(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spoken = append(s.spoken, text)
}

// Spoken returns a copy of everything spoken so far.
func (s *Speaker) Spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.spoken...)
}
