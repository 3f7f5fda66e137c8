// Package speech reads text aloud through the host's text-to-speech command.
package speech

import (
	"log"
	"os/exec"
	"strings"
	"sync"
)

// engines are tried in order when no command is configured.
var engines = []string{"say", "spd-say", "espeak-ng", "espeak"}

// Speaker runs one speech command per utterance and does not wait for it.
type Speaker struct {
	name string
	args []string

	// lookPath is swapped out in tests.
	lookPath func(string) (string, error)

	warnOnce sync.Once
	wg       sync.WaitGroup
}

// New returns a Speaker using command, or the first engine found on PATH
// when command is empty. command may carry extra arguments, e.g.
// "espeak-ng -s 150".
func New(command string) *Speaker {
	return newSpeaker(command, exec.LookPath)
}

func newSpeaker(command string, lookPath func(string) (string, error)) *Speaker {
	s := &Speaker{lookPath: lookPath}

	if fields := strings.Fields(command); len(fields) > 0 {
		if path, err := lookPath(fields[0]); err == nil {
			s.name, s.args = path, fields[1:]
		}
		return s
	}

	for _, engine := range engines {
		if path, err := lookPath(engine); err == nil {
			s.name = path
			break
		}
	}
	return s
}

// Available reports whether a speech command was found.
func (s *Speaker) Available() bool {
	return s.name != ""
}

// Engine returns the resolved command path, or "" when none was found.
func (s *Speaker) Engine() string {
	return s.name
}

// Speak starts reading text aloud. Without an engine the text is dropped
// and the first drop is logged.
func (s *Speaker) Speak(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	if !s.Available() {
		s.warnOnce.Do(func() {
			log.Printf("speech: no speech engine found (tried %s); voice output is unavailable",
				strings.Join(engines, ", "))
		})
		return
	}

	args := append(append([]string(nil), s.args...), text)
	cmd := exec.Command(s.name, args...)
	if err := cmd.Start(); err != nil {
		log.Printf("speech: starting %s: %v", s.name, err)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := cmd.Wait(); err != nil {
			log.Printf("speech: %s exited: %v", s.name, err)
		}
	}()
}

// Wait blocks until every started utterance has finished.
func (s *Speaker) Wait() {
	s.wg.Wait()
}
