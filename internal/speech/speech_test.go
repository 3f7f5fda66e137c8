package speech

import (
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

func fakeLookPath(found ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, f := range found {
			if f == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
}

func TestNew_DetectsFirstEngine(t *testing.T) {
	s := newSpeaker("", fakeLookPath("espeak", "spd-say"))
	assert.True(t, s.Available())
	assert.Equal(t, "/usr/bin/spd-say", s.Engine())
}

func TestNew_ConfiguredCommand(t *testing.T) {
	s := newSpeaker("espeak-ng -s 150", fakeLookPath("espeak-ng", "say"))
	assert.Equal(t, "/usr/bin/espeak-ng", s.Engine())
	assert.Equal(t, []string{"-s", "150"}, s.args)
}

func TestNew_ConfiguredCommandMissing(t *testing.T) {
	s := newSpeaker("festival", fakeLookPath("say"))
	assert.False(t, s.Available())
}

func TestSpeak_WithoutEngineDoesNotPanic(t *testing.T) {
	s := newSpeaker("", func(string) (string, error) { return "", errors.New("not found") })
	assert.False(t, s.Available())

	assert.NotPanics(t, func() {
		s.Speak("hello")
		s.Speak("again")
	})
}

func TestSpeak_RunsCommand(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	s := New("true")
	assert.True(t, s.Available())

	s.Speak("hello")
	s.Wait()
}
