package reminder

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is a tea.Msg delivered each time the scanner fires.
type TickMsg struct {
	At time.Time
}

// Scanner emits a tick on a fixed period until stopped.
type Scanner struct {
	interval  time.Duration
	tickCh    chan TickMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        sync.Mutex
	running   bool
	stopped   bool
}

// NewScanner creates a Scanner with the given period. A non-positive
// interval falls back to DefaultInterval.
func NewScanner(interval time.Duration) *Scanner {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scanner{
		interval:  interval,
		tickCh:    make(chan TickMsg, 1),
		triggerCh: make(chan struct{}, 1),
		stopCh:    make(chan struct{}),
	}
}

// Interval returns the scan period.
func (s *Scanner) Interval() time.Duration {
	return s.interval
}

// Start launches the ticking goroutine and returns a tea.Cmd that delivers
// the first TickMsg. It returns nil if the scanner is already running or
// has been stopped.
func (s *Scanner) Start() tea.Cmd {
	s.mu.Lock()
	if s.running || s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.mu.Unlock()

	go s.loop()

	return s.waitForTick()
}

// Stop halts the scanner. Calling it more than once is safe.
func (s *Scanner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	close(s.stopCh)
	s.stopped = true
	s.running = false
}

// Trigger requests an immediate tick without waiting for the period.
func (s *Scanner) Trigger() {
	select {
	case s.triggerCh <- struct{}{}:
	default:
		// A trigger is already pending.
	}
}

// WaitForNextTick returns a tea.Cmd that waits for the next tick. Call it
// after handling a TickMsg to keep listening.
func (s *Scanner) WaitForNextTick() tea.Cmd {
	return s.waitForTick()
}

// Run calls fn on every period until ctx is done or the scanner is
// stopped. It is the headless counterpart of Start.
func (s *Scanner) Run(ctx context.Context, fn func(now time.Time)) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case now := <-ticker.C:
			fn(now)
		case <-s.triggerCh:
			fn(time.Now())
		}
	}
}

func (s *Scanner) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case now := <-ticker.C:
			s.send(TickMsg{At: now})
		case <-s.triggerCh:
			s.send(TickMsg{At: time.Now()})
		}
	}
}

// send delivers a tick without blocking. A tick still waiting to be
// consumed makes a new one redundant.
func (s *Scanner) send(msg TickMsg) {
	select {
	case s.tickCh <- msg:
	default:
	}
}

func (s *Scanner) waitForTick() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-s.tickCh:
			return msg
		case <-s.stopCh:
			return nil
		}
	}
}
