// Package notify delivers notices to the places a user may see them.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/nhle/taskwhisper/internal/model"
)

// Notifier receives notices. Implementations must not block the caller
// for long.
type Notifier interface {
	Notify(n model.Notice)
}

// Fanout delivers every notice to each notifier in order.
type Fanout []Notifier

// Notify implements Notifier.
func (f Fanout) Notify(n model.Notice) {
	for _, target := range f {
		if target != nil {
			target.Notify(n)
		}
	}
}

// Printer writes one line per notice, for headless runs.
type Printer struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer, now func() time.Time) *Printer {
	if now == nil {
		now = time.Now
	}
	return &Printer{w: w, now: now}
}

// Notify implements Notifier.
func (p *Printer) Notify(n model.Notice) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.w, "[%s] %s: %s\n", p.now().Format(model.TimeLayout), n.Title, n.Description)
}
