package notify

import (
	"context"
	"log"
	"time"

	"github.com/nhle/taskwhisper/internal/model"
	"github.com/nhle/taskwhisper/internal/store"
)

// journalTimeout bounds a single notification-log write.
const journalTimeout = 5 * time.Second

// Journal records reminder notices in the notification log so the unread
// count survives a restart. Other notices are ignored.
type Journal struct {
	log store.NotificationLog
	now func() time.Time
}

// NewJournal returns a Journal writing to l.
func NewJournal(l store.NotificationLog, now func() time.Time) *Journal {
	if now == nil {
		now = time.Now
	}
	return &Journal{log: l, now: now}
}

// Notify implements Notifier.
func (j *Journal) Notify(n model.Notice) {
	if n.Kind != model.NoticeReminder {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
	defer cancel()

	err := j.log.CreateNotification(ctx, model.Notification{
		TaskID:    n.TaskID,
		Title:     n.Title,
		Message:   n.Description,
		CreatedAt: j.now(),
	})
	if err != nil {
		log.Printf("notify: journal reminder for task %s: %v", n.TaskID, err)
	}
}
