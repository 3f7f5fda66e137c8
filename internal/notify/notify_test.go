package notify

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskwhisper/internal/model"
	"github.com/nhle/taskwhisper/tests/testutil"
)

var at = time.Date(2024, 6, 10, 13, 30, 0, 0, time.UTC)

func reminderNotice() model.Notice {
	return model.Notice{
		Kind:        model.NoticeReminder,
		Title:       "Task Reminder",
		Description: `"Pay rent" is due in 30 minutes`,
		Duration:    5 * time.Second,
		TaskID:      "t1",
	}
}

func TestFanout(t *testing.T) {
	var got []string
	f := Fanout{
		noticeFunc(func(n model.Notice) { got = append(got, "a:"+n.Title) }),
		nil,
		noticeFunc(func(n model.Notice) { got = append(got, "b:"+n.Title) }),
	}

	f.Notify(model.Notice{Title: "Task Added"})
	assert.Equal(t, []string{"a:Task Added", "b:Task Added"}, got)
}

type noticeFunc func(n model.Notice)

func (f noticeFunc) Notify(n model.Notice) { f(n) }

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, func() time.Time { return at })

	p.Notify(reminderNotice())
	assert.Equal(t, "[13:30] Task Reminder: \"Pay rent\" is due in 30 minutes\n", buf.String())
}

func TestJournal_RecordsReminders(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	j := NewJournal(s, func() time.Time { return at })

	j.Notify(model.Notice{Kind: model.NoticeTaskAdded, Title: "Task Added"})
	j.Notify(reminderNotice())

	unread, err := s.GetUnreadNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "t1", unread[0].TaskID)
	assert.Equal(t, "Task Reminder", unread[0].Title)
	assert.Equal(t, `"Pay rent" is due in 30 minutes`, unread[0].Message)
}

func TestCompose(t *testing.T) {
	cfg := model.MailboxConfig{Username: "me@example.com", Mailbox: "INBOX"}

	msg, err := Compose(cfg, reminderNotice(), at)
	require.NoError(t, err)

	r, err := mail.CreateReader(bytes.NewReader(msg))
	require.NoError(t, err)

	subject, err := r.Header.Subject()
	require.NoError(t, err)
	assert.Equal(t, `Task Reminder: "Pay rent" is due in 30 minutes`, subject)

	from, err := r.Header.AddressList("From")
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, "me@example.com", from[0].Address)

	to, err := r.Header.AddressList("To")
	require.NoError(t, err)
	require.Len(t, to, 1)
	assert.Equal(t, "me@example.com", to[0].Address)

	part, err := r.NextPart()
	require.NoError(t, err)
	body, err := io.ReadAll(part.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"Pay rent" is due in 30 minutes`)
}

func TestMailbox_DeliversRemindersOnly(t *testing.T) {
	var (
		mu        sync.Mutex
		delivered [][]byte
	)
	m := NewMailbox(model.MailboxConfig{Username: "me@example.com"}, nil)
	m.now = func() time.Time { return at }
	m.deliver = func(_ context.Context, msg []byte) error {
		mu.Lock()
		defer mu.Unlock()
		delivered = append(delivered, msg)
		return nil
	}

	m.Notify(model.Notice{Kind: model.NoticeTaskDeleted, Title: "Task Deleted"})
	m.Notify(reminderNotice())
	m.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, delivered, 1)
	assert.Contains(t, string(delivered[0]), "Pay rent")
}

func TestMailbox_DeliveryFailureIsLogged(t *testing.T) {
	m := NewMailbox(model.MailboxConfig{Username: "me@example.com"}, nil)
	calls := 0
	m.deliver = func(context.Context, []byte) error {
		calls++
		return errors.New("connection refused")
	}

	m.Notify(reminderNotice())
	m.Wait()
	assert.Equal(t, 1, calls, "delivery is attempted once")
}

func TestMailbox_PasswordErrorStopsDelivery(t *testing.T) {
	m := NewMailbox(model.MailboxConfig{Host: "imap.invalid", Port: "993", TLS: true},
		func() (string, error) { return "", errors.New("no secret") })

	err := m.appendIMAP(context.Background(), []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading mailbox password")
}
