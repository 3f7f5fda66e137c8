package notify

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"

	"github.com/nhle/taskwhisper/internal/model"
)

// deliveryTimeout bounds one IMAP session.
const deliveryTimeout = 30 * time.Second

// Mailbox files reminder notices as messages in an IMAP mailbox, so they
// reach every device that reads it. Delivery is asynchronous and
// attempted once; failures are logged.
type Mailbox struct {
	cfg      model.MailboxConfig
	password func() (string, error)
	now      func() time.Time

	// deliver is replaced in tests.
	deliver func(ctx context.Context, msg []byte) error

	wg sync.WaitGroup
}

// NewMailbox returns a Mailbox for cfg. password is called once per
// delivery so a rotated secret is picked up without a restart.
func NewMailbox(cfg model.MailboxConfig, password func() (string, error)) *Mailbox {
	m := &Mailbox{cfg: cfg, password: password, now: time.Now}
	m.deliver = m.appendIMAP
	return m
}

// Notify implements Notifier. Only reminders are delivered.
func (m *Mailbox) Notify(n model.Notice) {
	if n.Kind != model.NoticeReminder {
		return
	}

	msg, err := Compose(m.cfg, n, m.now())
	if err != nil {
		log.Printf("notify: composing reminder mail for task %s: %v", n.TaskID, err)
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		defer cancel()

		if err := m.deliver(ctx, msg); err != nil {
			log.Printf("notify: delivering reminder mail for task %s: %v", n.TaskID, err)
		}
	}()
}

// Wait blocks until every pending delivery has finished.
func (m *Mailbox) Wait() {
	m.wg.Wait()
}

// Compose renders n as a plain-text RFC 5322 message.
func Compose(cfg model.MailboxConfig, n model.Notice, now time.Time) ([]byte, error) {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	to := cfg.To
	if to == "" {
		to = from
	}

	var h mail.Header
	h.SetDate(now)
	h.SetAddressList("From", []*mail.Address{{Name: "Task Whisper", Address: from}})
	h.SetAddressList("To", []*mail.Address{{Address: to}})
	h.SetSubject(n.Title + ": " + n.Description)
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("generating message id: %w", err)
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("creating message writer: %w", err)
	}
	if _, err := fmt.Fprintf(w, "%s\r\n\r\n%s\r\n", n.Title, n.Description); err != nil {
		return nil, fmt.Errorf("writing message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing message writer: %w", err)
	}

	return buf.Bytes(), nil
}

// appendIMAP logs in and appends msg to the configured mailbox.
func (m *Mailbox) appendIMAP(ctx context.Context, msg []byte) error {
	password, err := m.password()
	if err != nil {
		return fmt.Errorf("reading mailbox password: %w", err)
	}

	addr := m.cfg.Host + ":" + m.cfg.Port

	var client *imapclient.Client
	if m.cfg.TLS {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}
	defer client.Close()

	// Tear the connection down if the session outlives ctx.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = client.Close()
		case <-done:
		}
	}()

	if err := client.Login(m.cfg.Username, password).Wait(); err != nil {
		return fmt.Errorf("authentication failed for %s: %w", m.cfg.Username, err)
	}
	defer func() { _ = client.Logout().Wait() }()

	cmd := client.Append(m.cfg.Mailbox, int64(len(msg)), &imap.AppendOptions{
		Time: m.now(),
	})
	if _, err := cmd.Write(msg); err != nil {
		return fmt.Errorf("writing message to %s: %w", m.cfg.Mailbox, err)
	}
	if err := cmd.Close(); err != nil {
		return fmt.Errorf("closing append to %s: %w", m.cfg.Mailbox, err)
	}
	if _, err := cmd.Wait(); err != nil {
		return fmt.Errorf("appending to %s: %w", m.cfg.Mailbox, err)
	}

	return nil
}
