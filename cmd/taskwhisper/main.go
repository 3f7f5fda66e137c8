package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/nhle/taskwhisper/internal/app"
	"github.com/nhle/taskwhisper/internal/credential"
	"github.com/nhle/taskwhisper/internal/model"
	"github.com/nhle/taskwhisper/internal/notify"
	"github.com/nhle/taskwhisper/internal/reminder"
	"github.com/nhle/taskwhisper/internal/speech"
	"github.com/nhle/taskwhisper/internal/store"
	"github.com/nhle/taskwhisper/internal/tracker"
)

func main() {
	os.Exit(run())
}

// run wires the application together and returns the process exit code.
// Errors are reported here so deferred cleanup always runs before exit.
func run() int {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the YAML config file")
	dbPath := flag.String("db", "", "SQLite database file (overrides config)")
	ephemeral := flag.Bool("ephemeral", false, "keep tasks in memory only")
	voiceOn := flag.Bool("voice", false, "start with voice output enabled")
	printSummary := flag.Bool("summary", false, "print the task summary and exit")
	watch := flag.Bool("watch", false, "run the reminder scanner without the UI")
	logFile := flag.String("log-file", "", "debug log file in UI mode (overrides config)")
	setPassword := flag.Bool("set-mailbox-password", false, "store the IMAP password in the system keyring")
	forgetPassword := flag.Bool("forget-mailbox-password", false, "remove the IMAP password from the system keyring")
	flag.Parse()

	switch {
	case *setPassword:
		if err := storeMailboxPassword(); err != nil {
			log.Printf("Error storing mailbox password: %v", err)
			return 1
		}
		fmt.Println("Mailbox password saved to the system keyring.")
		return 0
	case *forgetPassword:
		if err := credential.Delete(credential.MailboxPassword); err != nil {
			log.Printf("Error removing mailbox password: %v", err)
			return 1
		}
		fmt.Println("Mailbox password removed.")
		return 0
	}

	if written, err := model.WriteDefaultConfig(*configPath); err != nil {
		log.Printf("Could not write default config: %v", err)
	} else if written {
		log.Printf("Wrote default config to %s", *configPath)
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		log.Printf("Error loading config: %v", err)
		return 1
	}
	if *dbPath != "" {
		cfg.Storage.Path = *dbPath
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}
	if flag.CommandLine.Changed("voice") {
		cfg.Voice.Enabled = *voiceOn
	}

	var (
		kv      store.KV
		journal store.NotificationLog
	)
	if *ephemeral {
		kv = store.NewMemoryKV()
	} else {
		db, err := store.NewSQLiteStore(cfg.Storage.Path)
		if err != nil {
			log.Printf("Error opening database: %v", err)
			return 1
		}
		defer db.Close()
		kv, journal = db, db
	}
	tasks := store.NewTaskStore(kv, cfg.Storage.Key, nil)
	speaker := speech.New(cfg.Voice.Command)
	defer speaker.Wait()

	var mailbox *notify.Mailbox
	if cfg.Mailbox.Enabled {
		mailbox = notify.NewMailbox(cfg.Mailbox, func() (string, error) {
			return credential.Lookup(credential.MailboxPasswordEnv, credential.MailboxPassword)
		})
		defer mailbox.Wait()
	}

	interval := time.Duration(cfg.Reminders.IntervalSec) * time.Second
	scanner := reminder.NewScanner(interval)
	opts := []tracker.Option{
		tracker.WithVoice(cfg.Voice.Enabled),
		tracker.WithNoticeDuration(time.Duration(cfg.Display.ToastSec) * time.Second),
	}

	switch {
	case *printSummary:
		ctrl := tracker.New(tasks, nil, nil)
		if err := ctrl.Load(context.Background()); err != nil {
			log.Printf("Error loading tasks: %v", err)
			return 1
		}
		fmt.Println(ctrl.Summary())

	case *watch:
		notifiers := notify.Fanout{notify.NewPrinter(os.Stdout, time.Now)}
		notifiers = appendSinks(notifiers, journal, mailbox)
		ctrl := tracker.New(tasks, notifiers, speaker, opts...)
		if err := runWatch(ctrl, scanner); err != nil {
			log.Printf("Error: %v", err)
			return 1
		}

	default:
		if err := runUI(cfg, tasks, journal, mailbox, speaker, scanner, opts); err != nil {
			log.Printf("Error: %v", err)
			return 1
		}
	}
	return 0
}

// runUI starts the full-screen terminal UI.
func runUI(
	cfg *model.AppConfig,
	tasks store.Store,
	journal store.NotificationLog,
	mailbox *notify.Mailbox,
	speaker *speech.Speaker,
	scanner *reminder.Scanner,
	opts []tracker.Option,
) error {
	if cfg.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		f, err := tea.LogToFile(cfg.Log.File, "taskwhisper")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
	}

	toasts := app.NewToasts(32)
	notifiers := appendSinks(notify.Fanout{toasts}, journal, mailbox)
	ctrl := tracker.New(tasks, notifiers, speaker, opts...)

	m := app.New(app.Options{
		Controller:    ctrl,
		Scanner:       scanner,
		Toasts:        toasts,
		Notifications: journal,
		SpeechEngine:  speaker.Engine(),
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	scanner.Stop()
	return err
}

// runWatch checks reminders on every scanner period until interrupted.
func runWatch(ctrl *tracker.Controller, scanner *reminder.Scanner) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ctrl.Load(ctx); err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}

	check := func(time.Time) {
		// CheckReminders reloads, so tasks added from another session are seen.
		if _, err := ctrl.CheckReminders(ctx); err != nil {
			log.Printf("reminder check failed: %v", err)
		}
	}

	log.Printf("Watching %d tasks, checking every %s", len(ctrl.Tasks()), scanner.Interval())
	check(time.Now())
	scanner.Run(ctx, check)
	return nil
}

// appendSinks adds the reminder journal and mailbox to f when configured.
func appendSinks(f notify.Fanout, journal store.NotificationLog, mailbox *notify.Mailbox) notify.Fanout {
	if journal != nil {
		f = append(f, notify.NewJournal(journal, time.Now))
	}
	if mailbox != nil {
		f = append(f, mailbox)
	}
	return f
}

// storeMailboxPassword reads a password from the terminal and saves it.
func storeMailboxPassword() error {
	fmt.Print("Mailbox password: ")
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	password := strings.TrimSpace(string(secret))
	if password == "" {
		return fmt.Errorf("empty password")
	}
	return credential.Set(credential.MailboxPassword, password)
}
