package model

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultStorageKey is the slot that holds the task collection.
const DefaultStorageKey = "task-whisperer-tasks"

// StorageConfig controls where tasks are persisted.
type StorageConfig struct {
	// Path is the SQLite database file backing the key-value slot.
	Path string `mapstructure:"path" yaml:"path"`

	// Key is the slot name holding the JSON task collection.
	Key string `mapstructure:"key" yaml:"key"`
}

// ReminderConfig controls the due-soon scanner.
type ReminderConfig struct {
	IntervalSec int `mapstructure:"interval_sec" yaml:"interval_sec"`
}

// VoiceConfig controls spoken output.
type VoiceConfig struct {
	// Enabled is the voice flag at startup.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Command overrides the detected speech command (e.g. "espeak-ng").
	Command string `mapstructure:"command" yaml:"command"`
}

// MailboxConfig holds the IMAP mailbox that receives reminder messages.
type MailboxConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     string `mapstructure:"port" yaml:"port"`
	Username string `mapstructure:"username" yaml:"username"`
	TLS      bool   `mapstructure:"tls" yaml:"tls"`
	Mailbox  string `mapstructure:"mailbox" yaml:"mailbox"`
	From     string `mapstructure:"from" yaml:"from"`
	To       string `mapstructure:"to" yaml:"to"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	ToastSec int `mapstructure:"toast_sec" yaml:"toast_sec"`
}

// LogConfig controls where diagnostic logs go in TUI mode.
type LogConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage   StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Reminders ReminderConfig `mapstructure:"reminders" yaml:"reminders"`
	Voice     VoiceConfig    `mapstructure:"voice" yaml:"voice"`
	Mailbox   MailboxConfig  `mapstructure:"mailbox" yaml:"mailbox"`
	Display   DisplayConfig  `mapstructure:"display" yaml:"display"`
	Log       LogConfig      `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskwhisper/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "taskwhisper", "config.yaml")
}

// DefaultDataPath returns the default SQLite file,
// located at ~/.local/share/taskwhisper/tasks.db.
func DefaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "tasks.db")
	}
	return filepath.Join(home, ".local", "share", "taskwhisper", "tasks.db")
}

// DefaultLogPath returns the default debug log file used in TUI mode.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "taskwhisper.log")
	}
	return filepath.Join(home, ".local", "state", "taskwhisper", "debug.log")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{
			Path: DefaultDataPath(),
			Key:  DefaultStorageKey,
		},
		Reminders: ReminderConfig{IntervalSec: 60},
		Mailbox: MailboxConfig{
			Port:    "993",
			TLS:     true,
			Mailbox: "INBOX",
		},
		Display: DisplayConfig{ToastSec: 3},
		Log:     LogConfig{File: DefaultLogPath()},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// A .env file in the working directory is loaded first, and TASKWHISPER_*
// environment variables override file values. If the file does not exist,
// defaults are used.
func LoadConfig(path string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	def := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("TASKWHISPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("storage.path", def.Storage.Path)
	v.SetDefault("storage.key", def.Storage.Key)
	v.SetDefault("reminders.interval_sec", def.Reminders.IntervalSec)
	v.SetDefault("voice.enabled", false)
	v.SetDefault("voice.command", "")
	v.SetDefault("mailbox.enabled", false)
	v.SetDefault("mailbox.host", "")
	v.SetDefault("mailbox.port", def.Mailbox.Port)
	v.SetDefault("mailbox.username", "")
	v.SetDefault("mailbox.tls", def.Mailbox.TLS)
	v.SetDefault("mailbox.mailbox", def.Mailbox.Mailbox)
	v.SetDefault("mailbox.from", "")
	v.SetDefault("mailbox.to", "")
	v.SetDefault("display.toast_sec", def.Display.ToastSec)
	v.SetDefault("log.file", def.Log.File)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *fs.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := def
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Storage.Key == "" {
		cfg.Storage.Key = DefaultStorageKey
	}
	if cfg.Reminders.IntervalSec <= 0 {
		cfg.Reminders.IntervalSec = 60
	}
	if cfg.Display.ToastSec <= 0 {
		cfg.Display.ToastSec = 3
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", cfg.Storage)
	v.Set("reminders", cfg.Reminders)
	v.Set("voice", cfg.Voice)
	v.Set("mailbox", cfg.Mailbox)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// WriteDefaultConfig writes the default configuration to path when no file
// exists there yet. It reports whether a file was written.
func WriteDefaultConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("checking config %s: %w", path, err)
	}
	if err := SaveConfig(path, defaultAppConfig()); err != nil {
		return false, err
	}
	return true, nil
}
