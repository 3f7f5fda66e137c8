// Package credential keeps secrets, such as the reminder mailbox password,
// in the operating system keyring.
package credential

import (
	"errors"
	"fmt"
	"os"

	"github.com/99designs/keyring"
)

const serviceName = "taskwhisper"

// MailboxPassword is the keyring entry holding the IMAP password.
const MailboxPassword = "mailbox-password"

// MailboxPasswordEnv overrides the keyring entry when set.
const MailboxPasswordEnv = "TASKWHISPER_MAILBOX_PASSWORD"

// ErrNotFound is returned when neither the environment nor the keyring
// holds the requested secret.
var ErrNotFound = errors.New("credential not found")

// openRing is swapped out in tests.
var openRing = func() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/taskwhisper/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("taskwhisper-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get retrieves a secret by key from the system keyring.
func Get(key string) (string, error) {
	ring, err := openRing()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", fmt.Errorf("getting credential %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Lookup returns the value of envVar when it is set, and falls back to
// the keyring entry key otherwise.
func Lookup(envVar, key string) (string, error) {
	if v, ok := os.LookupEnv(envVar); ok && v != "" {
		return v, nil
	}
	return Get(key)
}

// Set stores a secret by key in the system keyring.
func Set(key string, value string) error {
	ring, err := openRing()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:         key,
		Data:        []byte(value),
		Label:       "Task Whisper " + key,
		Description: "Task Whisper credential",
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a secret by key from the system keyring.
// Removing a missing key is not an error.
func Delete(key string) error {
	ring, err := openRing()
	if err != nil {
		return err
	}

	err = ring.Remove(key)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}
