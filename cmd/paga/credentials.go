package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/99designs/keyring"
	"github.com/kod2ulz/gostart/utils"
	"github.com/pkg/errors"
)

const (
	serviceName    = "paga-business"
	credentialsKey = "default"
)

// openKeyring can be replaced in tests with an in-memory keyring.
var openKeyring = func(cfg keyring.Config) (keyring.Keyring, error) {
	return keyring.Open(cfg)
}

var stdinHasTTY = func() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// SetOpenKeyring swaps the keyring opener and returns a restore func.
func SetOpenKeyring(fn func(keyring.Config) (keyring.Keyring, error)) func() {
	original := openKeyring
	openKeyring = fn
	return func() { openKeyring = original }
}

// Credentials are the secrets issued by paga for a business account.
type Credentials struct {
	ApiKey     string `json:"api_key"`
	Principal  string `json:"principal"`
	Credential string `json:"credential"`
}

func (c Credentials) Complete() bool {
	return c.ApiKey != "" && c.Principal != "" && c.Credential != ""
}

func keyringConfig() keyring.Config {
	env := utils.Env.Helper("PAGA_KEYRING")
	cfg := keyring.Config{
		ServiceName:      serviceName,
		FileDir:          keyringFileDir(env.Get("DIR", "").String()),
		FilePasswordFunc: keyringFilePassword,
	}
	switch strings.ToLower(env.Get("BACKEND", "auto").String()) {
	case "file":
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	case "auto", "":
		if runtime.GOOS == "linux" && os.Getenv("DBUS_SESSION_BUS_ADDRESS") == "" {
			cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
		}
	}
	return cfg
}

func keyringFileDir(base string) string {
	if base != "" {
		return base
	}
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, serviceName, "keyring")
	}
	return filepath.Join(os.TempDir(), serviceName, "keyring")
}

func keyringFilePassword(prompt string) (string, error) {
	if password := utils.Env.Helper("PAGA_KEYRING").Get("PASSWORD", "").String(); password != "" {
		return password, nil
	} else if !stdinHasTTY() {
		return "", errors.New("set PAGA_KEYRING_PASSWORD when using the file keyring without a terminal")
	}
	return keyring.TerminalPrompt(prompt)
}

func SaveCredentials(creds Credentials) error {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return errors.Wrap(err, "failed to open keyring")
	}
	data, err := json.Marshal(creds)
	if err != nil {
		return errors.Wrap(err, "failed to encode credentials")
	}
	return errors.Wrap(ring.Set(keyring.Item{
		Key:   credentialsKey,
		Data:  data,
		Label: "paga business credentials",
	}), "failed to store credentials")
}

// LoadCredentials returns empty credentials when none are stored.
func LoadCredentials() (out Credentials, err error) {
	var item keyring.Item
	var ring keyring.Keyring
	if ring, err = openKeyring(keyringConfig()); err != nil {
		return out, errors.Wrap(err, "failed to open keyring")
	} else if item, err = ring.Get(credentialsKey); errors.Is(err, keyring.ErrKeyNotFound) {
		return out, nil
	} else if err != nil {
		return out, errors.Wrap(err, "failed to read credentials")
	} else if err = json.Unmarshal(item.Data, &out); err != nil {
		return out, errors.Wrap(err, "stored credentials are corrupt")
	}
	return
}

func DeleteCredentials() error {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return errors.Wrap(err, "failed to open keyring")
	}
	if err = ring.Remove(credentialsKey); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return errors.Wrap(err, "failed to remove credentials")
	}
	return nil
}
