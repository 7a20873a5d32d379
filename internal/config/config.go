package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// FileName is the credential file kept in the user's home directory.
const FileName = ".spotify-cli-config.json"

// Keys stored in the config file. The environment variables of the same
// name take precedence over the file.
const (
	KeyClientID     = "SPOTIFY_CLIENT_ID"
	KeyClientSecret = "SPOTIFY_CLIENT_SECRET"
	KeyPlayer       = "SPOTCTL_PLAYER"
	KeyMPRISService = "SPOTCTL_MPRIS_SERVICE"
	KeyTimeout      = "SPOTCTL_TIMEOUT"
	KeyLogLevel     = "SPOTCTL_LOG_LEVEL"
)

// Defaults for optional settings.
const (
	DefaultPlayer       = "auto"
	DefaultMPRISService = "org.mpris.MediaPlayer2.spotify"
	DefaultTimeout      = 10 * time.Second
	DefaultLogLevel     = "warn"
)

// Credentials holds the Spotify client-credential pair
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Settings holds optional runtime settings
type Settings struct {
	// Player backend: auto, applescript or mpris
	Player string

	// MPRIS bus name used by the mpris backend
	MPRISService string

	// Timeout applied to every network and player call
	Timeout time.Duration

	// Log level for stderr diagnostics
	LogLevel string
}

// Store reads and writes the config file at a fixed path
type Store struct {
	path string
}

// NewStore creates a store bound to path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns ~/.spotify-cli-config.json, falling back to the
// working directory when the home directory is unknown
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(homeDir, FileName)
}

// Path returns the file the store is bound to
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored credentials merged with the environment.
// Returns nil with no error when either field is missing.
func (s *Store) Load() (*Credentials, error) {
	v, err := s.viper()
	if err != nil {
		return nil, err
	}

	creds := &Credentials{
		ClientID:     v.GetString(KeyClientID),
		ClientSecret: v.GetString(KeyClientSecret),
	}
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, nil
	}
	return creds, nil
}

// Previous returns whatever credential values are present, even if only one
// of them is set. The setup flow uses them as prompt defaults.
func (s *Store) Previous() Credentials {
	v, err := s.viper()
	if err != nil {
		return Credentials{}
	}
	return Credentials{
		ClientID:     v.GetString(KeyClientID),
		ClientSecret: v.GetString(KeyClientSecret),
	}
}

// Settings returns the optional settings with defaults applied
func (s *Store) Settings() (Settings, error) {
	v, err := s.viper()
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		Player:       v.GetString(KeyPlayer),
		MPRISService: v.GetString(KeyMPRISService),
		Timeout:      v.GetDuration(KeyTimeout),
		LogLevel:     v.GetString(KeyLogLevel),
	}, nil
}

// viper builds a viper instance over the config file and environment
func (s *Store) viper() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("json")

	v.SetDefault(KeyPlayer, DefaultPlayer)
	v.SetDefault(KeyMPRISService, DefaultMPRISService)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)

	// Environment wins over the file
	v.AutomaticEnv()

	// A missing file just means nothing has been configured yet
	if _, err := os.Stat(s.path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", s.path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config %s: %w", s.path, err)
	}

	return v, nil
}

// Save writes the credentials to the config file, keeping any other keys
// already present. The file is replaced atomically; last write wins.
//
// viper lowercases keys on write, so the file is encoded directly to keep
// the SPOTIFY_* key names readable by other tools.
func (s *Store) Save(creds Credentials) error {
	record := make(map[string]interface{})

	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &record); err != nil {
			return fmt.Errorf("failed to parse existing config %s: %w", s.path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return fmt.Errorf("failed to read config %s: %w", s.path, err)
	}

	record[KeyClientID] = creds.ClientID
	record[KeyClientSecret] = creds.ClientSecret

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".spotctl-config-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(out, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set config permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}
