// Package config persists tool settings between runs, so hosts and
// credentials don't have to be repeated on every invocation.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const appDir = "moonlight-steam-shortcuts"

// RemoteConfig describes a remote machine whose Steam library gets edited
// over SSH, such as a Steam Deck.
type RemoteConfig struct {
	Host    string `json:"host"`
	Port    int    `json:"port,omitempty"`
	User    string `json:"user"`
	KeyFile string `json:"key_file,omitempty"`
}

// Config is the tool configuration. Every field has a matching command line
// flag; flags win over the file.
type Config struct {
	DefaultHost       string        `json:"default_host,omitempty"`
	Moonlight         string        `json:"moonlight,omitempty"`
	Flatpak           bool          `json:"flatpak,omitempty"`
	SteamUserdata     string        `json:"steam_userdata,omitempty"`
	User              string        `json:"user,omitempty"`
	Tag               string        `json:"tag,omitempty"`
	Remote            *RemoteConfig `json:"remote,omitempty"`
	SteamGridDBAPIKey string        `json:"steamgriddb_api_key,omitempty"`
}

// Path returns the path to the config file, creating its directory.
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = home
	}

	dir := filepath.Join(configDir, appDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(dir, "config.json"), nil
}

// Load reads the configuration from disk. A missing file yields defaults.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to disk. The file may hold an API key, so it
// is not world readable.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// GridDBAPIKey returns the SteamGridDB key, preferring the environment over
// the config file.
func (c *Config) GridDBAPIKey() string {
	if key := os.Getenv("STEAMGRIDDB_API_KEY"); key != "" {
		return key
	}
	return c.SteamGridDBAPIKey
}
