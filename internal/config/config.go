// Package config holds the connection target and the persisted settings
// file (~/.rsync-tui/config.yaml).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/zhubert/rsync-tui/internal/errors"
)

// Progress modes map onto rsync's progress flags.
const (
	ProgressTotal = "total" // --info=progress2, one aggregate line per job
	ProgressFile  = "file"  // --progress, one line per file
)

// Lister backends.
const (
	ListerSSH  = "ssh"
	ListerSFTP = "sftp"
)

const (
	DefaultDestination = "."
	DefaultConcurrency = 1
	MaxConcurrency     = 16
)

// Config holds user settings. Every field is optional in the file.
type Config struct {
	Destination    string   `yaml:"destination,omitempty"`
	Concurrency    int      `yaml:"concurrency,omitempty"`
	ProgressMode   string   `yaml:"progress_mode,omitempty"`
	FollowSymlinks bool     `yaml:"follow_symlinks,omitempty"`
	Notifications  bool     `yaml:"notifications,omitempty"`
	Theme          string   `yaml:"theme,omitempty"`
	Lister         string   `yaml:"lister,omitempty"`
	SSHOptions     []string `yaml:"ssh_options,omitempty"`      // extra "-o" values
	RsyncArgs      []string `yaml:"rsync_args,omitempty"`       // appended before source/dest
	IdentityFile   string   `yaml:"identity_file,omitempty"`    // sftp lister only
	KnownHostsFile string   `yaml:"known_hosts_file,omitempty"` // sftp lister only

	mu       sync.RWMutex
	filePath string
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".rsync-tui"), nil
}

// DefaultPath returns ~/.rsync-tui/config.yaml.
func DefaultPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the default config file. A missing file yields defaults.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, errors.ConfigLoadFailed("~/.rsync-tui", err)
	}
	return LoadFrom(path)
}

// LoadFrom reads path. A missing file yields defaults; a malformed or
// invalid one is a configuration error.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{filePath: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg.applyDefaults()
		return cfg, nil
	}
	if err != nil {
		return nil, errors.ConfigLoadFailed(path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.ConfigLoadFailed(path, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills zero values. Only called before the Config is shared.
func (c *Config) applyDefaults() {
	if c.Destination == "" {
		c.Destination = DefaultDestination
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.ProgressMode == "" {
		c.ProgressMode = ProgressTotal
	}
	if c.Lister == "" {
		c.Lister = ListerSSH
	}
}

// Validate checks field ranges and enum values.
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.Concurrency < 1 || c.Concurrency > MaxConcurrency {
		return errors.ConfigurationError(fmt.Sprintf("concurrency must be between 1 and %d, got %d", MaxConcurrency, c.Concurrency))
	}
	switch c.ProgressMode {
	case ProgressTotal, ProgressFile:
	default:
		return errors.ConfigurationError(fmt.Sprintf("progress_mode must be %q or %q, got %q", ProgressTotal, ProgressFile, c.ProgressMode))
	}
	switch c.Lister {
	case ListerSSH, ListerSFTP:
	default:
		return errors.ConfigurationError(fmt.Sprintf("lister must be %q or %q, got %q", ListerSSH, ListerSFTP, c.Lister))
	}
	return nil
}

// Save writes the destination back to the file the config was loaded
// from. Every other key keeps its value from the file, so command-line
// overrides applied to the Config are never persisted.
func (c *Config) Save() error {
	c.mu.RLock()
	dest, path := c.Destination, c.filePath
	c.mu.RUnlock()

	if path == "" {
		return nil
	}
	var doc yaml.Node
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if err := setKey(&doc, "destination", dest); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	out, err := yaml.Marshal(&doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0644)
}

// setKey sets a top-level string key in a YAML document, keeping the
// order and comments of the other keys.
func setKey(doc *yaml.Node, key, value string) error {
	doc.Kind = yaml.DocumentNode
	if len(doc.Content) == 0 {
		doc.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return fmt.Errorf("settings file is not a mapping")
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1].SetString(value)
			return nil
		}
	}
	k, v := &yaml.Node{}, &yaml.Node{}
	k.SetString(key)
	v.SetString(value)
	m.Content = append(m.Content, k, v)
	return nil
}

// GetDestination returns the default local destination root.
func (c *Config) GetDestination() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Destination
}

// SetDestination remembers dest as the default for the next batch.
// Returns true when the value changed.
func (c *Config) SetDestination(dest string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if dest == "" || dest == c.Destination {
		return false
	}
	c.Destination = dest
	return true
}

// GetNotificationsEnabled reports whether a desktop notification is sent
// when the queue drains.
func (c *Config) GetNotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Notifications
}

// GetTheme returns the configured UI theme name, or "" for the default.
func (c *Config) GetTheme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Theme
}
