package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configName     = ".wekan"
	configType     = "env"
	configFileMode = 0o600

	keyBaseURL  = "wekan_base_url"
	keyUsername = "wekan_username"
	keyPassword = "wekan_password"
	keyToken    = "wekan_token"
	keyTimeout  = "wekan_timeout"

	// defaultTimeoutMS is the request timeout in milliseconds.
	defaultTimeoutMS = 30000
)

// Config holds the connection settings resolved from the .wekan file and
// the environment. Environment variables take precedence over the file.
type Config struct {
	BaseURL  string
	Username string
	Password string
	Token    string
	Timeout  time.Duration

	// Path is where the settings were read from, empty when only the
	// environment contributed.
	Path string
}

// Load resolves settings from a .wekan file (current directory first,
// then the home directory) merged with WEKAN_* environment variables.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(cfg *viper.Viper) (*Config, error) {
	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		cfg.AddConfigPath(homeDir)
	}
	cfg.SetDefault(keyTimeout, defaultTimeoutMS)
	cfg.AutomaticEnv()

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	config := &Config{
		BaseURL:  normalizeBaseURL(cfg.GetString(keyBaseURL)),
		Username: cfg.GetString(keyUsername),
		Password: cfg.GetString(keyPassword),
		Token:    cfg.GetString(keyToken),
		Timeout:  time.Duration(cfg.GetInt(keyTimeout)) * time.Millisecond,
		Path:     cfg.ConfigFileUsed(),
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeoutMS * time.Millisecond
	}

	return config, nil
}

// Validate reports whether the settings are sufficient to open a
// session.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("WEKAN_BASE_URL is not set")
	}
	parsed, err := url.Parse(c.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("WEKAN_BASE_URL %q is not a valid absolute URL", c.BaseURL)
	}
	if c.Username == "" {
		return errors.New("WEKAN_USERNAME is not set")
	}
	if c.Password == "" {
		return errors.New("WEKAN_PASSWORD is not set")
	}
	return nil
}

// DefaultPath returns where Save writes when no file exists yet: a
// .wekan file in the user's home directory.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, configName), nil
}

// Save writes the settings in KEY=VALUE form to path. Empty values are
// omitted; the timeout is always written so the file round-trips.
func (c *Config) Save(path string) error {
	entries := map[string]string{
		"WEKAN_BASE_URL": c.BaseURL,
		"WEKAN_USERNAME": c.Username,
		"WEKAN_PASSWORD": c.Password,
		"WEKAN_TOKEN":    c.Token,
	}

	keys := make([]string, 0, len(entries))
	for key, value := range entries {
		if value != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var builder strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&builder, "%s=%s\n", key, entries[key])
	}
	fmt.Fprintf(&builder, "WEKAN_TIMEOUT=%d\n", c.Timeout.Milliseconds())

	if err := os.WriteFile(path, []byte(builder.String()), configFileMode); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// normalizeBaseURL strips a trailing slash so request paths can always
// be joined with a leading one.
func normalizeBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}
