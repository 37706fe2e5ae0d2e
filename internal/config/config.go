// Package config loads the CLI configuration from voxhire.yaml plus
// VOXHIRE_* environment variables. Precedence: env > config file > defaults.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the CLI needs to talk to the backend and the
// local audio devices.
type Config struct {
	// BaseURL is the backend origin.
	BaseURL string
	// Timeout bounds each backend request.
	Timeout time.Duration
	// AudioEnabled toggles question playback through the local speaker.
	AudioEnabled bool
	// AudioInput overrides the capture device passed to ffmpeg.
	AudioInput string
	// CredentialsFile is where the login token is stored.
	CredentialsFile string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

func defaults() *Config {
	return &Config{
		BaseURL:      "http://localhost:8000",
		Timeout:      10 * time.Second,
		AudioEnabled: true,
		LogLevel:     "warn",
	}
}

// Load reads voxhire.yaml from the user config directory or the current
// directory. A missing file is not an error; defaults apply.
func Load() (*Config, error) {
	cfg := defaults()

	v := viper.New()
	v.SetConfigName("voxhire")
	v.SetConfigType("yaml")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, "voxhire"))
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("VOXHIRE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api.base_url", cfg.BaseURL)
	v.SetDefault("api.timeout", cfg.Timeout)
	v.SetDefault("audio.enabled", cfg.AudioEnabled)
	v.SetDefault("audio.input", cfg.AudioInput)
	v.SetDefault("auth.credentials_file", defaultCredentialsFile())
	v.SetDefault("log.level", cfg.LogLevel)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading voxhire.yaml: %w", err)
		}
	}

	cfg.BaseURL = v.GetString("api.base_url")
	cfg.Timeout = v.GetDuration("api.timeout")
	cfg.AudioEnabled = v.GetBool("audio.enabled")
	cfg.AudioInput = v.GetString("audio.input")
	cfg.CredentialsFile = v.GetString("auth.credentials_file")
	cfg.LogLevel = v.GetString("log.level")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values and returns a clear message naming the
// offending key.
func (c *Config) Validate() error {
	var errs []string

	parsed, err := url.Parse(c.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		errs = append(errs, fmt.Sprintf("api.base_url %q must be an absolute http(s) URL", c.BaseURL))
	} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
		errs = append(errs, fmt.Sprintf("api.base_url scheme %q is not supported", parsed.Scheme))
	}

	if c.Timeout <= 0 {
		errs = append(errs, fmt.Sprintf("api.timeout must be positive, got %s", c.Timeout))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level %q is invalid, must be one of: debug, info, warn, error", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func defaultCredentialsFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".voxhire-credentials"
	}
	return filepath.Join(dir, "voxhire", "credentials")
}
