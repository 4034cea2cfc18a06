// Package config loads the harness configuration document and turns it into
// runtime settings: target URL, readiness budget, TLS options, optional
// OAuth2 bootstrap, run-history store and logging.
package config

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/apicentric/cloudcheck/internal/auth"
	"github.com/apicentric/cloudcheck/internal/common"
	"github.com/apicentric/cloudcheck/internal/history"
	"github.com/apicentric/cloudcheck/internal/session"
)

// TargetConfig identifies the server under test.
type TargetConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// WaitConfig tunes the readiness probe.
type WaitConfig struct {
	Timeout  string `mapstructure:"timeout" yaml:"timeout"`
	Interval string `mapstructure:"interval" yaml:"interval"`
}

// AuthConfig optionally bootstraps the session token before stages run.
// Only the oauth2 type is supported; plain instances leave this empty.
type AuthConfig struct {
	Type   string                 `mapstructure:"type" yaml:"type"`
	Config map[string]interface{} `mapstructure:"config" yaml:"config"`
}

// ClientConfig carries TLS options applied to every request.
type ClientConfig struct {
	Insecure      bool   `mapstructure:"insecure" yaml:"insecure"`
	MinTLSVersion string `mapstructure:"min_tls_version" yaml:"min_tls_version"`
	MaxTLSVersion string `mapstructure:"max_tls_version" yaml:"max_tls_version"`
}

// LoggingConfig selects level and output format.
type LoggingConfig struct {
	Level         string `mapstructure:"level" yaml:"level"`
	Format        string `mapstructure:"format" yaml:"format"` // text, json, color
	MaskSensitive *bool  `mapstructure:"mask_sensitive" yaml:"mask_sensitive"`
}

// HistoryConfig enables run persistence.
type HistoryConfig struct {
	Disabled bool                   `mapstructure:"disabled" yaml:"disabled"`
	Driver   string                 `mapstructure:"driver" yaml:"driver"`
	SQLite   history.SQLiteConfig   `mapstructure:"sqlite" yaml:"sqlite"`
	Postgres history.PostgresConfig `mapstructure:"postgres" yaml:"postgres"`
}

// DashboardConfig configures the browser-driven modes.
type DashboardConfig struct {
	URL            string `mapstructure:"url" yaml:"url"`
	VideoDir       string `mapstructure:"video_dir" yaml:"video_dir"`
	ScreenshotPath string `mapstructure:"screenshot_path" yaml:"screenshot_path"`
	Headful        bool   `mapstructure:"headful" yaml:"headful"`
}

// ConfigDoc is the full configuration document.
type ConfigDoc struct {
	Target    TargetConfig    `mapstructure:"target" yaml:"target"`
	Wait      WaitConfig      `mapstructure:"wait" yaml:"wait"`
	Auth      AuthConfig      `mapstructure:"auth" yaml:"auth"`
	Client    ClientConfig    `mapstructure:"client" yaml:"client"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	History   HistoryConfig   `mapstructure:"history" yaml:"history"`
	Dashboard DashboardConfig `mapstructure:"dashboard" yaml:"dashboard"`
}

// Load reads the config file when present and overlays CLOUDCHECK_*
// environment variables. A missing file is fine; defaults cover a local
// server.
func Load(path string) (*ConfigDoc, error) {
	v := viper.New()
	v.SetEnvPrefix("CLOUDCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("target.url", "http://localhost:8080")
	v.SetDefault("dashboard.url", "http://localhost:9002")
	v.SetDefault("dashboard.video_dir", "webui")
	v.SetDefault("dashboard.screenshot_path", "verification/dashboard.png")

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, statErr := os.Stat(path); statErr == nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
			// No file at the default path: run on defaults.
		}
	}

	var doc ConfigDoc
	if err := v.Unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &doc, nil
}

// SetupLogger installs the global logger per the logging section.
func (c *ConfigDoc) SetupLogger() {
	level := common.ParseLogLevel(strings.TrimSpace(strings.ToLower(c.Logging.Level)))

	var logger *common.Logger
	switch strings.TrimSpace(strings.ToLower(c.Logging.Format)) {
	case "json":
		logger = common.NewJSONLogger(level)
	case "color":
		logger = common.NewColorLoggerWithMasking(level, c.MaskingEnabled())
	default:
		logger = common.NewLogger(level)
	}
	common.SetDefaultLogger(logger)
}

// MaskingEnabled reports whether log output should redact secrets. Masking is
// on unless the config explicitly turns it off.
func (c *ConfigDoc) MaskingEnabled() bool {
	return c.Logging.MaskSensitive == nil || *c.Logging.MaskSensitive
}

// parseTLSVersion converts a TLS version string to the crypto/tls constant.
// Returns 0 when unrecognized.
func parseTLSVersion(version string) uint16 {
	switch strings.TrimSpace(strings.ToLower(version)) {
	case "1.0", "10", "tls1.0", "tls10":
		return tls.VersionTLS10
	case "1.1", "11", "tls1.1", "tls11":
		return tls.VersionTLS11
	case "1.2", "12", "tls1.2", "tls12":
		return tls.VersionTLS12
	case "1.3", "13", "tls1.3", "tls13":
		return tls.VersionTLS13
	default:
		return 0
	}
}

// TLSConfig materializes the client section.
func (c *ConfigDoc) TLSConfig() *tls.Config {
	// #nosec G402 -- insecure mode is an explicit opt-in for self-signed test instances
	cfg := &tls.Config{
		MinVersion: parseTLSVersion(c.Client.MinTLSVersion),
		MaxVersion: parseTLSVersion(c.Client.MaxTLSVersion),
	}
	if c.Client.Insecure {
		cfg.InsecureSkipVerify = true
	}
	return cfg
}

// WaitTimeout returns the configured readiness timeout, or zero for default.
func (c *ConfigDoc) WaitTimeout() time.Duration {
	return parseDuration(c.Wait.Timeout)
}

// WaitInterval returns the configured poll interval, or zero for default.
func (c *ConfigDoc) WaitInterval() time.Duration {
	return parseDuration(c.Wait.Interval)
}

func parseDuration(s string) time.Duration {
	if t := strings.TrimSpace(s); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			return d
		}
	}
	return 0
}

// OpenHistory opens the run-history store, or returns nil when disabled.
func (c *ConfigDoc) OpenHistory() (*history.Store, error) {
	if c.History.Disabled {
		return nil, nil
	}
	return history.Open(history.Config{
		Driver:   c.History.Driver,
		SQLite:   c.History.SQLite,
		Postgres: c.History.Postgres,
	})
}

// Bootstrap acquires an initial session token when an auth section is
// configured. Without one it returns the empty session untouched.
func (c *ConfigDoc) Bootstrap(ctx context.Context, sess *session.Session) error {
	typ := strings.TrimSpace(strings.ToLower(c.Auth.Type))
	if typ == "" {
		return nil
	}
	if typ != "oauth2" {
		return fmt.Errorf("auth: unsupported type: %s", c.Auth.Type)
	}
	cfg, err := auth.DecodeOAuth2Config(c.Auth.Config)
	if err != nil {
		return fmt.Errorf("auth: decode oauth2 config: %w", err)
	}
	tok, err := auth.AcquireOAuth2(ctx, cfg)
	if err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	sess.SetToken(tok)
	common.GetLogger().WithComponent("config").Info("session token bootstrapped via oauth2")
	return nil
}
