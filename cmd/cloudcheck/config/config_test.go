package config

import (
	"context"
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apicentric/cloudcheck/internal/session"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	doc, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load with missing file: %v", err)
	}
	if doc.Target.URL != "http://localhost:8080" {
		t.Fatalf("unexpected default target: %q", doc.Target.URL)
	}
	if doc.Dashboard.URL != "http://localhost:9002" {
		t.Fatalf("unexpected default dashboard: %q", doc.Dashboard.URL)
	}
	if doc.Dashboard.VideoDir != "webui" || doc.Dashboard.ScreenshotPath != "verification/dashboard.png" {
		t.Fatalf("unexpected dashboard defaults: %+v", doc.Dashboard)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloudcheck.yaml")
	content := `
target:
  url: https://cloud.example.com:8443
wait:
  timeout: 45s
  interval: 2s
client:
  insecure: true
  min_tls_version: "1.2"
logging:
  level: debug
  format: json
history:
  driver: sqlite
  sqlite:
    path: /tmp/runs.db
dashboard:
  url: http://dash.example.com:9002
  headful: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Target.URL != "https://cloud.example.com:8443" {
		t.Fatalf("target not loaded: %q", doc.Target.URL)
	}
	if doc.WaitTimeout() != 45*time.Second || doc.WaitInterval() != 2*time.Second {
		t.Fatalf("wait durations not parsed: %v / %v", doc.WaitTimeout(), doc.WaitInterval())
	}
	if doc.Logging.Level != "debug" || doc.Logging.Format != "json" {
		t.Fatalf("logging not loaded: %+v", doc.Logging)
	}
	if doc.History.SQLite.Path != "/tmp/runs.db" {
		t.Fatalf("history not loaded: %+v", doc.History)
	}
	if !doc.Dashboard.Headful || doc.Dashboard.URL != "http://dash.example.com:9002" {
		t.Fatalf("dashboard not loaded: %+v", doc.Dashboard)
	}

	tlsCfg := doc.TLSConfig()
	if !tlsCfg.InsecureSkipVerify {
		t.Fatalf("insecure flag not applied")
	}
	if tlsCfg.MinVersion != tls.VersionTLS12 {
		t.Fatalf("min TLS version not applied: %x", tlsCfg.MinVersion)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("target: [unclosed"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for malformed config")
	}
}

func TestParseTLSVersion(t *testing.T) {
	cases := []struct {
		input string
		want  uint16
	}{
		{"1.0", tls.VersionTLS10},
		{"tls1.1", tls.VersionTLS11},
		{"12", tls.VersionTLS12},
		{"TLS1.3", tls.VersionTLS13},
		{"", 0},
		{"2.0", 0},
	}
	for _, tc := range cases {
		if got := parseTLSVersion(tc.input); got != tc.want {
			t.Errorf("parseTLSVersion(%q) = %x, want %x", tc.input, got, tc.want)
		}
	}
}

func TestWaitDurationsDefaultToZero(t *testing.T) {
	doc := &ConfigDoc{Wait: WaitConfig{Timeout: "not-a-duration"}}
	if doc.WaitTimeout() != 0 {
		t.Fatalf("garbage duration must fall back to zero")
	}
	if doc.WaitInterval() != 0 {
		t.Fatalf("empty interval must be zero")
	}
}

func TestMaskingEnabled(t *testing.T) {
	if !(&ConfigDoc{}).MaskingEnabled() {
		t.Fatalf("masking must default to on")
	}

	off := false
	if (&ConfigDoc{Logging: LoggingConfig{MaskSensitive: &off}}).MaskingEnabled() {
		t.Fatalf("mask_sensitive: false must turn masking off")
	}

	on := true
	if !(&ConfigDoc{Logging: LoggingConfig{MaskSensitive: &on}}).MaskingEnabled() {
		t.Fatalf("explicit mask_sensitive: true must keep masking on")
	}
}

func TestLoadMaskSensitiveFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloudcheck.yaml")
	content := `
logging:
  format: color
  mask_sensitive: false
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	doc, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Logging.MaskSensitive == nil || *doc.Logging.MaskSensitive {
		t.Fatalf("mask_sensitive not decoded: %+v", doc.Logging)
	}
	if doc.MaskingEnabled() {
		t.Fatalf("decoded flag must disable masking")
	}
}

func TestBootstrapNoAuthSection(t *testing.T) {
	doc := &ConfigDoc{}
	sess := session.New()
	if err := doc.Bootstrap(context.Background(), sess); err != nil {
		t.Fatalf("empty auth section must be a no-op: %v", err)
	}
	if sess.HasToken() {
		t.Fatalf("no-op bootstrap must not set a token")
	}
}

func TestBootstrapRejectsUnknownType(t *testing.T) {
	doc := &ConfigDoc{Auth: AuthConfig{Type: "basic"}}
	if err := doc.Bootstrap(context.Background(), session.New()); err == nil {
		t.Fatalf("expected error for unsupported auth type")
	}
}

func TestOpenHistoryDisabled(t *testing.T) {
	doc := &ConfigDoc{History: HistoryConfig{Disabled: true}}
	store, err := doc.OpenHistory()
	if err != nil {
		t.Fatalf("disabled history: %v", err)
	}
	if store != nil {
		t.Fatalf("expected nil store when disabled")
	}
}
