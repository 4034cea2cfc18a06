// Package cloudcheck verifies a running Apicentric cloud server from the
// outside: it waits for the server to come up, walks an ordered sequence of
// authenticated API operations, and reports every outcome without stopping
// on failure. A separate browser-driven mode exercises the web dashboard
// against a fully mocked backend.
package cloudcheck

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"os"
	"time"

	"github.com/apicentric/cloudcheck/internal/common"
	"github.com/apicentric/cloudcheck/internal/dashboard"
	"github.com/apicentric/cloudcheck/internal/executor"
	"github.com/apicentric/cloudcheck/internal/history"
	"github.com/apicentric/cloudcheck/internal/httpc"
	"github.com/apicentric/cloudcheck/internal/probe"
	"github.com/apicentric/cloudcheck/internal/report"
	"github.com/apicentric/cloudcheck/internal/session"
	"github.com/apicentric/cloudcheck/internal/stage"
)

// Re-export commonly used types for embedding users.

// Session is the single mutable token slot for a run.
type Session = session.Session

// Outcome is the normalized result of one HTTP operation.
type Outcome = executor.Outcome

// Entry is one recorded operation outcome.
type Entry = report.Entry

// HistoryStore persists run outcomes.
type HistoryStore = history.Store

// HistoryConfig selects and configures the history backend.
type HistoryConfig = history.Config

// DashboardOptions configures a browser-driven dashboard session.
type DashboardOptions = dashboard.Options

// NewSession returns an empty session.
func NewSession() *Session { return session.New() }

// OpenHistory opens the run-history store.
func OpenHistory(cfg HistoryConfig) (*HistoryStore, error) { return history.Open(cfg) }

// RecordDemo records the mocked dashboard walkthrough video.
func RecordDemo(opts DashboardOptions) error { return dashboard.RecordDemo(opts) }

// VerifyDashboard captures the mocked dashboard screenshot.
func VerifyDashboard(opts DashboardOptions) error { return dashboard.VerifyDashboard(opts) }

// ErrNotReady is returned when the server never answers its liveness check
// within the readiness budget. It is the one error that aborts a run before
// any stage executes.
var ErrNotReady = errors.New("cloudcheck: server failed readiness check")

// VerifyOptions configures a full API verification run.
type VerifyOptions struct {
	// BaseURL of the server under test, e.g. http://localhost:8080.
	BaseURL string
	// ReadyTimeout bounds the readiness wait; zero selects the default.
	ReadyTimeout time.Duration
	// ReadyInterval is the poll interval; zero selects the default 1s.
	ReadyInterval time.Duration
	// TLS applies to all requests, probe included.
	TLS *tls.Config
	// Out receives the streamed pass/fail report; nil selects stdout.
	Out io.Writer
	// Color enables ANSI colors in the report output.
	Color bool
	// Session carries the bearer token; nil creates a fresh empty session.
	// Pre-seeding a token (e.g. from an OAuth2 bootstrap) is supported.
	Session *Session
	// History, when set, receives every recorded entry under RunID.
	History *HistoryStore
	RunID   string
}

// Verify waits for readiness and then drives the fixed verification sequence
// against the target. It returns the recorded entries; the only error
// conditions are readiness failure and a malformed plan. Individual
// operation failures are entries, not errors.
func Verify(ctx context.Context, opts VerifyOptions) ([]Entry, error) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	sess := opts.Session
	if sess == nil {
		sess = session.New()
	}

	client := &httpc.Httpc{TlsConfig: opts.TLS}

	p := probe.New(&httpc.Httpc{TlsConfig: opts.TLS})
	if opts.ReadyTimeout > 0 {
		p.Timeout = opts.ReadyTimeout
	}
	if opts.ReadyInterval > 0 {
		p.Interval = opts.ReadyInterval
	}
	if !p.WaitReady(ctx, opts.BaseURL) {
		return nil, ErrNotReady
	}

	stages, err := stage.Plan()
	if err != nil {
		return nil, err
	}

	rep := report.New(out, opts.Color)
	if opts.History != nil {
		rep.SetSink(opts.RunID, opts.History)
	}
	rep.Begin()

	exec := executor.New(opts.BaseURL, sess, client)
	stage.NewRunner(exec, sess, stages).RunAll(ctx, rep)

	common.GetLogger().WithComponent("cloudcheck").Info("verification run finished",
		"operations", len(rep.Entries()), "failed", rep.Failed())
	return rep.Entries(), nil
}
