// Package probe gates a verification run on the target server's liveness
// endpoint.
package probe

import (
	"context"
	"strings"
	"time"

	"github.com/apicentric/cloudcheck/internal/common"
	"github.com/apicentric/cloudcheck/internal/httpc"
)

const (
	// DefaultPath is the liveness endpoint of the cloud server.
	DefaultPath = "/health"
	// DefaultInterval is the pause between polls.
	DefaultInterval = time.Second
	// DefaultTimeout bounds the whole readiness wait.
	DefaultTimeout = 30 * time.Second
	// probeRequestTimeout caps a single poll so a black-holed connection
	// cannot eat the entire budget in one attempt.
	probeRequestTimeout = time.Second
)

// Prober polls a liveness endpoint until it answers 200 or the budget runs
// out. Any non-200 response and any transport error count the same: not
// ready yet.
type Prober struct {
	Client   *httpc.Httpc
	Path     string
	Interval time.Duration
	Timeout  time.Duration
}

// New returns a prober with default path, interval and timeout.
func New(client *httpc.Httpc) *Prober {
	if client == nil {
		client = &httpc.Httpc{}
	}
	if client.Timeout == 0 {
		client.Timeout = probeRequestTimeout
	}
	return &Prober{
		Client:   client,
		Path:     DefaultPath,
		Interval: DefaultInterval,
		Timeout:  DefaultTimeout,
	}
}

// WaitReady blocks until the liveness endpoint returns 200 or the timeout
// elapses. True means the server answered in time; false means the run must
// not start. Readiness failure is the one condition the harness treats as
// fatal, so the caller decides the exit, not this package.
func (p *Prober) WaitReady(ctx context.Context, baseURL string) bool {
	logger := common.GetLogger().WithComponent("probe")
	url := strings.TrimRight(baseURL, "/") + p.Path

	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	logger.Info("waiting for server", "url", url, "timeout", timeout)
	deadline := time.Now().Add(timeout)
	attempt := 0

	for {
		attempt++
		resp, err := p.Client.New().R().SetContext(ctx).Get(url)
		if err == nil && resp.StatusCode() == 200 {
			logger.Info("server is ready", "attempts", attempt)
			return true
		}
		if err == nil {
			logger.Debug("not ready yet", "attempt", attempt, "status_code", resp.StatusCode())
		} else {
			logger.Debug("not ready yet", "attempt", attempt, "error", err)
		}

		if time.Now().After(deadline) {
			logger.Error("server failed to become ready", "url", url, "attempts", attempt, "timeout", timeout)
			return false
		}

		select {
		case <-ctx.Done():
			logger.Error("readiness wait cancelled", "url", url, "attempts", attempt)
			return false
		case <-time.After(interval):
		}
	}
}
