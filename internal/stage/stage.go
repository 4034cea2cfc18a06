// Package stage defines the fixed, ordered verification sequence run against
// the cloud server. Stages and their operations are built once at startup;
// ordering is significant because later operations consume state created by
// earlier ones (a created service is started, stopped and finally deleted).
package stage

import (
	"time"

	"github.com/apicentric/cloudcheck/internal/executor"
)

// Operation is one HTTP call within a stage.
type Operation struct {
	Label  string
	Method string
	Path   string
	// Body is the JSON request body, empty for body-less calls.
	Body string
	// Auth marks the operation as requiring the session bearer token.
	Auth bool
	// Accept is the set of status codes counted as a pass; nil means {200}.
	Accept []int
	// TokenPath is a gjson path into the response body. When the operation
	// passes and the path yields a non-empty value, the session token is
	// overwritten before the next operation runs.
	TokenPath string
	// ClearsToken drops the session token after a passing response (logout).
	ClearsToken bool
	// SettleAfter pauses the run after this operation, giving the server
	// time to act on it (e.g. a service process starting).
	SettleAfter time.Duration
	// Inspect, when set, turns a passing outcome into an informational note.
	Inspect func(out executor.Outcome) string
}

// Stage is a named, ordered group of operations executed as a unit.
type Stage struct {
	Name       string
	Operations []Operation
}
