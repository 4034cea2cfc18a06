// Package report streams per-operation pass/fail lines as a run executes.
// It is deliberately a streaming reporter, not a buffered assertion
// collector: a failed operation is printed and the run moves on.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/apicentric/cloudcheck/internal/common"
	"github.com/apicentric/cloudcheck/internal/executor"
)

// Entry is one recorded operation outcome. The report is append-only and
// owned by the Reporter for the duration of a run.
type Entry struct {
	Stage   string
	Label   string
	Outcome executor.Outcome
	Passed  bool
	RanAt   time.Time
}

// Sink receives entries as they are recorded, e.g. the run-history store.
// A sink error is logged and otherwise ignored; persistence never fails a run.
type Sink interface {
	RecordEntry(runID string, e Entry) error
}

// Reporter records operation outcomes and emits a formatted line for each.
type Reporter struct {
	w        io.Writer
	useColor bool
	runID    string
	stage    string
	entries  []Entry
	sink     Sink
}

// New returns a reporter writing to w. Color is applied only when enabled.
func New(w io.Writer, color bool) *Reporter {
	return &Reporter{w: w, useColor: color}
}

// SetSink attaches an entry sink identified by runID.
func (r *Reporter) SetSink(runID string, sink Sink) {
	r.runID = runID
	r.sink = sink
}

// Begin prints the opening line before any stage runs.
func (r *Reporter) Begin() {
	fmt.Fprintf(r.w, "%s\n", r.colorize(common.Blue, "🚀 Starting API verification..."))
}

// BeginStage prints the numbered stage banner and scopes subsequent entries.
func (r *Reporter) BeginStage(number int, name string) {
	r.stage = name
	fmt.Fprintf(r.w, "\n%s\n%d. %s\n%s\n", strings.Repeat("=", 50), number, strings.ToUpper(name), strings.Repeat("=", 50))
}

// Record appends an entry, prints its pass/fail line, and feeds the sink.
// The outcome passes iff it is transport-OK and its status code is in the
// accepted set (default {200}). Returns the verdict for callers that branch
// on it, e.g. token extraction.
func (r *Reporter) Record(label string, out executor.Outcome, accept ...int) bool {
	if len(accept) == 0 {
		accept = []int{200}
	}
	passed := out.OK && contains(accept, out.Status)

	e := Entry{Stage: r.stage, Label: label, Outcome: out, Passed: passed, RanAt: time.Now().UTC()}
	r.entries = append(r.entries, e)

	if passed {
		fmt.Fprintf(r.w, "%s %s\n", r.colorize(common.Green, "✓"), label)
	} else if !out.OK {
		fmt.Fprintf(r.w, "%s %s (%s)\n", r.colorize(common.Red, "✗"), label, out.Err)
	} else {
		fmt.Fprintf(r.w, "%s %s (status %d)\n", r.colorize(common.Red, "✗"), label, out.Status)
	}

	if r.sink != nil {
		if err := r.sink.RecordEntry(r.runID, e); err != nil {
			common.GetLogger().WithComponent("report").Warn("history sink failed", "label", label, "error", err)
		}
	}
	return passed
}

// Note prints an informational line inside the current stage, e.g. the size
// of a generated code payload.
func (r *Reporter) Note(format string, args ...any) {
	fmt.Fprintf(r.w, format+"\n", args...)
}

// Summary prints the closing banner. No tally is computed here; the
// per-operation lines are the record, and Entries exposes the raw data for
// callers that want counts.
func (r *Reporter) Summary() {
	fmt.Fprintf(r.w, "\n%s\n%s\n%s\n", strings.Repeat("=", 50),
		r.colorize(common.Green, "✅ VERIFICATION COMPLETE"), strings.Repeat("=", 50))
}

// Entries returns the recorded entries in order.
func (r *Reporter) Entries() []Entry {
	return r.entries
}

// Failed reports whether any recorded entry failed.
func (r *Reporter) Failed() bool {
	for _, e := range r.entries {
		if !e.Passed {
			return true
		}
	}
	return false
}

func (r *Reporter) colorize(color, text string) string {
	if !r.useColor {
		return text
	}
	return color + text + common.Reset
}

func contains(set []int, v int) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
