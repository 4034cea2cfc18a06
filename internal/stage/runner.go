package stage

import (
	"context"
	"time"

	"github.com/apicentric/cloudcheck/internal/common"
	"github.com/apicentric/cloudcheck/internal/executor"
	"github.com/apicentric/cloudcheck/internal/report"
	"github.com/apicentric/cloudcheck/internal/session"
)

// Runner executes a stage sequence strictly in order with continue-on-error
// semantics: a failing operation is recorded and the run proceeds, even when
// later operations are doomed because a precondition was never created. The
// harness reports status; it does not assert and halt.
type Runner struct {
	Executor *executor.Executor
	Session  *session.Session
	Stages   []Stage
}

// NewRunner builds a runner over the given stages.
func NewRunner(exec *executor.Executor, sess *session.Session, stages []Stage) *Runner {
	return &Runner{Executor: exec, Session: sess, Stages: stages}
}

// RunAll drives every stage and operation through the executor, recording
// each outcome with the reporter. Token-bearing responses overwrite the
// session token immediately, so every subsequent auth-required operation in
// the run carries the newest credential.
func (r *Runner) RunAll(ctx context.Context, rep *report.Reporter) {
	logger := common.GetLogger().WithComponent("runner")

	for i, st := range r.Stages {
		rep.BeginStage(i+1, st.Name)
		stageLog := logger.WithStage(st.Name)

		for _, op := range st.Operations {
			out := r.Executor.Execute(ctx, op.Method, op.Path, op.Body, op.Auth)
			passed := rep.Record(op.Label, out, op.Accept...)

			if passed {
				r.applyTokenEffects(op, out, stageLog)
				if op.Inspect != nil {
					if note := op.Inspect(out); note != "" {
						rep.Note("%s", note)
					}
				}
			}

			if op.SettleAfter > 0 {
				time.Sleep(op.SettleAfter)
			}
		}
	}

	rep.Summary()
}

func (r *Runner) applyTokenEffects(op Operation, out executor.Outcome, logger *common.Logger) {
	if op.TokenPath != "" {
		if tok := out.Field(op.TokenPath); tok != "" {
			r.Session.SetToken(tok)
			if info, ok := r.Session.Inspect(); ok && !info.ExpiresAt.IsZero() {
				logger.Debug("session token updated", "subject", info.Subject, "expires_at", info.ExpiresAt)
			} else {
				logger.Debug("session token updated")
			}
		}
	}
	if op.ClearsToken {
		r.Session.Clear()
	}
}
