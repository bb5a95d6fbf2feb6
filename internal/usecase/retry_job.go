package usecase

import (
	"context"
	"fmt"

	"SignalPulse/internal/repository"
	applogger "SignalPulse/pkg/logger"
	pkgqueue "SignalPulse/pkg/queue"
)

// RetryJob re-analyzes symbols that failed in an earlier batch. One symbol
// per message; a retry that fails again is requeued by the queue's own
// retry policy.
type RetryJob struct {
	orchestrator *Orchestrator
	mode         FusionMode
	l            *applogger.Logger
}

func NewRetryJob(orchestrator *Orchestrator, mode FusionMode, l *applogger.Logger) *RetryJob {
	return &RetryJob{orchestrator: orchestrator, mode: mode, l: l}
}

func (j *RetryJob) Name() string { return "symbol_retry_job" }

func (j *RetryJob) Type() string { return repository.RetryMessageType }

func (j *RetryJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := pkgqueue.ParsePayload[repository.RetryPayload](payload)
	if err != nil {
		return fmt.Errorf("parse retry payload: %w", err)
	}

	if j.l != nil {
		j.l.Info("retrying failed symbol",
			applogger.String("symbol", p.Symbol),
			applogger.String("reason", p.Reason),
		)
	}

	if _, err := j.orchestrator.AnalyzeOne(ctx, p.Symbol, j.mode); err != nil {
		return fmt.Errorf("retry of %s: %w", p.Symbol, err)
	}
	return nil
}

var _ pkgqueue.Job = (*RetryJob)(nil)
