package usecase

import (
	"context"
	"fmt"

	"flightdesk-service/internal/domain/apperror"
	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/pkg/errtrack"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"
	"flightdesk-service/pkg/utils"
)

// Reporter turns internal failures into reference codes
type Reporter struct {
	actions *ActionLogger
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewReporter creates a new reporter
func NewReporter(actions *ActionLogger, logger logger.Logger, metrics *metrics.Metrics) *Reporter {
	return &Reporter{
		actions: actions,
		logger:  logger,
		metrics: metrics,
	}
}

// Report logs err with full detail under a fresh reference code and returns the code
func (r *Reporter) Report(ctx context.Context, actor entity.Actor, action string, err error) string {
	ref := utils.RefCode()
	r.metrics.ErrorsCount.WithLabelValues(apperror.KindOf(err).String()).Inc()

	r.actions.Log(ctx, ActionEntry{
		Actor:     actor,
		Action:    action + " (FAILED)",
		Outcome:   utils.LevelError,
		ErrorCode: ref,
		Err:       err,
	})
	errtrack.CaptureError(err, ref, map[string]interface{}{
		"action": action,
		"user":   actor.DisplayName(),
	})
	return ref
}

// ReportPanic is Report for a recovered panic
func (r *Reporter) ReportPanic(ctx context.Context, actor entity.Actor, action string, recovered interface{}, stack []byte) string {
	ref := utils.RefCode()
	r.metrics.ErrorsCount.WithLabelValues("panic").Inc()

	r.actions.Log(ctx, ActionEntry{
		Actor:     actor,
		Action:    action + " (FAILED)",
		Outcome:   utils.LevelError,
		ErrorCode: ref,
		Err:       fmt.Errorf("panic: %v", recovered),
		Traceback: string(stack),
	})
	errtrack.CapturePanic(recovered, ref)
	return ref
}

// UserMessage is the only thing an actor sees of an internal failure
func UserMessage(ref string) string {
	return "⚠️ An internal error occurred. Please contact an administrator.\nReference code: `" + ref + "`"
}
