package usecase

import (
	"context"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/utils"
	"flightdesk-service/templates"
)

// Action sources recorded in the log file
const (
	SourceBot       = "bot"
	SourceDashboard = "dashboard"
)

type sourceKey struct{}

// WithSource tags ctx with the entry point that triggered an operation
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey{}, source)
}

func sourceOf(ctx context.Context) string {
	if s, ok := ctx.Value(sourceKey{}).(string); ok {
		return s
	}
	return SourceBot
}

// ActionEntry is one actor-facing action
type ActionEntry struct {
	Actor     entity.Actor
	Action    string
	Outcome   string
	ErrorCode string
	Err       error
	Traceback string
}

type logPost struct {
	actor     entity.Actor
	action    string
	errorCode string
}

// ActionLogger writes actions to the structured log and mirrors them to the log channel
type ActionLogger struct {
	gateway   repository.MessageGateway
	channelID string
	logger    logger.Logger
	queue     chan logPost
}

// NewActionLogger creates an action logger. Channel posts are queued until Run drains them.
func NewActionLogger(gateway repository.MessageGateway, channelID string, logger logger.Logger, queueSize int) *ActionLogger {
	if queueSize <= 0 {
		queueSize = 100
	}
	return &ActionLogger{
		gateway:   gateway,
		channelID: channelID,
		logger:    logger,
		queue:     make(chan logPost, queueSize),
	}
}

// Log records an action
func (l *ActionLogger) Log(ctx context.Context, e ActionEntry) {
	if e.Outcome == "" {
		e.Outcome = utils.LevelInfo
	}
	fields := []interface{}{
		"user", e.Actor.DisplayName(),
		"action", e.Action,
		"outcome", e.Outcome,
		"source", sourceOf(ctx),
	}
	if e.ErrorCode != "" {
		fields = append(fields, "error_code", e.ErrorCode)
	}
	if e.Err != nil {
		fields = append(fields, "error", e.Err.Error())
	}
	if e.Traceback != "" {
		fields = append(fields, "traceback", e.Traceback)
	}

	switch e.Outcome {
	case utils.LevelError:
		l.logger.Error("Action failed", fields...)
	case utils.LevelWarn:
		l.logger.Warn("Action performed", fields...)
	default:
		l.logger.Info("Action performed", fields...)
	}

	if l.channelID == "" || l.gateway == nil {
		return
	}
	select {
	case l.queue <- logPost{actor: e.Actor, action: e.Action, errorCode: e.ErrorCode}:
	default:
		l.logger.Warn("Log channel queue full, dropping entry", "action", e.Action)
	}
}

// Run posts queued entries to the log channel until ctx is done
func (l *ActionLogger) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case p := <-l.queue:
			l.post(ctx, p)
		}
	}
}

func (l *ActionLogger) post(ctx context.Context, p logPost) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := l.gateway.Send(ctx, l.channelID, templates.LogEmbed(p.actor, p.action, p.errorCode)); err != nil {
		l.logger.Warn("Could not send log embed", "action", p.action, "error", err)
	}
}
