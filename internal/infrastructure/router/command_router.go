package router

import (
	"context"
	"fmt"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/usecase"
	"flightdesk-service/pkg/logger"
)

// ActionRouter routes decoded interactions to the handler that owns their action
type ActionRouter struct {
	handlers []usecase.CommandHandler
	logger   logger.Logger
}

// NewActionRouter creates a new action router
func NewActionRouter(logger logger.Logger) *ActionRouter {
	return &ActionRouter{
		handlers: make([]usecase.CommandHandler, 0),
		logger:   logger,
	}
}

// Register registers a handler
func (r *ActionRouter) Register(handler usecase.CommandHandler) {
	r.handlers = append(r.handlers, handler)
	r.logger.Info("Registered handler", "handler", fmt.Sprintf("%T", handler))
}

// GetHandler returns the first handler accepting the action
func (r *ActionRouter) GetHandler(action entity.Action) usecase.CommandHandler {
	for _, handler := range r.handlers {
		if handler.CanHandle(action) {
			return handler
		}
	}
	return nil
}

// Dispatch runs cmd on its handler
func (r *ActionRouter) Dispatch(ctx context.Context, actor entity.Actor, cmd entity.Command) (entity.Reply, error) {
	handler := r.GetHandler(cmd.Action)
	if handler == nil {
		return entity.Reply{}, fmt.Errorf("%w: no handler for %s", entity.ErrUnknownCommand, cmd.Action)
	}
	return handler.Handle(ctx, actor, cmd)
}

var _ usecase.CommandRouter = (*ActionRouter)(nil)
