package usecase

import (
	"context"

	"flightdesk-service/internal/domain/entity"
)

// CommandHandler defines the interface for interaction handlers
type CommandHandler interface {
	// CanHandle determines if this handler processes the given action
	CanHandle(action entity.Action) bool

	// Handle runs the command for actor and returns the reply to show them
	Handle(ctx context.Context, actor entity.Actor, cmd entity.Command) (entity.Reply, error)
}

// CommandRouter routes decoded commands to the appropriate handler
type CommandRouter interface {
	// Register registers a handler
	Register(handler CommandHandler)

	// GetHandler returns the handler for an action, or nil
	GetHandler(action entity.Action) CommandHandler
}
