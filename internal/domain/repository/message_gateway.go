package repository

import (
	"context"
	"errors"

	"flightdesk-service/internal/domain/entity"
)

// ErrMessageNotFound is returned when a referenced message no longer exists
var ErrMessageNotFound = errors.New("message not found")

// MessageGateway sends, edits and fetches channel messages on the chat platform
type MessageGateway interface {
	Send(ctx context.Context, channelID string, msg entity.Message) (string, error)
	Edit(ctx context.Context, channelID, messageID string, msg entity.Message) error
	Fetch(ctx context.Context, channelID, messageID string) error
}
