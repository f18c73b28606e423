package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/ratelimit"
)

// Discord JSON error codes that mean the target is gone
const (
	errCodeUnknownChannel = 10003
	errCodeUnknownMessage = 10008
)

// Gateway implements MessageGateway on a discordgo session, throttled to a fixed call rate
type Gateway struct {
	session *discordgo.Session
	limiter ratelimit.Limiter
	logger  logger.Logger
	metrics *metrics.Metrics
}

// NewGateway creates a new Discord message gateway. callsPerSecond <= 0 disables throttling.
func NewGateway(session *discordgo.Session, callsPerSecond int, logger logger.Logger, metrics *metrics.Metrics) *Gateway {
	limiter := ratelimit.NewUnlimited()
	if callsPerSecond > 0 {
		limiter = ratelimit.New(callsPerSecond)
	}
	return &Gateway{
		session: session,
		limiter: limiter,
		logger:  logger,
		metrics: metrics,
	}
}

var _ repository.MessageGateway = (*Gateway)(nil)

// isNotFound reports whether err means the channel or message no longer exists
func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil {
		switch restErr.Message.Code {
		case errCodeUnknownChannel, errCodeUnknownMessage:
			return true
		}
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}

func (g *Gateway) observe(method string, err error) error {
	outcome := "ok"
	switch {
	case err == nil:
	case isNotFound(err):
		outcome = "not_found"
		err = fmt.Errorf("%w: %v", repository.ErrMessageNotFound, err)
	default:
		outcome = "error"
	}
	g.metrics.GatewayCalls.WithLabelValues(method, outcome).Inc()
	return err
}

// Send posts msg and returns the new message id
func (g *Gateway) Send(ctx context.Context, channelID string, msg entity.Message) (string, error) {
	data := toMessageSend(msg)
	files, closeFiles, err := openFiles(msg.Files)
	if err != nil {
		return "", err
	}
	defer closeFiles()
	data.Files = files

	g.limiter.Take()
	sent, err := g.session.ChannelMessageSendComplex(channelID, data, discordgo.WithContext(ctx))
	if err = g.observe("send", err); err != nil {
		return "", fmt.Errorf("failed to send message to %s: %w", channelID, err)
	}
	return sent.ID, nil
}

// Edit replaces the content of an existing message
func (g *Gateway) Edit(ctx context.Context, channelID, messageID string, msg entity.Message) error {
	g.limiter.Take()
	_, err := g.session.ChannelMessageEditComplex(toMessageEdit(channelID, messageID, msg), discordgo.WithContext(ctx))
	if err = g.observe("edit", err); err != nil {
		return fmt.Errorf("failed to edit message %s: %w", messageID, err)
	}
	return nil
}

// Fetch checks that a message still exists
func (g *Gateway) Fetch(ctx context.Context, channelID, messageID string) error {
	g.limiter.Take()
	_, err := g.session.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err = g.observe("fetch", err); err != nil {
		return fmt.Errorf("failed to fetch message %s: %w", messageID, err)
	}
	return nil
}
