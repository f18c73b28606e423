package usecase

import (
	"context"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"
	"flightdesk-service/templates"
)

// Channels are the Discord channels the service writes to
type Channels struct {
	Public   string
	Admin    string
	Announce string
	Log      string
}

// Default fetch retry policy: attempt i waits baseDelay*(i+1) after failing
const (
	DefaultFetchAttempts  = 3
	DefaultFetchBaseDelay = 500 * time.Millisecond
)

// Sync outcomes recorded in metrics
const (
	syncEdited  = "edited"
	syncPosted  = "posted"
	syncSkipped = "skipped"
	syncFailed  = "failed"
)

// Synchronizer pushes the current state of a record to every live message showing it.
// Failures never reach the caller; they are logged and counted.
type Synchronizer struct {
	store     repository.FlightStore
	gateway   repository.MessageGateway
	renderer  *templates.Renderer
	channels  Channels
	logger    logger.Logger
	metrics   *metrics.Metrics
	attempts  int
	baseDelay time.Duration
}

// NewSynchronizer creates a new synchronizer
func NewSynchronizer(
	store repository.FlightStore,
	gateway repository.MessageGateway,
	renderer *templates.Renderer,
	channels Channels,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *Synchronizer {
	return &Synchronizer{
		store:     store,
		gateway:   gateway,
		renderer:  renderer,
		channels:  channels,
		logger:    logger,
		metrics:   metrics,
		attempts:  DefaultFetchAttempts,
		baseDelay: DefaultFetchBaseDelay,
	}
}

// WithRetry overrides the fetch retry policy
func (s *Synchronizer) WithRetry(attempts int, baseDelay time.Duration) *Synchronizer {
	if attempts < 1 {
		attempts = 1
	}
	s.attempts = attempts
	s.baseDelay = baseDelay
	return s
}

// fetchWithRetry reports whether the message could be fetched within the retry budget
func (s *Synchronizer) fetchWithRetry(ctx context.Context, channelID, messageID string) bool {
	for i := 0; i < s.attempts; i++ {
		err := s.gateway.Fetch(ctx, channelID, messageID)
		if err == nil {
			return true
		}
		s.logger.Debug("Message fetch failed", "channel", channelID, "message", messageID, "attempt", i+1, "error", err)

		timer := time.NewTimer(s.baseDelay * time.Duration(i+1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
	}
	return false
}

// Replace edits a message in place if it still exists. It returns false when the
// message could not be reached or edited.
func (s *Synchronizer) Replace(ctx context.Context, target, channelID, messageID string, msg entity.Message) bool {
	if channelID == "" || messageID == "" {
		return false
	}
	if !s.fetchWithRetry(ctx, channelID, messageID) {
		s.logger.Warn("Message unreachable, skipping edit", "target", target, "channel", channelID, "message", messageID)
		s.metrics.EmbedSyncs.WithLabelValues(target, syncSkipped).Inc()
		return false
	}
	if err := s.gateway.Edit(ctx, channelID, messageID, msg); err != nil {
		s.logger.Warn("Failed to edit message", "target", target, "message", messageID, "error", err)
		s.metrics.EmbedSyncs.WithLabelValues(target, syncFailed).Inc()
		return false
	}
	s.metrics.EmbedSyncs.WithLabelValues(target, syncEdited).Inc()
	return true
}

// Refresh re-renders the public listing and admin panel of a record in place
func (s *Synchronizer) Refresh(ctx context.Context, code string) {
	rec, ok := s.store.Get(code)
	if !ok {
		return
	}
	if rec.PublicMessageID != "" {
		s.Replace(ctx, "public", s.channels.Public, rec.PublicMessageID, s.renderer.PublicListing(rec))
	}
	if rec.AdminMessageID != "" {
		s.Replace(ctx, "admin", s.channels.Admin, rec.AdminMessageID, s.renderer.AdminPanel(rec))
	}
}

// SyncDaySchedule edits the day board for date, posting a new one when none is reachable.
// An empty day only clears an existing board.
func (s *Synchronizer) SyncDaySchedule(ctx context.Context, date string) {
	if date == "" || s.channels.Public == "" {
		return
	}

	day := templates.FlightsOn(s.store.RealFlights(), date)
	msg := s.renderer.DayBoard(date, day)

	if id, ok := s.store.DayMessage(date); ok {
		if s.Replace(ctx, "day", s.channels.Public, id, msg) {
			return
		}
	}
	if len(day) == 0 {
		return
	}

	id, err := s.gateway.Send(ctx, s.channels.Public, msg)
	if err != nil {
		s.logger.Warn("Failed to post day board", "date", date, "error", err)
		s.metrics.EmbedSyncs.WithLabelValues("day", syncFailed).Inc()
		return
	}
	s.metrics.EmbedSyncs.WithLabelValues("day", syncPosted).Inc()

	if err := s.store.SetDayMessage(ctx, date, id); err != nil {
		s.logger.Error("Failed to record day board message", "date", date, "message", id, "error", err)
	}
}

// RefreshAll runs Refresh and resyncs the record's day board
func (s *Synchronizer) RefreshAll(ctx context.Context, code string) {
	s.Refresh(ctx, code)
	if rec, ok := s.store.Get(code); ok {
		s.SyncDaySchedule(ctx, rec.Departure.Date)
	}
}
