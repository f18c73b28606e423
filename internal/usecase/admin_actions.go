package usecase

import (
	"context"
	"strings"

	"flightdesk-service/internal/domain/apperror"
	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/pkg/utils"
	"flightdesk-service/templates"
)

// SetGates sets both gates, blank meaning N/A
func (s *FlightService) SetGates(ctx context.Context, actor entity.Actor, code, dep, arr string) (*entity.FlightRecord, error) {
	rec, err := s.mutate(ctx, "gates", code, func(r *entity.FlightRecord) error {
		r.Gate.Dep = strings.TrimSpace(dep)
		r.Gate.Arr = strings.TrimSpace(arr)
		return nil
	})
	if err != nil {
		return rec, err
	}
	s.actions.Log(ctx, ActionEntry{Actor: actor, Action: "Set gates for " + rec.Code + ": " + rec.Gate.Dep + " / " + rec.Gate.Arr, Outcome: utils.LevelOK})
	s.sync.RefreshAll(ctx, rec.Code)
	return rec, nil
}

// SetAlerts sets the alert text, blank meaning N/A
func (s *FlightService) SetAlerts(ctx context.Context, actor entity.Actor, code, text string) (*entity.FlightRecord, error) {
	rec, err := s.mutate(ctx, "alerts", code, func(r *entity.FlightRecord) error {
		r.Alerts = strings.TrimSpace(text)
		return nil
	})
	if err != nil {
		return rec, err
	}
	s.actions.Log(ctx, ActionEntry{Actor: actor, Action: "Set alerts for " + rec.Code, Outcome: utils.LevelOK})
	s.sync.RefreshAll(ctx, rec.Code)
	return rec, nil
}

// SendReminder posts the "opens in" announcement. The record is not changed.
func (s *FlightService) SendReminder(ctx context.Context, actor entity.Actor, code, timestamp string) (*entity.FlightRecord, error) {
	timestamp = strings.TrimSpace(timestamp)
	if timestamp == "" {
		return nil, apperror.Validation("Missing 'timestamp' field")
	}
	rec, err := s.Get(code)
	if err != nil {
		return nil, err
	}
	if s.channels.Announce == "" {
		return nil, apperror.Unavailable("Announcement channel not found.", nil)
	}
	msg := s.renderer.Announcement(s.renderer.ReminderText(rec, timestamp))
	if _, err := s.gateway.Send(ctx, s.channels.Announce, msg); err != nil {
		return nil, apperror.Unavailable("Announcement channel not found.", err)
	}
	s.actions.Log(ctx, ActionEntry{Actor: actor, Action: "Sent reminder for " + rec.Code + " (" + timestamp + ")", Outcome: utils.LevelOK})
	return rec, nil
}

// MarkNotStarted resets the server link to the not-started sentinel
func (s *FlightService) MarkNotStarted(ctx context.Context, actor entity.Actor, code string) (*entity.FlightRecord, error) {
	rec, err := s.mutate(ctx, "not_started", code, func(r *entity.FlightRecord) error {
		r.Server.Link = entity.ServerLinkNotStarted
		return nil
	})
	if err != nil {
		return rec, err
	}
	s.actions.Log(ctx, ActionEntry{Actor: actor, Action: "Marked " + rec.Code + " as not started", Outcome: utils.LevelOK})
	s.sync.Refresh(ctx, rec.Code)
	return rec, nil
}

// StartFlight sets the server link and posts the check-in announcement
func (s *FlightService) StartFlight(ctx context.Context, actor entity.Actor, code, link, spawn string) (*entity.FlightRecord, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, apperror.Validation("Missing 'server_link' field")
	}
	rec, err := s.mutate(ctx, "start", code, func(r *entity.FlightRecord) error {
		r.Server.Link = link
		return nil
	})
	if err != nil {
		return rec, err
	}
	s.actions.Log(ctx, ActionEntry{Actor: actor, Action: "Started flight " + rec.Code, Outcome: utils.LevelOK})
	s.sync.RefreshAll(ctx, rec.Code)

	if s.channels.Announce == "" {
		return rec, nil
	}
	msg := s.renderer.Announcement(s.renderer.StartText(rec, strings.TrimSpace(spawn)))
	id, err := s.gateway.Send(ctx, s.channels.Announce, msg)
	if err != nil {
		s.logger.Warn("Failed to post check-in announcement", "code", rec.Code, "error", err)
		return rec, nil
	}
	return s.mutate(ctx, "start", rec.Code, func(r *entity.FlightRecord) error {
		r.AnnounceMessageID = id
		return nil
	})
}

// CloseFlight locks the server link and rewrites the check-in announcement
func (s *FlightService) CloseFlight(ctx context.Context, actor entity.Actor, code string) (*entity.FlightRecord, error) {
	rec, err := s.mutate(ctx, "close", code, func(r *entity.FlightRecord) error {
		r.Server.Link = entity.ServerLinkClosed
		return nil
	})
	if err != nil {
		return rec, err
	}
	s.actions.Log(ctx, ActionEntry{Actor: actor, Action: "Closed flight " + rec.Code, Outcome: utils.LevelOK})
	s.sync.RefreshAll(ctx, rec.Code)

	if rec.AnnounceMessageID != "" {
		s.sync.Replace(ctx, "announce", s.channels.Announce, rec.AnnounceMessageID,
			s.renderer.Announcement(s.renderer.ClosedText(rec)))
	}
	return rec, nil
}

// SetMealService sets the catering level
func (s *FlightService) SetMealService(ctx context.Context, actor entity.Actor, code, value string) (*entity.FlightRecord, error) {
	meal, ok := entity.ParseMealService(value)
	if !ok {
		return nil, apperror.Validation("Invalid meal service: %s", value)
	}
	rec, err := s.mutate(ctx, "meal", code, func(r *entity.FlightRecord) error {
		r.MealService = meal
		return nil
	})
	if err != nil {
		return rec, err
	}
	s.actions.Log(ctx, ActionEntry{Actor: actor, Action: "Set meal service for " + rec.Code + " to " + string(meal), Outcome: utils.LevelOK})
	s.sync.Refresh(ctx, rec.Code)
	return rec, nil
}

// SetStatus sets the operational status and resyncs the day board
func (s *FlightService) SetStatus(ctx context.Context, actor entity.Actor, code, value string) (*entity.FlightRecord, error) {
	status, ok := entity.ParseStatus(value)
	if !ok {
		return nil, apperror.Validation("Invalid status: %s", value)
	}
	rec, err := s.mutate(ctx, "status", code, func(r *entity.FlightRecord) error {
		r.Status = status
		return nil
	})
	if err != nil {
		return rec, err
	}
	s.actions.Log(ctx, ActionEntry{Actor: actor, Action: "Set status for " + rec.Code + " to " + string(status), Outcome: utils.LevelOK})
	s.sync.RefreshAll(ctx, rec.Code)
	return rec, nil
}

// AdminCommandHandler runs the admin panel controls and the publish command
type AdminCommandHandler struct {
	flights      *FlightService
	roleRequired string
}

// NewAdminCommandHandler creates a new admin command handler
func NewAdminCommandHandler(flights *FlightService, roleRequired string) *AdminCommandHandler {
	return &AdminCommandHandler{
		flights:      flights,
		roleRequired: roleRequired,
	}
}

// CanHandle determines if this handler can process the action
func (h *AdminCommandHandler) CanHandle(action entity.Action) bool {
	switch action {
	case entity.ActionOpenGates, entity.ActionOpenAlerts, entity.ActionOpenReminder, entity.ActionOpenStart,
		entity.ActionNotStarted, entity.ActionCloseFlight, entity.ActionSetMeal, entity.ActionSetStatus,
		entity.ActionSubmitGates, entity.ActionSubmitAlerts, entity.ActionSubmitReminder, entity.ActionSubmitStart,
		entity.ActionPublish:
		return true
	}
	return false
}

// Handle authorizes the actor and runs the control
func (h *AdminCommandHandler) Handle(ctx context.Context, actor entity.Actor, cmd entity.Command) (entity.Reply, error) {
	if !actor.HasRole(h.roleRequired) {
		return entity.Reply{}, apperror.Forbidden("You do not have permission to use this control.")
	}

	switch cmd.Action {
	case entity.ActionOpenGates:
		return h.openModal(cmd.Code, templates.GatesModal)
	case entity.ActionOpenAlerts:
		return h.openModal(cmd.Code, templates.AlertsModal)
	case entity.ActionOpenReminder:
		return h.openModal(cmd.Code, templates.ReminderModal)
	case entity.ActionOpenStart:
		return h.openModal(cmd.Code, templates.StartModal)

	case entity.ActionSubmitGates:
		if _, err := h.flights.SetGates(ctx, actor, cmd.Code, cmd.Field(templates.FieldDepGate), cmd.Field(templates.FieldArrGate)); err != nil {
			return entity.Reply{}, err
		}
		return entity.TextReply("Gates updated."), nil
	case entity.ActionSubmitAlerts:
		if _, err := h.flights.SetAlerts(ctx, actor, cmd.Code, cmd.Field(templates.FieldAlertText)); err != nil {
			return entity.Reply{}, err
		}
		return entity.TextReply("Alerts updated."), nil
	case entity.ActionSubmitReminder:
		if _, err := h.flights.SendReminder(ctx, actor, cmd.Code, cmd.Field(templates.FieldTimestamp)); err != nil {
			return entity.Reply{}, err
		}
		return entity.TextReply("Reminder announced."), nil
	case entity.ActionSubmitStart:
		if _, err := h.flights.StartFlight(ctx, actor, cmd.Code, cmd.Field(templates.FieldServerLink), cmd.Field(templates.FieldSpawnLocation)); err != nil {
			return entity.Reply{}, err
		}
		return entity.TextReply("Flight started and server link set."), nil

	case entity.ActionNotStarted:
		if _, err := h.flights.MarkNotStarted(ctx, actor, cmd.Code); err != nil {
			return entity.Reply{}, err
		}
		return entity.TextReply("Server Link set to '" + entity.ServerLinkNotStarted + "'."), nil
	case entity.ActionCloseFlight:
		if _, err := h.flights.CloseFlight(ctx, actor, cmd.Code); err != nil {
			return entity.Reply{}, err
		}
		return entity.TextReply("Flight closed."), nil
	case entity.ActionSetMeal:
		rec, err := h.flights.SetMealService(ctx, actor, cmd.Code, cmd.Value())
		if err != nil {
			return entity.Reply{}, err
		}
		return entity.TextReply("Meal service set to " + string(rec.MealService) + "."), nil
	case entity.ActionSetStatus:
		rec, err := h.flights.SetStatus(ctx, actor, cmd.Code, cmd.Value())
		if err != nil {
			return entity.Reply{}, err
		}
		return entity.TextReply("Status set to " + string(rec.Status) + "."), nil

	case entity.ActionPublish:
		rec, err := h.flights.Publish(ctx, actor, cmd.Code)
		if err != nil {
			return entity.Reply{}, err
		}
		return entity.TextReply("Flight `" + rec.Code + "` published."), nil
	}
	return entity.Reply{}, entity.ErrUnknownCommand
}

func (h *AdminCommandHandler) openModal(code string, modal func(string) entity.Modal) (entity.Reply, error) {
	rec, err := h.flights.Get(code)
	if err != nil {
		return entity.Reply{}, err
	}
	return entity.ModalReply(modal(rec.Code)), nil
}

// ViewCommandHandler shows flight details to anyone
type ViewCommandHandler struct {
	flights  *FlightService
	renderer *templates.Renderer
}

// NewViewCommandHandler creates a new view command handler
func NewViewCommandHandler(flights *FlightService, renderer *templates.Renderer) *ViewCommandHandler {
	return &ViewCommandHandler{
		flights:  flights,
		renderer: renderer,
	}
}

func (h *ViewCommandHandler) CanHandle(action entity.Action) bool {
	return action == entity.ActionShowDetail || action == entity.ActionSelectFlight
}

func (h *ViewCommandHandler) Handle(ctx context.Context, actor entity.Actor, cmd entity.Command) (entity.Reply, error) {
	code := cmd.Code
	if cmd.Action == entity.ActionSelectFlight {
		code = cmd.Value()
	}
	rec, err := h.flights.Get(code)
	if err != nil {
		return entity.Reply{}, err
	}
	msg := h.renderer.DetailMessage(rec)
	return entity.Reply{Message: &msg}, nil
}
