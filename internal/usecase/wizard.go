package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"

	"flightdesk-service/internal/domain/apperror"
	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"
	"flightdesk-service/pkg/utils"
	"flightdesk-service/templates"
)

// TicketRenderer draws the boarding pass for a finalized flight and returns its file path
type TicketRenderer interface {
	Render(rec *entity.FlightRecord) (string, error)
}

// Wizard replies
const (
	msgNotForYou     = "This is not for you!"
	msgNoSessionData = "⚠️ No data found for your session."
	msgMissingStep1  = "⚠️ Missing Step 1 data. Please start again."
	msgMissingStep12 = "⚠️ Missing Step 1/2 data. Please start again."
	msgStaleQuestion = "⚠️ This question was already answered."
)

// WizardService drives the three-step flight submission wizard
type WizardService struct {
	store    repository.FlightStore
	flights  *FlightService
	tickets  TicketRenderer
	reporter *Reporter
	actions  *ActionLogger
	logger   logger.Logger
	metrics  *metrics.Metrics
}

// NewWizardService creates a new wizard service
func NewWizardService(
	store repository.FlightStore,
	flights *FlightService,
	tickets TicketRenderer,
	reporter *Reporter,
	actions *ActionLogger,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *WizardService {
	return &WizardService{
		store:    store,
		flights:  flights,
		tickets:  tickets,
		reporter: reporter,
		actions:  actions,
		logger:   logger,
		metrics:  metrics,
	}
}

// CanHandle determines if this handler can process the action
func (s *WizardService) CanHandle(action entity.Action) bool {
	switch action {
	case entity.ActionWizardStart, entity.ActionWizardSubmit, entity.ActionWizardConfirm, entity.ActionWizardReject:
		return true
	}
	return false
}

// Handle runs one wizard interaction. Sessions are keyed by the actor's id.
func (s *WizardService) Handle(ctx context.Context, actor entity.Actor, cmd entity.Command) (entity.Reply, error) {
	switch cmd.Action {
	case entity.ActionWizardStart:
		s.metrics.WizardTransitions.WithLabelValues("1", EffectOpenForm.String()).Inc()
		return entity.ModalReply(templates.WizardModal(entity.WizardStep1)), nil
	case entity.ActionWizardSubmit:
		return s.submit(ctx, actor, cmd)
	case entity.ActionWizardConfirm:
		return s.answer(ctx, actor, cmd, WizardConfirm)
	case entity.ActionWizardReject:
		return s.answer(ctx, actor, cmd, WizardReject)
	}
	return entity.Reply{}, entity.ErrUnknownCommand
}

func (s *WizardService) record(step entity.WizardStep, effect WizardEffect) {
	s.metrics.WizardTransitions.WithLabelValues(strconv.Itoa(int(step)), effect.Kind.String()).Inc()
}

func (s *WizardService) submit(ctx context.Context, actor entity.Actor, cmd entity.Command) (entity.Reply, error) {
	draft, ok := s.store.Session(actor.ID)
	state := entity.WizardState{}
	if ok {
		state = draft.State()
	}

	next, effect := Transition(state, cmd.Step, WizardSubmit)
	s.record(cmd.Step, effect)
	if effect.Kind == EffectInvalid {
		if cmd.Step == entity.WizardStep3 {
			return entity.TextReply(msgMissingStep12), nil
		}
		return entity.TextReply(msgMissingStep1), nil
	}

	if cmd.Step == entity.WizardStep1 || draft == nil {
		draft = &entity.WizardDraft{}
	}
	applyWizardFields(draft, cmd)
	draft.Step, draft.Reviewing = next.Step, next.Reviewing

	if err := s.store.PutSession(ctx, actor.ID, draft); err != nil {
		return entity.Reply{}, apperror.Internal("Failed to save wizard session", err)
	}

	msg := templates.WizardSummary(cmd.Step, draft, actor.ID)
	return entity.Reply{Message: &msg}, nil
}

func (s *WizardService) answer(ctx context.Context, actor entity.Actor, cmd entity.Command, input WizardInput) (entity.Reply, error) {
	if cmd.Owner != "" && cmd.Owner != actor.ID {
		return entity.TextReply(msgNotForYou), nil
	}
	draft, ok := s.store.Session(actor.ID)
	if !ok {
		return entity.TextReply(msgNoSessionData), nil
	}

	next, effect := Transition(draft.State(), cmd.Step, input)
	s.record(cmd.Step, effect)

	switch effect.Kind {
	case EffectOpenForm:
		draft.Step, draft.Reviewing = next.Step, next.Reviewing
		if err := s.store.PutSession(ctx, actor.ID, draft); err != nil {
			return entity.Reply{}, apperror.Internal("Failed to save wizard session", err)
		}
		return entity.ModalReply(templates.WizardModal(effect.Step)), nil
	case EffectFinalize:
		return s.finalize(ctx, actor)
	}
	return entity.TextReply(msgStaleQuestion), nil
}

// finalize turns the actor's draft into a published flight and sends them its ticket
func (s *WizardService) finalize(ctx context.Context, actor entity.Actor) (entity.Reply, error) {
	rec, err := s.store.FinalizeSession(ctx, actor.ID, func(code string, d *entity.WizardDraft) *entity.FlightRecord {
		return d.ToRecord(code, actor.ID)
	})
	if errors.Is(err, repository.ErrSessionNotFound) {
		return entity.TextReply(msgNoSessionData), nil
	}
	if rec == nil {
		return entity.Reply{}, apperror.Internal("Failed to create flight", err)
	}
	if err != nil {
		return entity.Reply{}, apperror.Internal("Failed to save flight", err)
	}

	s.metrics.FlightMutations.WithLabelValues("create").Inc()
	s.actions.Log(ctx, ActionEntry{
		Actor:   actor,
		Action:  "Created flight " + rec.Code + " (" + rec.FlightNumber + ") via wizard",
		Outcome: utils.LevelOK,
	})

	msg := &entity.Message{Content: "Saved! Your flight code is `" + rec.Code + "`."}
	if path, err := s.tickets.Render(rec); err != nil {
		ref := s.reporter.Report(ctx, actor, "Generate ticket for "+rec.Code, err)
		msg.Content += "\n" + UserMessage(ref)
	} else {
		msg.Content = "Saved! Your flight code is `" + rec.Code + "`. Here is your flight ticket:"
		msg.Files = []entity.Attachment{{Name: filepath.Base(path), Path: path}}
	}

	if _, err := s.flights.Publish(ctx, actor, rec.Code); err != nil {
		s.logger.Warn("Failed to publish wizard flight", "code", rec.Code, "error", err)
	}
	return entity.Reply{Message: msg}, nil
}

// applyWizardFields copies the submitted form values for cmd.Step into draft
func applyWizardFields(d *entity.WizardDraft, cmd entity.Command) {
	targets := map[string]*string{
		templates.FieldFlightNumber: &d.FlightNumber,
		templates.FieldDepCity:      &d.DepCity,
		templates.FieldDepDate:      &d.DepDate,
		templates.FieldTerminal:     &d.Terminal,
		templates.FieldAircraft:     &d.Aircraft,
		templates.FieldArrCity:      &d.ArrCity,
		templates.FieldDepAirport:   &d.DepAirport,
		templates.FieldDuration:     &d.Duration,
		templates.FieldDepTime:      &d.DepTime,
		templates.FieldDepCode:      &d.DepCode,
		templates.FieldArrCode:      &d.ArrCode,
		templates.FieldArrAirport:   &d.ArrAirport,
		templates.FieldArrTime:      &d.ArrTime,
	}
	for _, f := range templates.WizardFields(cmd.Step) {
		if dst, ok := targets[f.ID]; ok {
			*dst = cmd.Field(f.ID)
		}
	}
}
