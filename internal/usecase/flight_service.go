package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"flightdesk-service/internal/domain/apperror"
	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"
	"flightdesk-service/pkg/utils"
	"flightdesk-service/templates"
)

var errNotReal = errors.New("not a published flight")

// FlightService owns every mutation of flight records. Both the bot and the
// dashboard go through it.
type FlightService struct {
	store    repository.FlightStore
	gateway  repository.MessageGateway
	renderer *templates.Renderer
	sync     *Synchronizer
	actions  *ActionLogger
	channels Channels
	logger   logger.Logger
	metrics  *metrics.Metrics
}

// NewFlightService creates a new flight service
func NewFlightService(
	store repository.FlightStore,
	gateway repository.MessageGateway,
	renderer *templates.Renderer,
	sync *Synchronizer,
	actions *ActionLogger,
	channels Channels,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *FlightService {
	return &FlightService{
		store:    store,
		gateway:  gateway,
		renderer: renderer,
		sync:     sync,
		actions:  actions,
		channels: channels,
		logger:   logger,
		metrics:  metrics,
	}
}

func notFound() error {
	return apperror.NotFound("Flight not found")
}

// Get returns a published flight
func (s *FlightService) Get(code string) (*entity.FlightRecord, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	rec, ok := s.store.Get(code)
	if !ok || !rec.IsReal(code) {
		return nil, notFound()
	}
	rec.Code = code
	return rec, nil
}

// List returns every published flight
func (s *FlightService) List() []*entity.FlightRecord {
	return s.store.RealFlights()
}

// mutate applies fn to a published flight and persists. A persistence failure is
// reported as internal; the in-memory change is kept.
func (s *FlightService) mutate(ctx context.Context, operation, code string, fn func(*entity.FlightRecord) error) (*entity.FlightRecord, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	rec, err := s.store.Update(ctx, code, func(r *entity.FlightRecord) error {
		if !r.IsReal(code) {
			return errNotReal
		}
		if err := fn(r); err != nil {
			return err
		}
		r.ApplyDefaults()
		return nil
	})
	switch {
	case errors.Is(err, repository.ErrRecordNotFound), errors.Is(err, errNotReal):
		return nil, notFound()
	case rec == nil && err != nil:
		return nil, err
	case err != nil:
		return rec, apperror.Internal("Failed to save flight", err)
	}
	s.metrics.FlightMutations.WithLabelValues(operation).Inc()
	return rec, nil
}

// CreateFlightInput is a dashboard create request
type CreateFlightInput struct {
	FlightNumber string `json:"flight_number"`
	DepCity      string `json:"dep_city"`
	ArrCity      string `json:"arr_city"`
	DepCode      string `json:"dep_code"`
	ArrCode      string `json:"arr_code"`
	DepAirport   string `json:"dep_airport"`
	ArrAirport   string `json:"arr_airport"`
	DepTime      string `json:"dep_time"`
	ArrTime      string `json:"arr_time"`
	DepDate      string `json:"dep_date"`
	Duration     string `json:"duration"`
	Terminal     string `json:"terminal"`
	Aircraft     string `json:"aircraft"`

	HostUserID  string `json:"host_user_id"`
	MealService string `json:"meal_service"`
	Status      string `json:"status"`
	EventLink   string `json:"event_link"`
}

func (in *CreateFlightInput) normalize() {
	for _, f := range []*string{
		&in.FlightNumber, &in.DepCity, &in.ArrCity, &in.DepCode, &in.ArrCode, &in.DepAirport,
		&in.ArrAirport, &in.DepTime, &in.ArrTime, &in.DepDate, &in.Duration, &in.Terminal,
		&in.Aircraft, &in.HostUserID, &in.MealService, &in.Status, &in.EventLink,
	} {
		*f = strings.TrimSpace(*f)
	}
	in.DepCode = strings.ToUpper(in.DepCode)
	in.ArrCode = strings.ToUpper(in.ArrCode)
	in.Aircraft = strings.ToUpper(in.Aircraft)
}

func (in *CreateFlightInput) missing() []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"flight_number", in.FlightNumber}, {"dep_city", in.DepCity}, {"arr_city", in.ArrCity},
		{"dep_code", in.DepCode}, {"arr_code", in.ArrCode}, {"dep_airport", in.DepAirport},
		{"arr_airport", in.ArrAirport}, {"dep_time", in.DepTime}, {"arr_time", in.ArrTime},
		{"dep_date", in.DepDate}, {"duration", in.Duration}, {"terminal", in.Terminal},
		{"aircraft", in.Aircraft},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// Create stores a new flight under a fresh code and publishes it
func (s *FlightService) Create(ctx context.Context, actor entity.Actor, in CreateFlightInput) (*entity.FlightRecord, error) {
	in.normalize()
	if missing := in.missing(); len(missing) > 0 {
		return nil, apperror.Validation("Missing fields: %s", strings.Join(missing, ", "))
	}

	status := entity.StatusNotSet
	if in.Status != "" {
		st, ok := entity.ParseStatus(in.Status)
		if !ok {
			return nil, apperror.Validation("Invalid status: %s", in.Status)
		}
		status = st
	}
	meal := entity.MealNotSet
	if in.MealService != "" {
		m, ok := entity.ParseMealService(in.MealService)
		if !ok {
			return nil, apperror.Validation("Invalid meal service: %s", in.MealService)
		}
		meal = m
	}

	rec, err := s.store.Create(ctx, func(code string) *entity.FlightRecord {
		r := entity.NewFlightRecord(code)
		r.FlightNumber = in.FlightNumber
		r.Departure = entity.Departure{
			City:     in.DepCity,
			Airport:  in.DepAirport,
			Code:     in.DepCode,
			Time:     in.DepTime,
			Date:     utils.APIDateToStored(in.DepDate),
			Terminal: in.Terminal,
		}
		r.Arrival = entity.Arrival{
			City:    in.ArrCity,
			Airport: in.ArrAirport,
			Code:    in.ArrCode,
			Time:    in.ArrTime,
		}
		r.Duration = in.Duration
		r.Aircraft = in.Aircraft
		r.HostUserID = in.HostUserID
		r.MealService = meal
		r.Status = status
		r.Event.Link = in.EventLink
		r.ApplyDefaults()
		return r
	})
	if rec == nil {
		return nil, apperror.Internal("Failed to create flight", err)
	}
	if err != nil {
		return rec, apperror.Internal("Failed to save flight", err)
	}
	s.metrics.FlightMutations.WithLabelValues("create").Inc()
	s.actions.Log(ctx, ActionEntry{
		Actor:   actor,
		Action:  fmt.Sprintf("Created flight %s (%s) %s→%s", rec.Code, rec.FlightNumber, rec.Departure.Code, rec.Arrival.Code),
		Outcome: utils.LevelOK,
	})

	if published, err := s.Publish(ctx, actor, rec.Code); err == nil {
		rec = published
	} else {
		s.logger.Warn("Failed to publish new flight", "code", rec.Code, "error", err)
	}
	return rec, nil
}

// Fields accepted by Update
const (
	PatchStatus      = "status"
	PatchAlerts      = "alerts"
	PatchMealService = "meal_service"
	PatchGateDep     = "gate_dep"
	PatchGateArr     = "gate_arr"
	PatchServerLink  = "server_link"
	PatchEventLink   = "event_link"
)

var patchFields = []string{PatchStatus, PatchAlerts, PatchMealService, PatchGateDep, PatchGateArr, PatchServerLink, PatchEventLink}

// Update applies the recognised fields of patch. Unknown fields are ignored;
// an invalid value rejects the whole patch.
func (s *FlightService) Update(ctx context.Context, actor entity.Actor, code string, patch map[string]interface{}) (*entity.FlightRecord, error) {
	values := make(map[string]string)
	var updated []string
	for _, field := range patchFields {
		raw, ok := patch[field]
		if !ok {
			continue
		}
		v, ok := raw.(string)
		if !ok {
			return nil, apperror.Validation("Invalid value for %s", field)
		}
		values[field] = v
		updated = append(updated, field)
	}

	if v, ok := values[PatchStatus]; ok {
		if _, valid := entity.ParseStatus(v); !valid {
			return nil, apperror.Validation("Invalid status: %s", v)
		}
	}
	if v, ok := values[PatchMealService]; ok {
		if _, valid := entity.ParseMealService(v); !valid {
			return nil, apperror.Validation("Invalid meal service: %s", v)
		}
	}
	if len(values) == 0 {
		return s.Get(code)
	}

	rec, err := s.mutate(ctx, "update", code, func(r *entity.FlightRecord) error {
		for field, v := range values {
			switch field {
			case PatchStatus:
				r.Status = entity.Status(v)
			case PatchAlerts:
				r.Alerts = v
			case PatchMealService:
				r.MealService = entity.MealService(v)
			case PatchGateDep:
				r.Gate.Dep = v
			case PatchGateArr:
				r.Gate.Arr = v
			case PatchServerLink:
				r.Server.Link = v
			case PatchEventLink:
				r.Event.Link = v
			}
		}
		return nil
	})
	if err != nil {
		return rec, err
	}

	s.actions.Log(ctx, ActionEntry{
		Actor:   actor,
		Action:  fmt.Sprintf("Updated flight %s: %s", rec.Code, strings.Join(updated, ", ")),
		Outcome: utils.LevelOK,
	})
	s.sync.RefreshAll(ctx, rec.Code)
	return rec, nil
}

// Delete removes a published flight and resyncs its day board
func (s *FlightService) Delete(ctx context.Context, actor entity.Actor, code string) (*entity.FlightRecord, error) {
	rec, err := s.Get(code)
	if err != nil {
		return nil, err
	}

	removed, err := s.store.Remove(ctx, rec.Code)
	if errors.Is(err, repository.ErrRecordNotFound) {
		return nil, notFound()
	}
	if err != nil {
		return nil, apperror.Internal("Failed to save flight", err)
	}
	s.metrics.FlightMutations.WithLabelValues("delete").Inc()
	s.actions.Log(ctx, ActionEntry{
		Actor:   actor,
		Action:  fmt.Sprintf("Deleted flight %s (%s)", rec.Code, removed.FlightNumber),
		Outcome: utils.LevelWarn,
	})

	s.sync.SyncDaySchedule(ctx, removed.Departure.Date)
	return removed, nil
}

// Refresh re-renders every representation of a flight without changing it
func (s *FlightService) Refresh(ctx context.Context, actor entity.Actor, code string) (*entity.FlightRecord, error) {
	rec, err := s.Get(code)
	if err != nil {
		return nil, err
	}
	s.sync.RefreshAll(ctx, rec.Code)
	s.actions.Log(ctx, ActionEntry{
		Actor:   actor,
		Action:  "Refreshed Discord embed for " + rec.Code,
		Outcome: utils.LevelOK,
	})
	return rec, nil
}

// Publish syncs the flight's day board and posts its admin panel if none is recorded yet
func (s *FlightService) Publish(ctx context.Context, actor entity.Actor, code string) (*entity.FlightRecord, error) {
	rec, err := s.Get(code)
	if err != nil {
		return nil, err
	}

	s.sync.SyncDaySchedule(ctx, rec.Departure.Date)

	if rec.AdminMessageID != "" || s.channels.Admin == "" {
		return rec, nil
	}
	id, err := s.gateway.Send(ctx, s.channels.Admin, s.renderer.AdminPanel(rec))
	if err != nil {
		s.logger.Warn("Could not post admin panel", "code", rec.Code, "error", err)
		return rec, nil
	}
	updated, err := s.mutate(ctx, "publish", rec.Code, func(r *entity.FlightRecord) error {
		r.AdminMessageID = id
		return nil
	})
	if err != nil {
		return rec, err
	}
	s.actions.Log(ctx, ActionEntry{Actor: actor, Action: "Posted admin panel for " + rec.Code, Outcome: utils.LevelOK})
	return updated, nil
}

// Announce posts free text to the announcement channel
func (s *FlightService) Announce(ctx context.Context, actor entity.Actor, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return apperror.Validation("Missing 'message' field")
	}
	if s.channels.Announce == "" {
		return apperror.Unavailable("Announcement channel not found. Is the bot running?", nil)
	}
	if _, err := s.gateway.Send(ctx, s.channels.Announce, s.renderer.Announcement(message)); err != nil {
		return apperror.Unavailable("Announcement channel not found. Is the bot running?", err)
	}

	preview := message
	if r := []rune(preview); len(r) > 80 {
		preview = string(r[:80])
	}
	s.actions.Log(ctx, ActionEntry{Actor: actor, Action: "Sent announcement: " + preview, Outcome: utils.LevelOK})
	return nil
}

// FlightStats are the dashboard counters over published flights
type FlightStats struct {
	Total    int            `json:"total"`
	Ended    int            `json:"ended"`
	Accepted int            `json:"accepted"`
	Denied   int            `json:"denied"`
	Pending  int            `json:"pending"`
	Statuses map[string]int `json:"statuses"`
}

// Stats counts published flights by status bucket
func (s *FlightService) Stats() FlightStats {
	flights := s.store.RealFlights()
	stats := FlightStats{Statuses: make(map[string]int)}
	for _, f := range flights {
		stats.Statuses[string(f.Status)]++
	}
	stats.Ended = stats.Statuses[string(entity.StatusEnded)]
	stats.Total = len(flights) - stats.Ended
	stats.Accepted = stats.Statuses[string(entity.StatusOnTime)]
	stats.Denied = stats.Statuses[string(entity.StatusCancelled)]
	stats.Pending = stats.Statuses[string(entity.StatusNotSet)] +
		stats.Statuses[string(entity.StatusRescheduled)] +
		stats.Statuses[string(entity.StatusDelayed)]
	return stats
}

// Dates returns the distinct departure dates of published flights, sorted
func (s *FlightService) Dates() []string {
	seen := make(map[string]bool)
	var dates []string
	for _, f := range s.store.RealFlights() {
		if d := f.Departure.Date; d != "" && !seen[d] {
			seen[d] = true
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)
	return dates
}
