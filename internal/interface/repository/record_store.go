package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/utils"
)

const dayMessagesKey = "_day_msgs"

// recordMarkers are keys only a flight record carries; wizard drafts never have them
var recordMarkers = []string{"gate", "status", "created_at", "code"}

// JSONFlightStore keeps the store document in memory and persists it whole
type JSONFlightStore struct {
	backend repository.DocumentRepository
	logger  logger.Logger

	// persistMu serializes mutate+encode+write sequences; mu guards the maps.
	persistMu sync.Mutex
	mu        sync.RWMutex

	flights  map[string]*entity.FlightRecord
	sessions map[string]*entity.WizardDraft
	dayMsgs  map[string]string
	extras   map[string]json.RawMessage
}

// NewJSONFlightStore creates a new, empty flight store over backend
func NewJSONFlightStore(backend repository.DocumentRepository, logger logger.Logger) repository.FlightStore {
	s := &JSONFlightStore{
		backend: backend,
		logger:  logger,
	}
	s.reset()
	return s
}

func (s *JSONFlightStore) reset() {
	s.flights = make(map[string]*entity.FlightRecord)
	s.sessions = make(map[string]*entity.WizardDraft)
	s.dayMsgs = make(map[string]string)
	s.extras = make(map[string]json.RawMessage)
}

// Load replaces the in-memory document with the persisted one. On failure the store is left empty.
func (s *JSONFlightStore) Load(ctx context.Context) error {
	data, err := s.backend.Load(ctx)

	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := s.decodeLocked(data); err != nil {
		s.reset()
		return fmt.Errorf("failed to decode document: %w", err)
	}

	s.logger.Info("Flight store loaded", "flights", len(s.flights), "sessions", len(s.sessions), "days", len(s.dayMsgs))
	return nil
}

func (s *JSONFlightStore) decodeLocked(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for key, value := range raw {
		if key == dayMessagesKey {
			var days map[string]json.RawMessage
			if err := json.Unmarshal(value, &days); err != nil {
				s.extras[key] = value
				continue
			}
			for date, id := range days {
				var msgID string
				if err := json.Unmarshal(id, &msgID); err != nil {
					msgID = string(bytes.Trim(id, `"`))
				}
				s.dayMsgs[date] = msgID
			}
			continue
		}

		var fields map[string]json.RawMessage
		if err := json.Unmarshal(value, &fields); err != nil {
			s.extras[key] = value
			continue
		}

		if hasAny(fields, recordMarkers) {
			var rec entity.FlightRecord
			if err := json.Unmarshal(value, &rec); err != nil {
				s.logger.Warn("Keeping undecodable record verbatim", "key", key, "error", err)
				s.extras[key] = value
				continue
			}
			if rec.Code == "" {
				rec.Code = key
			}
			s.flights[key] = &rec
			continue
		}

		var draft entity.WizardDraft
		if err := json.Unmarshal(value, &draft); err != nil {
			s.extras[key] = value
			continue
		}
		s.sessions[key] = &draft
	}
	return nil
}

func hasAny(fields map[string]json.RawMessage, keys []string) bool {
	for _, k := range keys {
		if _, ok := fields[k]; ok {
			return true
		}
	}
	return false
}

func (s *JSONFlightStore) encodeLocked() ([]byte, error) {
	doc := make(map[string]interface{}, len(s.flights)+len(s.sessions)+len(s.extras)+1)
	for k, v := range s.extras {
		doc[k] = v
	}
	for k, v := range s.sessions {
		doc[k] = v
	}
	for k, v := range s.flights {
		doc[k] = v
	}
	if len(s.dayMsgs) > 0 {
		doc[dayMessagesKey] = s.dayMsgs
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the whole document
func (s *JSONFlightStore) Save(ctx context.Context) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	return s.persistLocked(ctx)
}

// persistLocked encodes under a read lock and writes. Callers hold persistMu.
func (s *JSONFlightStore) persistLocked(ctx context.Context) error {
	s.mu.RLock()
	data, err := s.encodeLocked()
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err := s.backend.Save(ctx, data); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// Get returns a copy of the record stored under code
func (s *JSONFlightStore) Get(code string) (*entity.FlightRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.flights[code]
	return rec.Clone(), ok
}

// Put stores a copy of record without persisting
func (s *JSONFlightStore) Put(code string, record *entity.FlightRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flights[code] = record.Clone()
}

// Delete removes a record without persisting
func (s *JSONFlightStore) Delete(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.flights[code]
	delete(s.flights, code)
	return ok
}

// All returns copies of every flight-shaped entry, real or not
func (s *JSONFlightStore) All() map[string]*entity.FlightRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*entity.FlightRecord, len(s.flights))
	for k, v := range s.flights {
		out[k] = v.Clone()
	}
	return out
}

// RealFlights returns copies of the published flights ordered by code
func (s *JSONFlightStore) RealFlights() []*entity.FlightRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*entity.FlightRecord
	for k, v := range s.flights {
		if v.IsReal(k) {
			c := v.Clone()
			c.Code = k
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func (s *JSONFlightStore) takenLocked(code string) bool {
	if code == dayMessagesKey {
		return true
	}
	if _, ok := s.flights[code]; ok {
		return true
	}
	if _, ok := s.sessions[code]; ok {
		return true
	}
	_, ok := s.extras[code]
	return ok
}

// Create generates a fresh code, stores the record build returns and persists
func (s *JSONFlightStore) Create(ctx context.Context, build func(code string) *entity.FlightRecord) (*entity.FlightRecord, error) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	code, err := utils.UniqueCode(utils.FlightCodeLength, s.takenLocked)
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to generate flight code: %w", err)
	}
	rec := build(code).Clone()
	rec.Code = code
	s.flights[code] = rec
	s.mu.Unlock()

	return rec.Clone(), s.persistLocked(ctx)
}

// Update applies mutate to a copy of the record, swaps it in and persists.
// A mutate error leaves the record untouched.
func (s *JSONFlightStore) Update(ctx context.Context, code string, mutate func(*entity.FlightRecord) error) (*entity.FlightRecord, error) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	current, ok := s.flights[code]
	if !ok {
		s.mu.Unlock()
		return nil, repository.ErrRecordNotFound
	}
	next := current.Clone()
	if err := mutate(next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.flights[code] = next
	s.mu.Unlock()

	return next.Clone(), s.persistLocked(ctx)
}

// Remove deletes a record and persists
func (s *JSONFlightStore) Remove(ctx context.Context, code string) (*entity.FlightRecord, error) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	rec, ok := s.flights[code]
	if !ok {
		s.mu.Unlock()
		return nil, repository.ErrRecordNotFound
	}
	delete(s.flights, code)
	s.mu.Unlock()

	return rec, s.persistLocked(ctx)
}

// Session returns a copy of the submitter's wizard draft
func (s *JSONFlightStore) Session(identity string) (*entity.WizardDraft, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.sessions[identity]
	return d.Clone(), ok
}

// PutSession stores the submitter's draft and persists
func (s *JSONFlightStore) PutSession(ctx context.Context, identity string, draft *entity.WizardDraft) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	s.sessions[identity] = draft.Clone()
	s.mu.Unlock()

	return s.persistLocked(ctx)
}

// FinalizeSession turns the submitter's draft into a flight under a fresh code,
// retains the draft under the pending key and persists once
func (s *JSONFlightStore) FinalizeSession(ctx context.Context, identity string, build func(code string, draft *entity.WizardDraft) *entity.FlightRecord) (*entity.FlightRecord, error) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	draft, ok := s.sessions[identity]
	if !ok {
		s.mu.Unlock()
		return nil, repository.ErrSessionNotFound
	}
	code, err := utils.UniqueCode(utils.FlightCodeLength, s.takenLocked)
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("failed to generate flight code: %w", err)
	}

	rec := build(code, draft.Clone()).Clone()
	rec.Code = code
	s.flights[code] = rec

	pending := draft.Clone()
	pending.Step = entity.WizardConfirmed
	pending.Reviewing = false
	delete(s.sessions, identity)
	s.sessions[entity.PendingKey(identity)] = pending
	s.mu.Unlock()

	return rec.Clone(), s.persistLocked(ctx)
}

// DayMessage returns the day board message id for a DDMMYYYY date
func (s *JSONFlightStore) DayMessage(date string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.dayMsgs[date]
	return id, ok && id != ""
}

// SetDayMessage records the day board message id and persists
func (s *JSONFlightStore) SetDayMessage(ctx context.Context, date, messageID string) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	s.dayMsgs[date] = messageID
	s.mu.Unlock()

	return s.persistLocked(ctx)
}
