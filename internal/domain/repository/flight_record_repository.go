package repository

import (
	"context"
	"errors"

	"flightdesk-service/internal/domain/entity"
)

var (
	// ErrRecordNotFound is returned when no flight is stored under a code
	ErrRecordNotFound = errors.New("flight record not found")
	// ErrSessionNotFound is returned when a submitter has no wizard draft
	ErrSessionNotFound = errors.New("wizard session not found")
)

// FlightStore is the process-wide record store shared by the bot and the dashboard.
// Reads return copies. Methods taking a context persist the whole document before returning.
type FlightStore interface {
	Load(ctx context.Context) error
	Save(ctx context.Context) error

	Get(code string) (*entity.FlightRecord, bool)
	Put(code string, record *entity.FlightRecord)
	Delete(code string) bool
	All() map[string]*entity.FlightRecord
	RealFlights() []*entity.FlightRecord

	Create(ctx context.Context, build func(code string) *entity.FlightRecord) (*entity.FlightRecord, error)
	Update(ctx context.Context, code string, mutate func(*entity.FlightRecord) error) (*entity.FlightRecord, error)
	Remove(ctx context.Context, code string) (*entity.FlightRecord, error)

	Session(identity string) (*entity.WizardDraft, bool)
	PutSession(ctx context.Context, identity string, draft *entity.WizardDraft) error
	FinalizeSession(ctx context.Context, identity string, build func(code string, draft *entity.WizardDraft) *entity.FlightRecord) (*entity.FlightRecord, error)

	DayMessage(date string) (string, bool)
	SetDayMessage(ctx context.Context, date, messageID string) error
}
