package repository

import (
	"context"

	"flightdesk-service/internal/domain/entity"
)

// AircraftRepository defines the interface for aircraft catalogue operations
type AircraftRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.Aircraft, error)
	List(ctx context.Context) ([]entity.Aircraft, error)
}
