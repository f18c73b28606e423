package repository

import (
	"context"
	"fmt"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormAircraftRepository implements the AircraftRepository interface
type GormAircraftRepository struct {
	db *gorm.DB
}

// NewGormAircraftRepository creates a new GORM aircraft repository
func NewGormAircraftRepository(db *gorm.DB) repository.AircraftRepository {
	return &GormAircraftRepository{
		db: db,
	}
}

// AircraftTypes GORM model for database mapping
type AircraftTypes struct {
	ID        uint           `gorm:"primaryKey"`
	Code      string         `gorm:"column:code;unique"`
	Name      string         `gorm:"column:name"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (AircraftTypes) TableName() string {
	return "m_aircraft"
}

// GetByCode finds an aircraft type by code
func (r *GormAircraftRepository) GetByCode(ctx context.Context, code string) (*entity.Aircraft, error) {
	var row AircraftTypes
	result := r.db.WithContext(ctx).Where("code = ?", entity.NormalizeAircraftCode(code)).First(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	return &entity.Aircraft{Code: entity.NormalizeAircraftCode(row.Code), Name: row.Name}, nil
}

// List returns every aircraft type row
func (r *GormAircraftRepository) List(ctx context.Context) ([]entity.Aircraft, error) {
	var rows []AircraftTypes
	if err := r.db.WithContext(ctx).Order("code").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list aircraft: %w", err)
	}
	out := make([]entity.Aircraft, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.Aircraft{Code: entity.NormalizeAircraftCode(row.Code), Name: row.Name})
	}
	return out, nil
}

// StaticAircraftRepository serves the built-in catalogue
type StaticAircraftRepository struct {
	byCode map[string]entity.Aircraft
}

// NewStaticAircraftRepository creates a repository over the built-in catalogue
func NewStaticAircraftRepository() repository.AircraftRepository {
	m := make(map[string]entity.Aircraft, len(entity.DefaultAircraft))
	for _, a := range entity.DefaultAircraft {
		m[a.Code] = a
	}
	return &StaticAircraftRepository{byCode: m}
}

func (r *StaticAircraftRepository) GetByCode(ctx context.Context, code string) (*entity.Aircraft, error) {
	a, ok := r.byCode[entity.NormalizeAircraftCode(code)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (r *StaticAircraftRepository) List(ctx context.Context) ([]entity.Aircraft, error) {
	out := make([]entity.Aircraft, len(entity.DefaultAircraft))
	copy(out, entity.DefaultAircraft)
	return out, nil
}
