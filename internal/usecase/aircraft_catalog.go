package usecase

import (
	"context"
	"sync"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/pkg/logger"
)

// AircraftCatalog resolves aircraft codes to names from one or more repositories.
// Later repositories override earlier ones.
type AircraftCatalog struct {
	mu     sync.RWMutex
	names  map[string]string
	logger logger.Logger
}

// NewAircraftCatalog creates an empty catalogue
func NewAircraftCatalog(logger logger.Logger) *AircraftCatalog {
	return &AircraftCatalog{
		names:  make(map[string]string),
		logger: logger,
	}
}

// Load merges every repository's rows into the catalogue. A failing repository is skipped.
func (c *AircraftCatalog) Load(ctx context.Context, repos ...repository.AircraftRepository) {
	for _, repo := range repos {
		list, err := repo.List(ctx)
		if err != nil {
			c.logger.Warn("Failed to load aircraft catalogue", "error", err)
			continue
		}
		c.mu.Lock()
		for _, a := range list {
			if a.Name != "" {
				c.names[entity.NormalizeAircraftCode(a.Code)] = a.Name
			}
		}
		c.mu.Unlock()
	}
	c.logger.Info("Aircraft catalogue loaded", "types", c.Len())
}

// FullName returns the marketing name, or the code itself when unknown
func (c *AircraftCatalog) FullName(code string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if name, ok := c.names[entity.NormalizeAircraftCode(code)]; ok {
		return name
	}
	return code
}

// Len returns the number of known types
func (c *AircraftCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.names)
}
