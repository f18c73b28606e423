package usecase

import (
	"context"
	"errors"
	"testing"

	"flightdesk-service/internal/domain/entity"
	storeimpl "flightdesk-service/internal/interface/repository"
	"flightdesk-service/pkg/logger"

	"github.com/stretchr/testify/assert"
)

type listAircraft struct {
	list []entity.Aircraft
	err  error
}

func (r listAircraft) GetByCode(ctx context.Context, code string) (*entity.Aircraft, error) {
	return nil, errors.New("not used")
}

func (r listAircraft) List(ctx context.Context) ([]entity.Aircraft, error) {
	return r.list, r.err
}

func TestAircraftCatalog(t *testing.T) {
	c := NewAircraftCatalog(logger.NewNop())
	c.Load(context.Background(),
		storeimpl.NewStaticAircraftRepository(),
		listAircraft{err: errors.New("connection refused")},
		listAircraft{list: []entity.Aircraft{{Code: "a320", Name: "Airbus A320neo"}, {Code: "X1", Name: ""}}},
	)

	assert.Equal(t, "Boeing 777-300ER", c.FullName("b77w "))
	assert.Equal(t, "Airbus A320neo", c.FullName("A320"), "later repositories override")
	assert.Equal(t, "X1", c.FullName("X1"), "blank names are ignored")
	assert.Equal(t, "ZZZZ", c.FullName("ZZZZ"))
	assert.Equal(t, len(entity.DefaultAircraft), c.Len())
}
