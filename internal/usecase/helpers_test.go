package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"
	storeimpl "flightdesk-service/internal/interface/repository"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"
	"flightdesk-service/templates"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// memDocs is an in-memory document backend
type memDocs struct {
	mu    sync.Mutex
	data  []byte
	saves int
	err   error
}

func (d *memDocs) Load(ctx context.Context) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.data, nil
}

func (d *memDocs) Save(ctx context.Context, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.data = append([]byte(nil), data...)
	d.saves++
	return nil
}

func (d *memDocs) failWith(err error) {
	d.mu.Lock()
	d.err = err
	d.mu.Unlock()
}

type gatewayCall struct {
	channel string
	id      string
	msg     entity.Message
}

// fakeGateway keeps posted messages so edits and fetches can miss
type fakeGateway struct {
	mu       sync.Mutex
	next     int
	messages map[string]entity.Message
	sent     []gatewayCall
	edits    []gatewayCall
	sendErr  error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{messages: make(map[string]entity.Message)}
}

func (g *fakeGateway) Send(ctx context.Context, channelID string, msg entity.Message) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.sendErr != nil {
		return "", g.sendErr
	}
	g.next++
	id := fmt.Sprintf("m%d", g.next)
	g.messages[channelID+"/"+id] = msg
	g.sent = append(g.sent, gatewayCall{channel: channelID, id: id, msg: msg})
	return id, nil
}

func (g *fakeGateway) Edit(ctx context.Context, channelID, messageID string, msg entity.Message) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := channelID + "/" + messageID
	if _, ok := g.messages[key]; !ok {
		return repository.ErrMessageNotFound
	}
	g.messages[key] = msg
	g.edits = append(g.edits, gatewayCall{channel: channelID, id: messageID, msg: msg})
	return nil
}

func (g *fakeGateway) Fetch(ctx context.Context, channelID, messageID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.messages[channelID+"/"+messageID]; !ok {
		return repository.ErrMessageNotFound
	}
	return nil
}

func (g *fakeGateway) remove(channelID, messageID string) {
	g.mu.Lock()
	delete(g.messages, channelID+"/"+messageID)
	g.mu.Unlock()
}

func (g *fakeGateway) sentTo(channelID string) []gatewayCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []gatewayCall
	for _, c := range g.sent {
		if c.channel == channelID {
			out = append(out, c)
		}
	}
	return out
}

func (g *fakeGateway) editsOf(channelID, messageID string) []gatewayCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []gatewayCall
	for _, c := range g.edits {
		if c.channel == channelID && c.id == messageID {
			out = append(out, c)
		}
	}
	return out
}

var testChannels = Channels{Public: "public", Admin: "admin", Announce: "announce"}

const testRole = "role-admin"

var (
	adminActor  = entity.Actor{ID: "100", Name: "Captain", Roles: []string{testRole}}
	memberActor = entity.Actor{ID: "200", Name: "Passenger"}
)

type testEnv struct {
	docs     *memDocs
	store    repository.FlightStore
	gateway  *fakeGateway
	renderer *templates.Renderer
	sync     *Synchronizer
	actions  *ActionLogger
	reporter *Reporter
	flights  *FlightService
	metrics  *metrics.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.NewNop()
	m := metrics.NewMetrics("test", prometheus.NewRegistry())

	docs := &memDocs{}
	store := storeimpl.NewJSONFlightStore(docs, log)
	require.NoError(t, store.Load(context.Background()))

	gw := newFakeGateway()
	renderer := templates.NewRenderer(nil, "999")
	sync := NewSynchronizer(store, gw, renderer, testChannels, log, m).WithRetry(1, 0)
	actions := NewActionLogger(nil, "", log, 10)

	return &testEnv{
		docs:     docs,
		store:    store,
		gateway:  gw,
		renderer: renderer,
		sync:     sync,
		actions:  actions,
		reporter: NewReporter(actions, log, m),
		flights:  NewFlightService(store, gw, renderer, sync, actions, testChannels, log, m),
		metrics:  m,
	}
}

func validInput() CreateFlightInput {
	return CreateFlightInput{
		FlightNumber: "AIC101",
		DepCity:      "London",
		ArrCity:      "Paris",
		DepCode:      "lhr",
		ArrCode:      "cdg",
		DepAirport:   "Heathrow",
		ArrAirport:   "Charles de Gaulle",
		DepTime:      "10:00",
		ArrTime:      "12:15",
		DepDate:      "2025-09-20",
		Duration:     "1h15m",
		Terminal:     "5",
		Aircraft:     "a320",
	}
}

// seed stores a real flight without publishing it
func (e *testEnv) seed(t *testing.T, fn string, date string) *entity.FlightRecord {
	t.Helper()
	rec, err := e.store.Create(context.Background(), func(code string) *entity.FlightRecord {
		r := entity.NewFlightRecord(code)
		r.FlightNumber = fn
		r.Departure.Date = date
		r.Departure.Time = "10:00"
		r.Arrival.City = "Paris"
		return r
	})
	require.NoError(t, err)
	return rec
}

var errDisk = errors.New("disk full")
