package usecase

import (
	"context"
	"testing"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/domain/repository"
	"flightdesk-service/internal/domain/repository/mocks"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"
	"flightdesk-service/templates"

	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynchronizer_RefreshIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	rec := env.seed(t, "AIC101", "20092025")

	pubID, _ := env.gateway.Send(ctx, "public", entity.Message{Content: "old"})
	admID, _ := env.gateway.Send(ctx, "admin", entity.Message{Content: "old"})
	_, err := env.store.Update(ctx, rec.Code, func(r *entity.FlightRecord) error {
		r.PublicMessageID = pubID
		r.AdminMessageID = admID
		return nil
	})
	require.NoError(t, err)

	env.sync.Refresh(ctx, rec.Code)
	env.sync.Refresh(ctx, rec.Code)

	pubEdits := env.gateway.editsOf("public", pubID)
	admEdits := env.gateway.editsOf("admin", admID)
	require.Len(t, pubEdits, 2)
	require.Len(t, admEdits, 2)
	assert.Equal(t, pubEdits[0].msg, pubEdits[1].msg)
	assert.Equal(t, admEdits[0].msg, admEdits[1].msg)
	assert.Len(t, env.gateway.sent, 2, "refresh never posts")
}

func TestSynchronizer_ReplaceSkipsUnreachableMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockMessageGateway(ctrl)

	gw.EXPECT().Fetch(gomock.Any(), "public", "m1").Return(repository.ErrMessageNotFound).Times(3)
	gw.EXPECT().Edit(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	sync := NewSynchronizer(nil, gw, templates.NewRenderer(nil, ""), testChannels, logger.NewNop(), m).
		WithRetry(3, time.Millisecond)

	ok := sync.Replace(context.Background(), "public", "public", "m1", entity.Message{Content: "x"})
	assert.False(t, ok)
}

func TestSynchronizer_ReplaceEditsAfterTransientFetchFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockMessageGateway(ctrl)
	msg := entity.Message{Content: "x"}

	gomock.InOrder(
		gw.EXPECT().Fetch(gomock.Any(), "admin", "m9").Return(repository.ErrMessageNotFound),
		gw.EXPECT().Fetch(gomock.Any(), "admin", "m9").Return(nil),
		gw.EXPECT().Edit(gomock.Any(), "admin", "m9", msg).Return(nil),
	)

	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	sync := NewSynchronizer(nil, gw, templates.NewRenderer(nil, ""), testChannels, logger.NewNop(), m).
		WithRetry(3, time.Millisecond)

	assert.True(t, sync.Replace(context.Background(), "admin", "admin", "m9", msg))
}

func TestSynchronizer_ReplaceStopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockMessageGateway(ctrl)
	gw.EXPECT().Fetch(gomock.Any(), "public", "m1").Return(repository.ErrMessageNotFound).Times(1)

	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	sync := NewSynchronizer(nil, gw, templates.NewRenderer(nil, ""), testChannels, logger.NewNop(), m).
		WithRetry(5, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sync.Replace(ctx, "public", "public", "m1", entity.Message{}))
}

func TestSynchronizer_ReplaceWithoutIDsDoesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockMessageGateway(ctrl)

	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	sync := NewSynchronizer(nil, gw, templates.NewRenderer(nil, ""), testChannels, logger.NewNop(), m)

	assert.False(t, sync.Replace(context.Background(), "announce", "announce", "", entity.Message{}))
	assert.False(t, sync.Replace(context.Background(), "announce", "", "m1", entity.Message{}))
}

func TestSynchronizer_SyncDaySchedulePostsThenEdits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seed(t, "AIC101", "20092025")

	env.sync.SyncDaySchedule(ctx, "20092025")
	posted := env.gateway.sentTo("public")
	require.Len(t, posted, 1)

	id, ok := env.store.DayMessage("20092025")
	require.True(t, ok)
	assert.Equal(t, posted[0].id, id)

	env.seed(t, "AIC202", "20092025")
	env.sync.SyncDaySchedule(ctx, "20092025")

	assert.Len(t, env.gateway.sentTo("public"), 1, "existing board is edited, not reposted")
	edits := env.gateway.editsOf("public", id)
	require.Len(t, edits, 1)
	assert.Len(t, edits[0].msg.Embeds[0].Fields, 2)
}

func TestSynchronizer_SyncDayScheduleRepostsDeletedBoard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seed(t, "AIC101", "20092025")

	env.sync.SyncDaySchedule(ctx, "20092025")
	oldID, _ := env.store.DayMessage("20092025")
	env.gateway.remove("public", oldID)

	env.sync.SyncDaySchedule(ctx, "20092025")
	newID, ok := env.store.DayMessage("20092025")
	require.True(t, ok)
	assert.NotEqual(t, oldID, newID)
	assert.Len(t, env.gateway.sentTo("public"), 2)
}

func TestSynchronizer_EmptyDay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.sync.SyncDaySchedule(ctx, "01012030")
	assert.Empty(t, env.gateway.sent, "an empty day without a board posts nothing")

	rec := env.seed(t, "AIC101", "01012030")
	env.sync.SyncDaySchedule(ctx, "01012030")
	id, _ := env.store.DayMessage("01012030")

	_, err := env.store.Remove(ctx, rec.Code)
	require.NoError(t, err)
	env.sync.SyncDaySchedule(ctx, "01012030")

	edits := env.gateway.editsOf("public", id)
	require.Len(t, edits, 1)
	assert.NotNil(t, edits[0].msg.Rows)
	assert.Empty(t, edits[0].msg.Rows)
	assert.Empty(t, edits[0].msg.Embeds[0].Fields)
}

func TestSynchronizer_RefreshAllSyncsDayBoard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	rec := env.seed(t, "AIC101", "20092025")

	env.sync.RefreshAll(ctx, rec.Code)
	_, ok := env.store.DayMessage("20092025")
	assert.True(t, ok)
}
