package usecase

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var refPattern = regexp.MustCompile(`^[A-Z0-9]{7}$`)

func TestReporter_ReportPostsErrorCode(t *testing.T) {
	gw := newFakeGateway()
	actions := NewActionLogger(gw, "log", logger.NewNop(), 10)
	r := NewReporter(actions, logger.NewNop(), metrics.NewMetrics("test", prometheus.NewRegistry()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go actions.Run(ctx)

	ref := r.Report(ctx, adminActor, "Close flight ABC123", errors.New("boom"))
	assert.Regexp(t, refPattern, ref)

	require.Eventually(t, func() bool { return len(gw.sentTo("log")) == 1 }, time.Second, 5*time.Millisecond)
	fields := gw.sentTo("log")[0].msg.Embeds[0].Fields
	require.Len(t, fields, 3)
	assert.Equal(t, "<@100>", fields[0].Value)
	assert.Equal(t, "```Close flight ABC123 (FAILED)```", fields[1].Value)
	assert.Equal(t, "`"+ref+"`", fields[2].Value)
}

func TestReporter_ReportPanic(t *testing.T) {
	actions := NewActionLogger(nil, "", logger.NewNop(), 1)
	r := NewReporter(actions, logger.NewNop(), metrics.NewMetrics("test", prometheus.NewRegistry()))

	ref := r.ReportPanic(context.Background(), memberActor, "Pressed close_flight:ABC123", "nil map", []byte("goroutine 1"))
	assert.Regexp(t, refPattern, ref)
}

func TestUserMessage(t *testing.T) {
	msg := UserMessage("AB12CD3")
	assert.Contains(t, msg, "Please contact an administrator.")
	assert.Contains(t, msg, "Reference code: `AB12CD3`")
}

func TestActionLogger_QueueFullDropsEntries(t *testing.T) {
	gw := newFakeGateway()
	actions := NewActionLogger(gw, "log", logger.NewNop(), 1)

	actions.Log(context.Background(), ActionEntry{Actor: adminActor, Action: "first"})
	actions.Log(context.Background(), ActionEntry{Actor: adminActor, Action: "second"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go actions.Run(ctx)

	require.Eventually(t, func() bool { return len(gw.sentTo("log")) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, gw.sentTo("log"), 1)
}

func TestWithSource(t *testing.T) {
	assert.Equal(t, SourceBot, sourceOf(context.Background()))
	assert.Equal(t, SourceDashboard, sourceOf(WithSource(context.Background(), SourceDashboard)))
}
