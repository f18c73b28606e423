package usecase

import (
	"context"
	"testing"

	"flightdesk-service/internal/domain/apperror"
	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/templates"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modalCommand(action entity.Action, code string, fields map[string]string) entity.Command {
	cmd := entity.CodeCommand(action, code)
	cmd.Fields = fields
	return cmd
}

func selectCommand(action entity.Action, code, value string) entity.Command {
	cmd := entity.CodeCommand(action, code)
	cmd.Values = []string{value}
	return cmd
}

func TestAdminCommandHandler_RequiresRole(t *testing.T) {
	env := newTestEnv(t)
	h := NewAdminCommandHandler(env.flights, testRole)
	rec := env.seed(t, "AIC101", "20092025")

	for _, action := range []entity.Action{entity.ActionOpenGates, entity.ActionCloseFlight, entity.ActionPublish} {
		_, err := h.Handle(context.Background(), memberActor, entity.CodeCommand(action, rec.Code))
		requireKind(t, apperror.KindForbidden, err)
	}

	stored, _ := env.store.Get(rec.Code)
	assert.Equal(t, entity.NotAvailable, stored.Server.Link)
}

func TestAdminCommandHandler_OpenModal(t *testing.T) {
	env := newTestEnv(t)
	h := NewAdminCommandHandler(env.flights, testRole)
	rec := env.seed(t, "AIC101", "20092025")

	reply, err := h.Handle(context.Background(), adminActor, entity.CodeCommand(entity.ActionOpenGates, rec.Code))
	require.NoError(t, err)
	require.NotNil(t, reply.Modal)
	assert.Equal(t, templates.GatesModal(rec.Code), *reply.Modal)

	_, err = h.Handle(context.Background(), adminActor, entity.CodeCommand(entity.ActionOpenStart, "GONE00"))
	requireKind(t, apperror.KindNotFound, err)
}

func TestAdminCommandHandler_SubmitGates(t *testing.T) {
	env := newTestEnv(t)
	h := NewAdminCommandHandler(env.flights, testRole)
	rec := env.seed(t, "AIC101", "20092025")

	reply, err := h.Handle(context.Background(), adminActor, modalCommand(entity.ActionSubmitGates, rec.Code, map[string]string{
		templates.FieldDepGate: " B7 ",
		templates.FieldArrGate: "",
	}))
	require.NoError(t, err)
	assert.Equal(t, "Gates updated.", reply.Message.Content)

	stored, _ := env.store.Get(rec.Code)
	assert.Equal(t, "B7", stored.Gate.Dep)
	assert.Equal(t, entity.NotAvailable, stored.Gate.Arr)
}

func TestAdminCommandHandler_StartAndClose(t *testing.T) {
	env := newTestEnv(t)
	h := NewAdminCommandHandler(env.flights, testRole)
	ctx := context.Background()
	rec := env.seed(t, "AIC101", "20092025")

	_, err := h.Handle(ctx, adminActor, modalCommand(entity.ActionSubmitStart, rec.Code, nil))
	requireKind(t, apperror.KindValidation, err)

	reply, err := h.Handle(ctx, adminActor, modalCommand(entity.ActionSubmitStart, rec.Code, map[string]string{
		templates.FieldServerLink:    "https://roblox.example/server",
		templates.FieldSpawnLocation: "Gate 4",
	}))
	require.NoError(t, err)
	assert.Equal(t, "Flight started and server link set.", reply.Message.Content)

	posts := env.gateway.sentTo("announce")
	require.Len(t, posts, 1)
	assert.Contains(t, posts[0].msg.Content, "has begun check-in")
	assert.Contains(t, posts[0].msg.Content, "**Gate 4**")

	stored, _ := env.store.Get(rec.Code)
	assert.Equal(t, "https://roblox.example/server", stored.Server.Link)
	assert.Equal(t, posts[0].id, stored.AnnounceMessageID)

	reply, err = h.Handle(ctx, adminActor, entity.CodeCommand(entity.ActionCloseFlight, rec.Code))
	require.NoError(t, err)
	assert.Equal(t, "Flight closed.", reply.Message.Content)

	stored, _ = env.store.Get(rec.Code)
	assert.Equal(t, entity.ServerLinkClosed, stored.Server.Link)
	edits := env.gateway.editsOf("announce", posts[0].id)
	require.Len(t, edits, 1)
	assert.Contains(t, edits[0].msg.Content, "has closed boarding")
}

func TestAdminCommandHandler_CloseWithoutAnnouncement(t *testing.T) {
	env := newTestEnv(t)
	h := NewAdminCommandHandler(env.flights, testRole)
	rec := env.seed(t, "AIC101", "20092025")

	_, err := h.Handle(context.Background(), adminActor, entity.CodeCommand(entity.ActionCloseFlight, rec.Code))
	require.NoError(t, err)
	assert.Empty(t, env.gateway.sentTo("announce"))
}

func TestAdminCommandHandler_NotStarted(t *testing.T) {
	env := newTestEnv(t)
	h := NewAdminCommandHandler(env.flights, testRole)
	rec := env.seed(t, "AIC101", "20092025")

	reply, err := h.Handle(context.Background(), adminActor, entity.CodeCommand(entity.ActionNotStarted, rec.Code))
	require.NoError(t, err)
	assert.Equal(t, "Server Link set to 'Flight Not Started'.", reply.Message.Content)

	stored, _ := env.store.Get(rec.Code)
	assert.Equal(t, entity.ServerLinkNotStarted, stored.Server.Link)
}

func TestAdminCommandHandler_Reminder(t *testing.T) {
	env := newTestEnv(t)
	h := NewAdminCommandHandler(env.flights, testRole)
	ctx := context.Background()
	rec := env.seed(t, "AIC101", "20092025")
	saves := env.docs.saves

	_, err := h.Handle(ctx, adminActor, modalCommand(entity.ActionSubmitReminder, rec.Code, map[string]string{templates.FieldTimestamp: " "}))
	requireKind(t, apperror.KindValidation, err)

	reply, err := h.Handle(ctx, adminActor, modalCommand(entity.ActionSubmitReminder, rec.Code, map[string]string{templates.FieldTimestamp: "<t:1758373200:R>"}))
	require.NoError(t, err)
	assert.Equal(t, "Reminder announced.", reply.Message.Content)

	posts := env.gateway.sentTo("announce")
	require.Len(t, posts, 1)
	assert.Contains(t, posts[0].msg.Content, "AIC101 OPENS IN <t:1758373200:R>")
	assert.Equal(t, saves, env.docs.saves, "reminders do not touch the record")
}

func TestAdminCommandHandler_SelectMenus(t *testing.T) {
	env := newTestEnv(t)
	h := NewAdminCommandHandler(env.flights, testRole)
	ctx := context.Background()
	rec := env.seed(t, "AIC101", "20092025")

	reply, err := h.Handle(ctx, adminActor, selectCommand(entity.ActionSetMeal, rec.Code, string(entity.MealSnack)))
	require.NoError(t, err)
	assert.Equal(t, "Meal service set to Snack Service.", reply.Message.Content)

	reply, err = h.Handle(ctx, adminActor, selectCommand(entity.ActionSetStatus, rec.Code, string(entity.StatusCancelled)))
	require.NoError(t, err)
	assert.Equal(t, "Status set to Cancelled.", reply.Message.Content)

	_, err = h.Handle(ctx, adminActor, selectCommand(entity.ActionSetStatus, rec.Code, "Boarding"))
	requireKind(t, apperror.KindValidation, err)

	stored, _ := env.store.Get(rec.Code)
	assert.Equal(t, entity.MealSnack, stored.MealService)
	assert.Equal(t, entity.StatusCancelled, stored.Status)
}

func TestAdminCommandHandler_Publish(t *testing.T) {
	env := newTestEnv(t)
	h := NewAdminCommandHandler(env.flights, testRole)
	rec := env.seed(t, "AIC101", "20092025")

	reply, err := h.Handle(context.Background(), adminActor, entity.CodeCommand(entity.ActionPublish, rec.Code))
	require.NoError(t, err)
	assert.Equal(t, "Flight `"+rec.Code+"` published.", reply.Message.Content)
	assert.Len(t, env.gateway.sentTo("admin"), 1)
}

func TestViewCommandHandler(t *testing.T) {
	env := newTestEnv(t)
	h := NewViewCommandHandler(env.flights, env.renderer)
	rec := env.seed(t, "AIC101", "20092025")

	assert.True(t, h.CanHandle(entity.ActionSelectFlight))
	assert.False(t, h.CanHandle(entity.ActionCloseFlight))

	reply, err := h.Handle(context.Background(), memberActor, entity.Command{Action: entity.ActionSelectFlight, Values: []string{rec.Code}})
	require.NoError(t, err)
	require.NotNil(t, reply.Message)
	assert.Equal(t, env.renderer.DetailMessage(rec), *reply.Message)

	_, err = h.Handle(context.Background(), memberActor, entity.CodeCommand(entity.ActionShowDetail, "GONE00"))
	requireKind(t, apperror.KindNotFound, err)
}
