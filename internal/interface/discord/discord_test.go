package discord

import (
	"errors"
	"net/http"
	"testing"

	"flightdesk-service/internal/domain/apperror"
	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/templates"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func componentInteraction(customID string, values ...string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:   discordgo.InteractionMessageComponent,
		Data:   discordgo.MessageComponentInteractionData{CustomID: customID, Values: values},
		Member: &discordgo.Member{User: &discordgo.User{ID: "42", Username: "pilot"}, Roles: []string{"admin"}},
	}}
}

func TestDecodeInteraction_Component(t *testing.T) {
	cmd, label, err := decodeInteraction(componentInteraction("status_select:abc123", "Delayed"))
	require.NoError(t, err)
	assert.Equal(t, entity.ActionSetStatus, cmd.Action)
	assert.Equal(t, "ABC123", cmd.Code)
	assert.Equal(t, "Delayed", cmd.Value())
	assert.Equal(t, "Pressed status_select:abc123 (Delayed)", label)

	_, _, err = decodeInteraction(componentInteraction("something_else:1"))
	assert.True(t, errors.Is(err, entity.ErrUnknownCommand))
}

func TestDecodeInteraction_Modal(t *testing.T) {
	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionModalSubmit,
		Data: discordgo.ModalSubmitInteractionData{
			CustomID: "gates_form:ABC123",
			Components: []discordgo.MessageComponent{
				&discordgo.ActionsRow{Components: []discordgo.MessageComponent{&discordgo.TextInput{CustomID: templates.FieldDepGate, Value: "A1"}}},
				&discordgo.ActionsRow{Components: []discordgo.MessageComponent{&discordgo.TextInput{CustomID: templates.FieldArrGate, Value: " B2 "}}},
			},
		},
	}}

	cmd, _, err := decodeInteraction(i)
	require.NoError(t, err)
	assert.Equal(t, entity.ActionSubmitGates, cmd.Action)
	assert.Equal(t, "A1", cmd.Field(templates.FieldDepGate))
	assert.Equal(t, "B2", cmd.Field(templates.FieldArrGate))
}

func TestDecodeInteraction_Slash(t *testing.T) {
	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{
			Name: entity.SlashPublishFlight,
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "code", Type: discordgo.ApplicationCommandOptionString, Value: " abc123 "},
			},
		},
	}}

	cmd, label, err := decodeInteraction(i)
	require.NoError(t, err)
	assert.Equal(t, entity.ActionPublish, cmd.Action)
	assert.Equal(t, "ABC123", cmd.Code)
	assert.Equal(t, "/publishflight", label)
}

func TestActorOf(t *testing.T) {
	a := actorOf(componentInteraction("detail:ABC123"))
	assert.Equal(t, "42", a.ID)
	assert.Equal(t, "pilot", a.Name)
	assert.True(t, a.HasRole("admin"))

	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{User: &discordgo.User{ID: "7", Username: "u", GlobalName: "Global"}}}
	a = actorOf(dm)
	assert.Equal(t, "Global", a.Name)
	assert.Empty(t, a.Roles)
}

func TestMayOpenModal(t *testing.T) {
	assert.True(t, mayOpenModal(entity.Command{Action: entity.ActionWizardStart}))
	assert.True(t, mayOpenModal(entity.Command{Action: entity.ActionWizardConfirm, Step: entity.WizardStep2}))
	assert.False(t, mayOpenModal(entity.Command{Action: entity.ActionWizardConfirm, Step: entity.WizardStep3}))
	assert.True(t, mayOpenModal(entity.Command{Action: entity.ActionOpenGates}))
	assert.False(t, mayOpenModal(entity.Command{Action: entity.ActionCloseFlight}))
	assert.False(t, mayOpenModal(entity.Command{Action: entity.ActionWizardSubmit}))
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "⚠️ Flight not found", errorText(apperror.NotFound("Flight not found")))
	assert.Equal(t, "You do not have permission to use this control.", errorText(apperror.Forbidden("You do not have permission to use this control.")))
	assert.Equal(t, "Internal error", errorText(errors.New("boom")))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(&discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusNotFound}}))
	assert.True(t, isNotFound(&discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: errCodeUnknownMessage}}))
	assert.False(t, isNotFound(&discordgo.RESTError{Response: &http.Response{StatusCode: http.StatusForbidden}}))
	assert.False(t, isNotFound(errors.New("timeout")))
}

func TestParseEmoji(t *testing.T) {
	e := parseEmoji("<:AC_Dot:1439504671927570432>")
	require.NotNil(t, e)
	assert.Equal(t, "AC_Dot", e.Name)
	assert.Equal(t, "1439504671927570432", e.ID)

	assert.Equal(t, "🟢", parseEmoji("🟢").Name)
	assert.Nil(t, parseEmoji(""))
}

func TestToMessageEdit_Rows(t *testing.T) {
	edit := toMessageEdit("c", "m", entity.Message{Content: "x"})
	assert.Nil(t, edit.Components)

	edit = toMessageEdit("c", "m", entity.Message{Rows: []entity.ActionRow{}})
	require.NotNil(t, edit.Components)
	assert.Empty(t, *edit.Components)
}

func TestToComponents(t *testing.T) {
	rec := entity.NewFlightRecord("ABC123")
	rec.FlightNumber = "AC8810"
	rows := toComponents(templates.AdminControls(rec))
	require.Len(t, rows, 5)

	first, ok := rows[0].(discordgo.ActionsRow)
	require.True(t, ok)
	btn, ok := first.Components[0].(discordgo.Button)
	require.True(t, ok)
	assert.Equal(t, "set_gates:ABC123", btn.CustomID)
}

func TestToModalResponse(t *testing.T) {
	resp := toModalResponse(templates.AlertsModal("ABC123"))
	assert.Equal(t, discordgo.InteractionResponseModal, resp.Type)
	assert.Equal(t, "alerts_form:ABC123", resp.Data.CustomID)

	row := resp.Data.Components[0].(discordgo.ActionsRow)
	input := row.Components[0].(discordgo.TextInput)
	assert.Equal(t, discordgo.TextInputParagraph, input.Style)
}
