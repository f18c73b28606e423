package templates

import (
	"flightdesk-service/internal/domain/entity"
)

// AdminFooter is shown under the administrator view
const AdminFooter = "All times are set in UTC"

// AdminEmbed renders the detail layout annotated for administrators
func (r *Renderer) AdminEmbed(rec *entity.FlightRecord) entity.Embed {
	embed := r.Detail(rec)
	fn := orUnknown(rec.FlightNumber, "Unknown")
	if rec.Event.Link != "" && rec.Event.Link != entity.NotAvailable {
		embed.Description = "# [" + fn + "](" + rec.Event.Link + ")"
	}
	embed.Description += "\n-# Administrator View"
	embed.Footer = AdminFooter
	return embed
}

// AdminPanel renders the administrator view with its controls
func (r *Renderer) AdminPanel(rec *entity.FlightRecord) entity.Message {
	return entity.Message{
		Embeds: []entity.Embed{r.AdminEmbed(rec)},
		Rows:   AdminControls(rec),
	}
}

func codeButton(label string, action entity.Action, code string, style entity.ButtonStyle) entity.Button {
	return entity.Button{
		Label:    label,
		CustomID: entity.CodeCommand(action, code).CustomID(),
		Style:    style,
	}
}

// AdminControls builds the admin panel rows with the current meal and status pre-selected
func AdminControls(rec *entity.FlightRecord) []entity.ActionRow {
	code := rec.Code

	meal := &entity.Select{
		CustomID:    entity.CodeCommand(entity.ActionSetMeal, code).CustomID(),
		Placeholder: "Select meal service",
	}
	for _, m := range entity.MealOptions {
		meal.Options = append(meal.Options, entity.SelectOption{
			Label:   string(m),
			Value:   string(m),
			Default: rec.MealService == m,
		})
	}

	status := &entity.Select{
		CustomID:    entity.CodeCommand(entity.ActionSetStatus, code).CustomID(),
		Placeholder: "Select status",
	}
	for _, s := range entity.SelectableStatuses {
		status.Options = append(status.Options, entity.SelectOption{
			Label:   string(s),
			Value:   string(s),
			Default: rec.Status == s,
		})
	}

	return []entity.ActionRow{
		{Buttons: []entity.Button{
			codeButton("Set Departure & Arrival Gate", entity.ActionOpenGates, code, entity.ButtonPrimary),
		}},
		{Buttons: []entity.Button{
			codeButton("Set Alerts", entity.ActionOpenAlerts, code, entity.ButtonSuccess),
			codeButton("Send Reminder", entity.ActionOpenReminder, code, entity.ButtonDanger),
		}},
		{Buttons: []entity.Button{
			codeButton("Flight Not Started", entity.ActionNotStarted, code, entity.ButtonSecondary),
			codeButton("Start Flight", entity.ActionOpenStart, code, entity.ButtonSuccess),
			codeButton("Close Flight", entity.ActionCloseFlight, code, entity.ButtonDanger),
		}},
		{Select: meal},
		{Select: status},
	}
}
