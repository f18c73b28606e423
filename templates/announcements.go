package templates

import (
	"flightdesk-service/internal/domain/entity"
)

// ReminderText is the "opens in" announcement
func (r *Renderer) ReminderText(rec *entity.FlightRecord, timestamp string) string {
	return "# " + orUnknown(rec.FlightNumber, "Unknown") + " OPENS IN " + timestamp + "\n" +
		r.RoleMention() + "\n\n" +
		"Please select \"interested\" if attending!\n\n" +
		"Event link: " + rec.Event.Link
}

// StartText is the check-in announcement
func (r *Renderer) StartText(rec *entity.FlightRecord, spawn string) string {
	if spawn == "" {
		spawn = "the airport"
	}
	return "# " + orUnknown(rec.FlightNumber, "Unknown") + " to " + orUnknown(rec.Arrival.City, "Unknown") + " has begun check-in.\n" +
		r.RoleMention() + "\n\n" +
		"Please head to check-in at **" + spawn + "**\n\n" +
		"> " + emojiLink + " " + rec.Server.Link
}

// ClosedText replaces the check-in announcement once boarding closes
func (r *Renderer) ClosedText(rec *entity.FlightRecord) string {
	return "# " + orUnknown(rec.FlightNumber, "Unknown") + " to " + orUnknown(rec.Arrival.City, "Unknown") + " has closed boarding.\n" +
		r.RoleMention() + " \n\n" + entity.ServerLinkClosed
}

// Announcement wraps free text for the announcement channel
func (r *Renderer) Announcement(text string) entity.Message {
	return entity.Message{Content: text, MentionRoles: true}
}

// LogEmbed renders an action log entry for the log channel
func LogEmbed(actor entity.Actor, action, errorCode string) entity.Message {
	embed := entity.Embed{
		Description: "**Log**",
		Color:       BoardColor,
		ImageURL:    BannerURL,
		Fields: []entity.EmbedField{
			{Name: "Username", Value: actor.Mention()},
			{Name: "Action Performed", Value: "```" + action + "```"},
		},
	}
	if errorCode != "" {
		embed.Fields = append(embed.Fields, entity.EmbedField{Name: "Error Code", Value: "`" + errorCode + "`"})
	}
	return entity.Message{Embeds: []entity.Embed{embed}}
}
