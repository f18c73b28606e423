package templates

import (
	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/pkg/utils"
)

func (r *Renderer) departureField(rec *entity.FlightRecord) entity.EmbedField {
	return entity.EmbedField{
		Name: emojiTakeoff + " Departure",
		Value: "> -# " + emojiLocation + " " + orUnknown(rec.Departure.Airport, entity.NotAvailable) + "\n" +
			"> -# " + emojiAirport + " " + orUnknown(rec.Departure.Code, entity.NotAvailable) + "\n" +
			"> -# " + emojiClock + " " + orUnknown(rec.Departure.Time, entity.NotAvailable) + "\n" +
			"> -# " + emojiAirport + " Terminal " + orUnknown(rec.Departure.Terminal, entity.NotAvailable) + "\n" +
			"> -# " + emojiBoarding + " Gate " + rec.Gate.Dep,
		Inline: true,
	}
}

func (r *Renderer) arrivalField(rec *entity.FlightRecord) entity.EmbedField {
	return entity.EmbedField{
		Name: emojiLanding + " Arrival",
		Value: "> -# " + emojiLocation + " " + orUnknown(rec.Arrival.Airport, entity.NotAvailable) + "\n" +
			"> -# " + emojiAirport + " " + orUnknown(rec.Arrival.Code, entity.NotAvailable) + "\n" +
			"> -# " + emojiClock + " " + orUnknown(rec.Arrival.Time, entity.NotAvailable) + "\n" +
			"> -# " + emojiBoarding + " Gate " + rec.Gate.Arr,
		Inline: true,
	}
}

func (r *Renderer) informationField(rec *entity.FlightRecord) entity.EmbedField {
	return entity.EmbedField{
		Name: emojiInformation + " Flight Information",
		Value: "> -# " + emojiCalendar + " " + utils.FormatOrdinalDateWithYear(orUnknown(rec.Departure.Date, entity.NotAvailable)) + "\n" +
			"> -# " + emojiSeat + " Aircraft: " + r.aircraftName(orUnknown(rec.Aircraft, entity.NotAvailable)) + "\n" +
			"> -# " + emojiMeal + " " + string(rec.MealService) + "\n" +
			"> -# " + emojiStatus + " Flight Status: " + StatusEmoji(rec.Status) + " " + string(rec.Status) + "\n" +
			"> -# " + emojiHost + " Host: " + hostMention(rec.HostUserID) + "\n" +
			"> -# " + emojiWarning + " Alerts: " + rec.Alerts + "\n\n" +
			"> -# " + emojiLink + " Server Link: " + rec.Server.Link,
		Inline: false,
	}
}

// Detail renders the full view of one flight
func (r *Renderer) Detail(rec *entity.FlightRecord) entity.Embed {
	return entity.Embed{
		Description: "# " + emojiTakeoff + " " + orUnknown(rec.FlightNumber, "Unknown"),
		Color:       BoardColor,
		Fields: []entity.EmbedField{
			r.departureField(rec),
			r.arrivalField(rec),
			r.informationField(rec),
		},
		ImageURL: BannerURL,
	}
}

// DetailMessage wraps the detail view for an ephemeral reply
func (r *Renderer) DetailMessage(rec *entity.FlightRecord) entity.Message {
	return entity.Message{Embeds: []entity.Embed{r.Detail(rec)}}
}
