package templates

import (
	"flightdesk-service/internal/domain/entity"
)

// PublicListing renders the single-flight list embed with a details button
func (r *Renderer) PublicListing(rec *entity.FlightRecord) entity.Message {
	return entity.Message{
		Embeds: []entity.Embed{{
			Color:    BoardColor,
			Fields:   []entity.EmbedField{r.summaryField(rec)},
			ImageURL: BannerURL,
		}},
		Rows: []entity.ActionRow{{Buttons: []entity.Button{
			codeButton("View details", entity.ActionShowDetail, rec.Code, entity.ButtonSecondary),
		}}},
	}
}
