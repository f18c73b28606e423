package templates

import (
	"sort"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/pkg/utils"
)

const (
	// MaxSelectOptions is the platform cap on select menu options
	MaxSelectOptions = 25
	// MaxEmbedFields is the platform cap on fields in one embed
	MaxEmbedFields = 25
)

// GroupByDate buckets flights by departure date, each bucket sorted by departure time
func GroupByDate(flights []*entity.FlightRecord) map[string][]*entity.FlightRecord {
	grouped := make(map[string][]*entity.FlightRecord)
	for _, f := range flights {
		grouped[f.Departure.Date] = append(grouped[f.Departure.Date], f)
	}
	for _, day := range grouped {
		SortByDeparture(day)
	}
	return grouped
}

// SortByDeparture orders flights by HH:MM departure time, then code
func SortByDeparture(flights []*entity.FlightRecord) {
	sort.SliceStable(flights, func(i, j int) bool {
		a, b := flights[i].Departure.Time, flights[j].Departure.Time
		if a != b {
			return a < b
		}
		return flights[i].Code < flights[j].Code
	})
}

// FlightsOn returns the flights departing on date, sorted
func FlightsOn(flights []*entity.FlightRecord, date string) []*entity.FlightRecord {
	var day []*entity.FlightRecord
	for _, f := range flights {
		if f.Departure.Date == date {
			day = append(day, f)
		}
	}
	SortByDeparture(day)
	return day
}

func (r *Renderer) summaryField(rec *entity.FlightRecord) entity.EmbedField {
	return entity.EmbedField{
		Name: emojiTakeoff + " " + orUnknown(rec.FlightNumber, "???"),
		Value: "-# " + emojiRoute + " Route: " + orUnknown(rec.Departure.Code, "???") + " to " + orUnknown(rec.Arrival.Code, "???") + "\n" +
			"-# " + emojiClock + " Departure time: " + orUnknown(rec.Departure.Time, "?") + " UTC\n" +
			"-# " + emojiPlane + " Aircraft: " + r.aircraftName(orUnknown(rec.Aircraft, entity.NotAvailable)) + "\n\n",
		Inline: true,
	}
}

// DayBoard renders the grouped schedule for one date. flights must already be
// the sorted real flights of that day.
func (r *Renderer) DayBoard(date string, flights []*entity.FlightRecord) entity.Message {
	embed := entity.Embed{
		Title:       emojiCalendar + "  Flight Board",
		Description: "Displayed flights are hosted on the " + utils.FormatOrdinalDate(date) + ". To check more information about a flight, select it on the display menu down below.",
		Color:       BoardColor,
		ImageURL:    BannerURL,
	}
	for i, f := range flights {
		if i == MaxEmbedFields {
			break
		}
		embed.Fields = append(embed.Fields, r.summaryField(f))
	}

	msg := entity.Message{
		Content:      r.RoleMention(),
		Embeds:       []entity.Embed{embed},
		MentionRoles: true,
	}
	if len(flights) == 0 {
		// an empty row set clears a stale select on edit
		msg.Rows = []entity.ActionRow{}
		return msg
	}

	sel := &entity.Select{
		CustomID:    entity.SelectFlightID,
		Placeholder: "Select a flight to view details...",
	}
	for i, f := range flights {
		if i == MaxSelectOptions {
			break
		}
		sel.Options = append(sel.Options, entity.SelectOption{
			Label:       orUnknown(f.FlightNumber, f.Code),
			Value:       f.Code,
			Description: "Departure: " + f.Departure.Time + " UTC",
			Emoji:       emojiDot,
		})
	}
	msg.Rows = []entity.ActionRow{{Select: sel}}
	return msg
}
