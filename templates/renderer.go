package templates

import (
	"strings"

	"flightdesk-service/internal/domain/entity"
)

// BoardColor is the embed accent colour used on every flight view
const BoardColor = 13047318

// BannerURL is the image attached under flight embeds
const BannerURL = "https://message.style/cdn/images/ea75ce6f1ccf8a29c0d92c39a5daf807711b498b1df7ae0cf143f660d75ca454.png"

const (
	emojiTakeoff     = "<:AIC_Takeoff:1419416267302899824>"
	emojiLanding     = "<:AIC_Landing:1419416286546362388>"
	emojiCalendar    = "<:AIC_Calendar:1419416309174636666>"
	emojiRoute       = "<:AIC_Route:1439504509926903838>"
	emojiClock       = "<:AIC_Clock:1419417053109944444>"
	emojiPlane       = "<:AIC_Plane:1473800759173976325>"
	emojiLocation    = "<:AIC_Location:1473809150206017596>"
	emojiAirport     = "<:AIC_Airport:1419416394122006528>"
	emojiBoarding    = "<:AIC_BoardingPass:1419417172035240068>"
	emojiInformation = "<:AIC_Information:1440775211082453002>"
	emojiSeat        = "<:AIC_Seat:1419416588964335706>"
	emojiMeal        = "<:AIC_MealService:1419416320948306112>"
	emojiStatus      = "<:AIC_Status:1419416335271596242>"
	emojiHost        = "<:AIC_2:1419416360353796247>"
	emojiWarning     = "<:AIC_Warning:1419416746514841743>"
	emojiLink        = "<:AIC_Link:1417212068028874865>"
	emojiDot         = "<:AC_Dot:1439504671927570432>"
)

// AircraftNamer resolves an aircraft type code to its marketing name
type AircraftNamer interface {
	FullName(code string) string
}

// Renderer projects flight records into chat payloads. It holds no state
// besides its lookups, so every method is a pure function of its input.
type Renderer struct {
	aircraft     AircraftNamer
	interestRole string
}

// NewRenderer creates a renderer. A nil namer prints aircraft codes as-is.
func NewRenderer(aircraft AircraftNamer, interestRole string) *Renderer {
	return &Renderer{
		aircraft:     aircraft,
		interestRole: interestRole,
	}
}

func (r *Renderer) aircraftName(code string) string {
	if r.aircraft == nil {
		return code
	}
	return r.aircraft.FullName(code)
}

// RoleMention pings the interest role, or returns "" when none is configured
func (r *Renderer) RoleMention() string {
	if r.interestRole == "" {
		return ""
	}
	return "<@&" + r.interestRole + ">"
}

// StatusEmoji returns the coloured marker for a status
func StatusEmoji(status entity.Status) string {
	switch status {
	case entity.StatusOnTime:
		return "🟢"
	case entity.StatusDelayed:
		return "🟡"
	case entity.StatusCancelled:
		return "🔴"
	case entity.StatusRescheduled:
		return "🔵"
	}
	return "⚪"
}

func orUnknown(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func hostMention(host string) string {
	if host == "" || host == entity.NotAvailable {
		return "Unknown"
	}
	return "<@" + host + ">"
}
