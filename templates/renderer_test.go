package templates

import (
	"fmt"
	"sort"
	"strings"
	"testing"

	"flightdesk-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapNamer map[string]string

func (m mapNamer) FullName(code string) string {
	if n, ok := m[strings.ToUpper(code)]; ok {
		return n
	}
	return code
}

func flight(code, fn, date, depTime string) *entity.FlightRecord {
	r := entity.NewFlightRecord(code)
	r.FlightNumber = fn
	r.Departure.Date = date
	r.Departure.Time = depTime
	r.Departure.Code = "YYZ"
	r.Arrival.Code = "YUL"
	r.Arrival.City = "Montreal"
	r.Aircraft = "B77W"
	r.HostUserID = "42"
	return r
}

func TestGroupByDateRoundTrip(t *testing.T) {
	flights := []*entity.FlightRecord{
		flight("AAAAA1", "AC1", "20092025", "18:15"),
		flight("AAAAA2", "AC2", "21092025", "09:00"),
		flight("AAAAA3", "AC3", "20092025", "10:30"),
		flight("AAAAA4", "AC4", "20092025", "10:30"),
		flight("AAAAA5", "AC5", "22092025", "23:59"),
	}

	grouped := GroupByDate(flights)
	require.Len(t, grouped, 3)

	var flattened []string
	for _, day := range grouped {
		for i := 1; i < len(day); i++ {
			assert.LessOrEqual(t, day[i-1].Departure.Time, day[i].Departure.Time)
		}
		for _, f := range day {
			flattened = append(flattened, f.Code)
		}
	}
	sort.Strings(flattened)
	assert.Equal(t, []string{"AAAAA1", "AAAAA2", "AAAAA3", "AAAAA4", "AAAAA5"}, flattened)

	day := grouped["20092025"]
	assert.Equal(t, []string{"AAAAA3", "AAAAA4", "AAAAA1"}, []string{day[0].Code, day[1].Code, day[2].Code})
}

func TestDayBoard(t *testing.T) {
	r := NewRenderer(mapNamer{"B77W": "Boeing 777-300ER"}, "999")
	day := FlightsOn([]*entity.FlightRecord{
		flight("AAAAA1", "AC1", "20092025", "18:15"),
		flight("AAAAA2", "AC2", "20092025", "09:00"),
		flight("AAAAA3", "AC3", "21092025", "09:00"),
	}, "20092025")

	msg := r.DayBoard("20092025", day)

	assert.Equal(t, "<@&999>", msg.Content)
	require.Len(t, msg.Embeds, 1)
	embed := msg.Embeds[0]
	assert.Contains(t, embed.Title, "Flight Board")
	assert.Contains(t, embed.Description, "hosted on the 20th September.")
	assert.Equal(t, BoardColor, embed.Color)
	require.Len(t, embed.Fields, 2)
	assert.Contains(t, embed.Fields[0].Name, "AC2")
	assert.Contains(t, embed.Fields[0].Value, "Route: YYZ to YUL")
	assert.Contains(t, embed.Fields[0].Value, "Departure time: 09:00 UTC")
	assert.Contains(t, embed.Fields[0].Value, "Aircraft: Boeing 777-300ER")

	require.Len(t, msg.Rows, 1)
	sel := msg.Rows[0].Select
	require.NotNil(t, sel)
	assert.Equal(t, entity.SelectFlightID, sel.CustomID)
	assert.Equal(t, "AAAAA2", sel.Options[0].Value)
	assert.Equal(t, "Departure: 09:00 UTC", sel.Options[0].Description)
}

func TestDayBoardCapsFieldsAndOptions(t *testing.T) {
	r := NewRenderer(nil, "")
	var day []*entity.FlightRecord
	for i := 0; i < 30; i++ {
		day = append(day, flight(fmt.Sprintf("CODE%02d", i), fmt.Sprintf("AC%d", i), "20092025", fmt.Sprintf("%02d:00", i%24)))
	}
	msg := r.DayBoard("20092025", day)
	assert.Len(t, msg.Embeds[0].Fields, MaxEmbedFields)
	assert.Len(t, msg.Rows[0].Select.Options, MaxSelectOptions)
	assert.Empty(t, msg.Content)
}

func TestDayBoardUnparseableDatePassesThrough(t *testing.T) {
	r := NewRenderer(nil, "")
	msg := r.DayBoard("sometime", nil)
	assert.Contains(t, msg.Embeds[0].Description, "hosted on the sometime.")
	assert.Empty(t, msg.Rows)
}

func TestDetail(t *testing.T) {
	r := NewRenderer(mapNamer{"B77W": "Boeing 777-300ER"}, "")
	rec := flight("AAAAA1", "AC1", "01102025", "10:30")
	rec.Status = entity.StatusDelayed

	embed := r.Detail(rec)
	require.Len(t, embed.Fields, 3)
	assert.Equal(t, "# <:AIC_Takeoff:1419416267302899824> AC1", embed.Description)
	info := embed.Fields[2].Value
	assert.Contains(t, info, "1st October 2025")
	assert.Contains(t, info, "Aircraft: Boeing 777-300ER")
	assert.Contains(t, info, "Flight Status: 🟡 Delayed")
	assert.Contains(t, info, "Host: <@42>")
	assert.Contains(t, info, "Alerts: N/A")
	assert.Contains(t, embed.Fields[0].Value, "Gate N/A")
	assert.False(t, embed.Fields[2].Inline)
}

func TestAdminPanel(t *testing.T) {
	r := NewRenderer(nil, "")
	rec := flight("AAAAA1", "AC1", "20092025", "10:30")
	rec.MealService = entity.MealSnack
	rec.Status = entity.StatusOnTime
	rec.Event.Link = "https://example.com/event"

	msg := r.AdminPanel(rec)
	embed := msg.Embeds[0]
	assert.Equal(t, "# [AC1](https://example.com/event)\n-# Administrator View", embed.Description)
	assert.Equal(t, AdminFooter, embed.Footer)

	require.Len(t, msg.Rows, 5)
	assert.Equal(t, "set_gates:AAAAA1", msg.Rows[0].Buttons[0].CustomID)
	assert.Equal(t, "close_flight:AAAAA1", msg.Rows[2].Buttons[2].CustomID)

	meal := msg.Rows[3].Select
	require.Len(t, meal.Options, 3)
	assert.Equal(t, "meal_select:AAAAA1", meal.CustomID)
	for _, o := range meal.Options {
		assert.Equal(t, o.Value == string(entity.MealSnack), o.Default)
	}

	status := msg.Rows[4].Select
	require.Len(t, status.Options, 4)
	assert.True(t, status.Options[0].Default)
	assert.Equal(t, "On–Time", status.Options[0].Value)
}

func TestAdminEmbedWithoutEvent(t *testing.T) {
	r := NewRenderer(nil, "")
	embed := r.AdminEmbed(flight("AAAAA1", "AC1", "20092025", "10:30"))
	assert.True(t, strings.HasSuffix(embed.Description, "AC1\n-# Administrator View"))
}

func TestPublicListing(t *testing.T) {
	r := NewRenderer(nil, "")
	msg := r.PublicListing(flight("AAAAA1", "AC1", "20092025", "10:30"))
	require.Len(t, msg.Embeds[0].Fields, 1)
	assert.Contains(t, msg.Embeds[0].Fields[0].Value, "Aircraft: B77W")
	assert.Equal(t, "detail:AAAAA1", msg.Rows[0].Buttons[0].CustomID)
}

func TestStatusEmoji(t *testing.T) {
	assert.Equal(t, "🟢", StatusEmoji(entity.StatusOnTime))
	assert.Equal(t, "🔴", StatusEmoji(entity.StatusCancelled))
	assert.Equal(t, "🔵", StatusEmoji(entity.StatusRescheduled))
	assert.Equal(t, "⚪", StatusEmoji(entity.StatusEnded))
}

func TestWizardModalAndSummary(t *testing.T) {
	m := WizardModal(entity.WizardStep2)
	assert.Equal(t, "Flight Details (2/3)", m.Title)
	assert.Equal(t, "wizard_form:2", m.CustomID)
	assert.Len(t, m.Fields, 4)

	draft := &entity.WizardDraft{FlightNumber: "AC8810", DepCity: "Toronto", DepDate: "20092025", Terminal: "1", Aircraft: "B77W"}
	msg := WizardSummary(entity.WizardStep1, draft, "1234")
	assert.True(t, strings.HasPrefix(msg.Content, "**Step 1 Summary:**\nFlight Number: AC8810\n"))
	assert.True(t, strings.HasSuffix(msg.Content, "\n\nIs this correct?"))
	assert.Equal(t, "wizard_yes:1:1234", msg.Rows[0].Buttons[0].CustomID)
	assert.Equal(t, "wizard_no:1:1234", msg.Rows[0].Buttons[1].CustomID)
}

func TestAnnouncements(t *testing.T) {
	r := NewRenderer(nil, "77")
	rec := flight("AAAAA1", "AC1", "20092025", "10:30")
	rec.Server.Link = "https://roblox.example/server"

	assert.Equal(t, "# AC1 OPENS IN 13:00 UTC\n<@&77>\n\nPlease select \"interested\" if attending!\n\nEvent link: N/A",
		r.ReminderText(rec, "13:00 UTC"))
	assert.Contains(t, r.StartText(rec, ""), "Please head to check-in at **the airport**")
	assert.Contains(t, r.StartText(rec, "Gate lounge"), "**Gate lounge**")
	assert.Equal(t, "# AC1 to Montreal has closed boarding.\n<@&77> \n\n"+entity.ServerLinkClosed, r.ClosedText(rec))
}

func TestLogEmbed(t *testing.T) {
	msg := LogEmbed(entity.Actor{ID: "5", Name: "pilot"}, "Pressed button", "ABC1234")
	fields := msg.Embeds[0].Fields
	require.Len(t, fields, 3)
	assert.Equal(t, "<@5>", fields[0].Value)
	assert.Equal(t, "```Pressed button```", fields[1].Value)
	assert.Equal(t, "`ABC1234`", fields[2].Value)
}
