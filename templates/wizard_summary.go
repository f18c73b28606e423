package templates

import (
	"strconv"
	"strings"

	"flightdesk-service/internal/domain/entity"
)

type summaryLine struct {
	label string
	value func(d *entity.WizardDraft) string
}

var summaryLines = map[entity.WizardStep][]summaryLine{
	entity.WizardStep1: {
		{"Flight Number", func(d *entity.WizardDraft) string { return d.FlightNumber }},
		{"Departure City", func(d *entity.WizardDraft) string { return d.DepCity }},
		{"Date", func(d *entity.WizardDraft) string { return d.DepDate }},
		{"Terminal", func(d *entity.WizardDraft) string { return d.Terminal }},
		{"Aircraft", func(d *entity.WizardDraft) string { return d.Aircraft }},
	},
	entity.WizardStep2: {
		{"Arrival City", func(d *entity.WizardDraft) string { return d.ArrCity }},
		{"Departure Airport", func(d *entity.WizardDraft) string { return d.DepAirport }},
		{"Duration", func(d *entity.WizardDraft) string { return d.Duration }},
		{"Departure Time", func(d *entity.WizardDraft) string { return d.DepTime }},
	},
	entity.WizardStep3: {
		{"Departure Code", func(d *entity.WizardDraft) string { return d.DepCode }},
		{"Arrival Code", func(d *entity.WizardDraft) string { return d.ArrCode }},
		{"Arrival Airport", func(d *entity.WizardDraft) string { return d.ArrAirport }},
		{"Arrival Time", func(d *entity.WizardDraft) string { return d.ArrTime }},
	},
}

// WizardSummary renders the "is this correct?" gate for a completed step.
// The buttons carry the owner so nobody else can answer it.
func WizardSummary(step entity.WizardStep, draft *entity.WizardDraft, owner string) entity.Message {
	var b strings.Builder
	b.WriteString("**Step " + strconv.Itoa(int(step)) + " Summary:**\n")
	for _, line := range summaryLines[step] {
		b.WriteString(line.label + ": " + line.value(draft) + "\n")
	}
	b.WriteString("\nIs this correct?")

	yes := entity.Command{Action: entity.ActionWizardConfirm, Step: step, Owner: owner}
	no := entity.Command{Action: entity.ActionWizardReject, Step: step, Owner: owner}
	return entity.Message{
		Content: b.String(),
		Rows: []entity.ActionRow{{Buttons: []entity.Button{
			{Label: "Yes ✅", CustomID: yes.CustomID(), Style: entity.ButtonSuccess},
			{Label: "No ❌", CustomID: no.CustomID(), Style: entity.ButtonDanger},
		}}},
	}
}
