package templates

import (
	"strconv"

	"flightdesk-service/internal/domain/entity"
)

// Modal field ids
const (
	FieldFlightNumber = "flight_number"
	FieldDepCity      = "dep_city"
	FieldDepDate      = "dep_date"
	FieldTerminal     = "terminal"
	FieldAircraft     = "aircraft"

	FieldArrCity    = "arr_city"
	FieldDepAirport = "dep_airport"
	FieldDuration   = "duration"
	FieldDepTime    = "dep_time"

	FieldDepCode    = "dep_code"
	FieldArrCode    = "arr_code"
	FieldArrAirport = "arr_airport"
	FieldArrTime    = "arr_time"

	FieldDepGate       = "dep_gate"
	FieldArrGate       = "arr_gate"
	FieldAlertText     = "alert_text"
	FieldTimestamp     = "timestamp"
	FieldServerLink    = "server_link"
	FieldSpawnLocation = "spawn_location"
)

func required(id, label, placeholder string) entity.ModalField {
	return entity.ModalField{ID: id, Label: label, Placeholder: placeholder, Required: true}
}

var wizardFields = map[entity.WizardStep][]entity.ModalField{
	entity.WizardStep1: {
		required(FieldFlightNumber, "Flight Number", "AC8810, AC8815"),
		required(FieldDepCity, "Departure City", "Toronto, Vancouver, Montreal"),
		required(FieldDepDate, "Departure Date (DDMMYYYY)", "20092025"),
		required(FieldTerminal, "Terminal", "1, 2, 3"),
		required(FieldAircraft, "Aircraft (code)", "B77W, A333, B789, A321"),
	},
	entity.WizardStep2: {
		required(FieldArrCity, "Arrival City", "Montreal, Calgary, Ottawa"),
		required(FieldDepAirport, "Departure Airport", "Toronto Pearson International Airport"),
		required(FieldDuration, "Flight Duration", "0h 45m, 1h 10m, 0h 30m"),
		required(FieldDepTime, "Departure Time", "10:30, 18:15, 21:30"),
	},
	entity.WizardStep3: {
		required(FieldDepCode, "Departure Airport Code", "YYZ, YUL, YHZ, FRA"),
		required(FieldArrCode, "Arrival Airport Code", "YYZ, YUL, YHZ, FRA"),
		required(FieldArrAirport, "Arrival Airport", "Montréal–Trudeau International Airport"),
		required(FieldArrTime, "Arrival Time", "11:15, 19:30, 22:15"),
	},
}

// WizardFields returns the form fields of a wizard step
func WizardFields(step entity.WizardStep) []entity.ModalField {
	return wizardFields[step]
}

// WizardModal renders the blank form of a wizard step
func WizardModal(step entity.WizardStep) entity.Modal {
	fields := make([]entity.ModalField, len(wizardFields[step]))
	copy(fields, wizardFields[step])
	return entity.Modal{
		CustomID: entity.Command{Action: entity.ActionWizardSubmit, Step: step}.CustomID(),
		Title:    "Flight Details (" + strconv.Itoa(int(step)) + "/3)",
		Fields:   fields,
	}
}

// GatesModal asks for both gates, blank meaning N/A
func GatesModal(code string) entity.Modal {
	return entity.Modal{
		CustomID: entity.CodeCommand(entity.ActionSubmitGates, code).CustomID(),
		Title:    "Set Gates (1-2 chars each)",
		Fields: []entity.ModalField{
			{ID: FieldDepGate, Label: "Departure Gate (1-2 chars)", Placeholder: "A1", MaxLength: 2},
			{ID: FieldArrGate, Label: "Arrival Gate (1-2 chars)", Placeholder: "B2", MaxLength: 2},
		},
	}
}

func AlertsModal(code string) entity.Modal {
	return entity.Modal{
		CustomID: entity.CodeCommand(entity.ActionSubmitAlerts, code).CustomID(),
		Title:    "Set Alerts (free text)",
		Fields: []entity.ModalField{
			{ID: FieldAlertText, Label: "Alerts (text)", Placeholder: "Weather delay possible...", Long: true},
		},
	}
}

func ReminderModal(code string) entity.Modal {
	return entity.Modal{
		CustomID: entity.CodeCommand(entity.ActionSubmitReminder, code).CustomID(),
		Title:    "Send Reminder (timestamp)",
		Fields: []entity.ModalField{
			required(FieldTimestamp, "Timestamp text", "e.g. 2025-09-20 13:00 UTC"),
		},
	}
}

func StartModal(code string) entity.Modal {
	return entity.Modal{
		CustomID: entity.CodeCommand(entity.ActionSubmitStart, code).CustomID(),
		Title:    "Start Flight (server link + spawn location)",
		Fields: []entity.ModalField{
			required(FieldServerLink, "Server Link", "server link URL"),
			{ID: FieldSpawnLocation, Label: "Spawn Location (public notice)", Placeholder: "Spawn Location"},
		},
	}
}
