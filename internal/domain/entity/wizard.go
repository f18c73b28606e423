package entity

// WizardStep is a state of the submission wizard
type WizardStep int

const (
	WizardStep1 WizardStep = iota + 1
	WizardStep2
	WizardStep3
	WizardConfirmed
)

// WizardState is the step a submitter is on and whether its summary is awaiting confirmation
type WizardState struct {
	Step      WizardStep
	Reviewing bool
}

// WizardDraft accumulates the fields of the three wizard forms
type WizardDraft struct {
	FlightNumber string `json:"flight_number,omitempty"`
	DepCity      string `json:"dep_city,omitempty"`
	DepDate      string `json:"dep_date,omitempty"`
	Terminal     string `json:"terminal,omitempty"`
	Aircraft     string `json:"aircraft,omitempty"`

	ArrCity    string `json:"arr_city,omitempty"`
	DepAirport string `json:"dep_airport,omitempty"`
	Duration   string `json:"duration,omitempty"`
	DepTime    string `json:"dep_time,omitempty"`

	DepCode    string `json:"dep_code,omitempty"`
	ArrCode    string `json:"arr_code,omitempty"`
	ArrAirport string `json:"arr_airport,omitempty"`
	ArrTime    string `json:"arr_time,omitempty"`

	Step      WizardStep `json:"wizard_step,omitempty"`
	Reviewing bool       `json:"wizard_reviewing,omitempty"`
}

// State returns the wizard state recorded on the draft
func (d *WizardDraft) State() WizardState {
	if d == nil || d.Step == 0 {
		return WizardState{Step: WizardStep1}
	}
	return WizardState{Step: d.Step, Reviewing: d.Reviewing}
}

// Clone returns an independent copy
func (d *WizardDraft) Clone() *WizardDraft {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

// ToRecord merges the draft into a full record with defaults
func (d *WizardDraft) ToRecord(code, host string) *FlightRecord {
	r := NewFlightRecord(code)
	r.FlightNumber = d.FlightNumber
	r.HostUserID = host
	r.Departure = Departure{
		City:     d.DepCity,
		Airport:  d.DepAirport,
		Code:     d.DepCode,
		Time:     d.DepTime,
		Date:     d.DepDate,
		Terminal: d.Terminal,
	}
	r.Arrival = Arrival{
		City:    d.ArrCity,
		Airport: d.ArrAirport,
		Code:    d.ArrCode,
		Time:    d.ArrTime,
	}
	r.Duration = d.Duration
	r.Aircraft = d.Aircraft
	return r
}
