// internal/domain/entity/flight_record.go
package entity

import (
	"encoding/json"
	"strings"
	"time"
)

// NotAvailable is the placeholder for unset optional fields
const NotAvailable = "N/A"

// Server link sentinels set by the not-started and close actions
const (
	ServerLinkNotStarted = "Flight Not Started"
	ServerLinkClosed     = "<:AIC_Locked:1409728733589405777> Gate Closed"
)

const pendingSuffix = "_pending"

// Status is the operational status of a flight
type Status string

const (
	StatusOnTime      Status = "On–Time"
	StatusDelayed     Status = "Delayed"
	StatusCancelled   Status = "Cancelled"
	StatusRescheduled Status = "Rescheduled"
	StatusNotSet      Status = NotAvailable
	StatusEnded       Status = "Ended"
)

// Statuses lists every accepted status value
var Statuses = []Status{StatusOnTime, StatusDelayed, StatusCancelled, StatusRescheduled, StatusNotSet, StatusEnded}

// SelectableStatuses are offered on the admin panel
var SelectableStatuses = []Status{StatusOnTime, StatusDelayed, StatusCancelled, StatusRescheduled}

// ParseStatus validates a status value
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// MealService is the catering level announced for a flight
type MealService string

const (
	MealFull   MealService = "Meal Service"
	MealSnack  MealService = "Snack Service"
	MealNone   MealService = "No Meal Service"
	MealNotSet MealService = NotAvailable
)

// MealOptions are offered on the admin panel
var MealOptions = []MealService{MealFull, MealSnack, MealNone}

// ParseMealService validates a meal service value
func ParseMealService(s string) (MealService, bool) {
	for _, m := range []MealService{MealFull, MealSnack, MealNone, MealNotSet} {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

type Departure struct {
	City     string
	Airport  string
	Code     string
	Time     string
	Date     string // DDMMYYYY
	Terminal string
}

type Arrival struct {
	City    string
	Airport string
	Code    string
	Time    string
}

type Gate struct {
	Dep string `json:"dep"`
	Arr string `json:"arr"`
}

type Link struct {
	Link string `json:"link"`
}

// FlightRecord is a scheduled community flight
type FlightRecord struct {
	Code              string
	FlightNumber      string
	Departure         Departure
	Arrival           Arrival
	Duration          string
	Aircraft          string
	HostUserID        string
	Gate              Gate
	MealService       MealService
	Status            Status
	Alerts            string
	Server            Link
	Event             Link
	PublicMessageID   string
	AdminMessageID    string
	AnnounceMessageID string
	CreatedAt         string
}

// NewFlightRecord creates a record with every optional field defaulted
func NewFlightRecord(code string) *FlightRecord {
	r := &FlightRecord{
		Code:      code,
		CreatedAt: Timestamp(time.Now()),
	}
	r.ApplyDefaults()
	return r
}

// Timestamp formats a creation time the way records store it
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000") + "Z"
}

// ApplyDefaults fills unset optional fields with N/A
func (r *FlightRecord) ApplyDefaults() {
	setDefault(&r.Gate.Dep)
	setDefault(&r.Gate.Arr)
	setDefault(&r.Alerts)
	setDefault(&r.Server.Link)
	setDefault(&r.Event.Link)
	if r.MealService == "" {
		r.MealService = MealNotSet
	}
	if r.Status == "" {
		r.Status = StatusNotSet
	}
}

func setDefault(field *string) {
	if strings.TrimSpace(*field) == "" {
		*field = NotAvailable
	}
}

// Clone returns an independent copy
func (r *FlightRecord) Clone() *FlightRecord {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// IsRealKey reports whether a store key can hold a published flight
func IsRealKey(key string) bool {
	return len(key) == 6 && !strings.HasSuffix(key, pendingSuffix)
}

// IsReal reports whether the record stored under key is a published flight
func (r *FlightRecord) IsReal(key string) bool {
	return r != nil && r.FlightNumber != "" && IsRealKey(key)
}

// PendingKey is the key a finalized wizard session is retained under
func PendingKey(identity string) string {
	return identity + pendingSuffix
}

type flightRecordJSON struct {
	Code              string      `json:"code,omitempty"`
	FlightNumber      string      `json:"flight_number"`
	DepCity           string      `json:"dep_city"`
	ArrCity           string      `json:"arr_city"`
	DepCode           string      `json:"dep_code"`
	ArrCode           string      `json:"arr_code"`
	DepAirport        string      `json:"dep_airport"`
	ArrAirport        string      `json:"arr_airport"`
	DepTime           string      `json:"dep_time"`
	ArrTime           string      `json:"arr_time"`
	DepDate           string      `json:"dep_date"`
	Duration          string      `json:"duration"`
	Terminal          string      `json:"terminal"`
	Aircraft          string      `json:"aircraft"`
	HostUserID        flexString  `json:"host_user_id"`
	Gate              Gate        `json:"gate"`
	MealService       MealService `json:"meal_service"`
	Status            Status      `json:"status"`
	Alerts            string      `json:"alerts"`
	Server            Link        `json:"server"`
	Event             Link        `json:"event"`
	PublicMessageID   nullableID  `json:"public_message_id"`
	AdminMessageID    nullableID  `json:"admin_message_id"`
	AnnounceMessageID nullableID  `json:"announce_message_id"`
	CreatedAt         string      `json:"created_at,omitempty"`
}

// MarshalJSON writes the flat document shape
func (r FlightRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(flightRecordJSON{
		Code:              r.Code,
		FlightNumber:      r.FlightNumber,
		DepCity:           r.Departure.City,
		ArrCity:           r.Arrival.City,
		DepCode:           r.Departure.Code,
		ArrCode:           r.Arrival.Code,
		DepAirport:        r.Departure.Airport,
		ArrAirport:        r.Arrival.Airport,
		DepTime:           r.Departure.Time,
		ArrTime:           r.Arrival.Time,
		DepDate:           r.Departure.Date,
		Duration:          r.Duration,
		Terminal:          r.Departure.Terminal,
		Aircraft:          r.Aircraft,
		HostUserID:        flexString(r.HostUserID),
		Gate:              r.Gate,
		MealService:       r.MealService,
		Status:            r.Status,
		Alerts:            r.Alerts,
		Server:            r.Server,
		Event:             r.Event,
		PublicMessageID:   nullableID(r.PublicMessageID),
		AdminMessageID:    nullableID(r.AdminMessageID),
		AnnounceMessageID: nullableID(r.AnnounceMessageID),
		CreatedAt:         r.CreatedAt,
	})
}

// UnmarshalJSON reads the flat document shape and applies defaults
func (r *FlightRecord) UnmarshalJSON(data []byte) error {
	var raw flightRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = FlightRecord{
		Code:         raw.Code,
		FlightNumber: raw.FlightNumber,
		Departure: Departure{
			City:     raw.DepCity,
			Airport:  raw.DepAirport,
			Code:     raw.DepCode,
			Time:     raw.DepTime,
			Date:     raw.DepDate,
			Terminal: raw.Terminal,
		},
		Arrival: Arrival{
			City:    raw.ArrCity,
			Airport: raw.ArrAirport,
			Code:    raw.ArrCode,
			Time:    raw.ArrTime,
		},
		Duration:          raw.Duration,
		Aircraft:          raw.Aircraft,
		HostUserID:        string(raw.HostUserID),
		Gate:              raw.Gate,
		MealService:       raw.MealService,
		Status:            raw.Status,
		Alerts:            raw.Alerts,
		Server:            raw.Server,
		Event:             raw.Event,
		PublicMessageID:   string(raw.PublicMessageID),
		AdminMessageID:    string(raw.AdminMessageID),
		AnnounceMessageID: string(raw.AnnounceMessageID),
		CreatedAt:         raw.CreatedAt,
	}
	r.ApplyDefaults()
	return nil
}
