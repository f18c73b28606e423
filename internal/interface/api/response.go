package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"flightdesk-service/internal/domain/apperror"
	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/pkg/utils"
)

// flightJSON is a flight as the dashboard sees it
type flightJSON struct {
	Code         string `json:"code"`
	FlightNumber string `json:"flight_number"`
	DepCity      string `json:"dep_city"`
	ArrCity      string `json:"arr_city"`
	DepCode      string `json:"dep_code"`
	ArrCode      string `json:"arr_code"`
	DepAirport   string `json:"dep_airport"`
	ArrAirport   string `json:"arr_airport"`
	DepTime      string `json:"dep_time"`
	ArrTime      string `json:"arr_time"`
	DepDate      string `json:"dep_date"`
	DepDateRaw   string `json:"dep_date_raw"`
	Duration     string `json:"duration"`
	Terminal     string `json:"terminal"`
	Aircraft     string `json:"aircraft"`
	MealService  string `json:"meal_service"`
	Status       string `json:"status"`
	GateDep      string `json:"gate_dep"`
	GateArr      string `json:"gate_arr"`
	Alerts       string `json:"alerts"`
	ServerLink   string `json:"server_link"`
	EventLink    string `json:"event_link"`
	HostUserID   string `json:"host_user_id"`
	CreatedAt    string `json:"created_at"`
}

func serializeFlight(rec *entity.FlightRecord) flightJSON {
	return flightJSON{
		Code:         rec.Code,
		FlightNumber: rec.FlightNumber,
		DepCity:      rec.Departure.City,
		ArrCity:      rec.Arrival.City,
		DepCode:      rec.Departure.Code,
		ArrCode:      rec.Arrival.Code,
		DepAirport:   rec.Departure.Airport,
		ArrAirport:   rec.Arrival.Airport,
		DepTime:      rec.Departure.Time,
		ArrTime:      rec.Arrival.Time,
		DepDate:      utils.StoredDateToAPI(rec.Departure.Date),
		DepDateRaw:   rec.Departure.Date,
		Duration:     rec.Duration,
		Terminal:     rec.Departure.Terminal,
		Aircraft:     rec.Aircraft,
		MealService:  string(rec.MealService),
		Status:       string(rec.Status),
		GateDep:      rec.Gate.Dep,
		GateArr:      rec.Gate.Arr,
		Alerts:       rec.Alerts,
		ServerLink:   rec.Server.Link,
		EventLink:    rec.Event.Link,
		HostUserID:   rec.HostUserID,
		CreatedAt:    rec.CreatedAt,
	}
}

func serializeFlights(recs []*entity.FlightRecord) []flightJSON {
	out := make([]flightJSON, 0, len(recs))
	for _, rec := range recs {
		out = append(out, serializeFlight(rec))
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// fail maps a usecase error to its status code. Internal errors are reported
// and only the reference code is returned.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, action string, err error) {
	kind := apperror.KindOf(err)
	if kind == apperror.KindInternal {
		ref := s.reporter.Report(r.Context(), actorFrom(r), action, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"detail":    "Internal error",
			"reference": ref,
		})
		return
	}
	writeError(w, kind.HTTPStatus(), apperror.PublicMessage(err))
}

// decodeBody reads an optional JSON object body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return apperror.Validation("Invalid JSON body")
	}
	return nil
}
