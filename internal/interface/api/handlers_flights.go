package api

import (
	"net/http"
	"strconv"
	"strings"

	"flightdesk-service/internal/usecase"
	"flightdesk-service/pkg/utils"

	"github.com/go-chi/chi/v5"
)

func codeParam(r *http.Request) string {
	return strings.ToUpper(chi.URLParam(r, "code"))
}

func (s *Server) handleListFlights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, serializeFlights(s.flights.List()))
}

func (s *Server) handleGetFlight(w http.ResponseWriter, r *http.Request) {
	rec, err := s.flights.Get(codeParam(r))
	if err != nil {
		s.fail(w, r, "Get flight", err)
		return
	}
	writeJSON(w, http.StatusOK, serializeFlight(rec))
}

func (s *Server) handleCreateFlight(w http.ResponseWriter, r *http.Request) {
	var in usecase.CreateFlightInput
	if err := decodeBody(r, &in); err != nil {
		s.fail(w, r, "Create flight", err)
		return
	}
	rec, err := s.flights.Create(r.Context(), actorFrom(r), in)
	if err != nil {
		s.fail(w, r, "Create flight", err)
		return
	}
	writeJSON(w, http.StatusOK, serializeFlight(rec))
}

func (s *Server) handleUpdateFlight(w http.ResponseWriter, r *http.Request) {
	code := codeParam(r)
	patch := make(map[string]interface{})
	if err := decodeBody(r, &patch); err != nil {
		s.fail(w, r, "Update flight "+code, err)
		return
	}
	rec, err := s.flights.Update(r.Context(), actorFrom(r), code, patch)
	if err != nil {
		s.fail(w, r, "Update flight "+code, err)
		return
	}
	writeJSON(w, http.StatusOK, serializeFlight(rec))
}

func (s *Server) handleDeleteFlight(w http.ResponseWriter, r *http.Request) {
	code := codeParam(r)
	if _, err := s.flights.Delete(r.Context(), actorFrom(r), code); err != nil {
		s.fail(w, r, "Delete flight "+code, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": code})
}

type remindRequest struct {
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleRemind(w http.ResponseWriter, r *http.Request) {
	code := codeParam(r)
	var req remindRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, "Send reminder for "+code, err)
		return
	}
	if _, err := s.flights.SendReminder(r.Context(), actorFrom(r), code, req.Timestamp); err != nil {
		s.fail(w, r, "Send reminder for "+code, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sent":      true,
		"code":      code,
		"timestamp": strings.TrimSpace(req.Timestamp),
	})
}

type startRequest struct {
	ServerLink    string `json:"server_link"`
	SpawnLocation string `json:"spawn_location"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	code := codeParam(r)
	var req startRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, "Start flight "+code, err)
		return
	}
	rec, err := s.flights.StartFlight(r.Context(), actorFrom(r), code, req.ServerLink, req.SpawnLocation)
	if err != nil {
		s.fail(w, r, "Start flight "+code, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"started":     true,
		"code":        code,
		"server_link": rec.Server.Link,
	})
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	code := codeParam(r)
	if _, err := s.flights.CloseFlight(r.Context(), actorFrom(r), code); err != nil {
		s.fail(w, r, "Close flight "+code, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"closed": code})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	code := codeParam(r)
	if _, err := s.flights.Refresh(r.Context(), actorFrom(r), code); err != nil {
		s.fail(w, r, "Refresh flight "+code, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"refreshed": code})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.flights.Stats())
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	limit := utils.DefaultLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusUnprocessableEntity, "Invalid limit")
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, s.logs.ParseFile(s.cfg.LogFile, limit))
}

type announceRequest struct {
	Message string `json:"message"`
}

func (s *Server) handleAnnounce(w http.ResponseWriter, r *http.Request) {
	var req announceRequest
	if err := decodeBody(r, &req); err != nil {
		s.fail(w, r, "Send announcement", err)
		return
	}
	if err := s.flights.Announce(r.Context(), actorFrom(r), req.Message); err != nil {
		s.fail(w, r, "Send announcement", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"sent": true})
}
