package http

import (
	"errors"
	"net/http"
	"time"

	"negocio/internal/core"
	"negocio/internal/log"
	"negocio/internal/storage"
)

type createIncidentRequest struct {
	ServiceName string `json:"service_name"`
	Description string `json:"description"`
	OpenedAt    string `json:"opened_at,omitempty"` // RFC 3339, defaults to now
}

type incidentResponse struct {
	ID          string `json:"id"`
	ServiceName string `json:"service_name"`
	Status      string `json:"status"`
	Description string `json:"description"`
	OpenedAt    string `json:"opened_at"`
	ClosedAt    string `json:"closed_at,omitempty"`
	Resolution  string `json:"resolution,omitempty"`
}

func incidentToResponse(i core.Incident) incidentResponse {
	resp := incidentResponse{
		ID:          i.ID,
		ServiceName: i.ServiceName,
		Status:      string(i.Status),
		Description: i.Description,
		OpenedAt:    i.OpenedAt.Format(time.RFC3339),
		Resolution:  i.Resolution,
	}
	if !i.ClosedAt.IsZero() {
		resp.ClosedAt = i.ClosedAt.Format(time.RFC3339)
	}
	return resp
}

func (s *Server) handleCreateIncident(w http.ResponseWriter, r *http.Request) {
	var req createIncidentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	openedAt := time.Now()
	if req.OpenedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.OpenedAt)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid opened_at timestamp")
			return
		}
		openedAt = parsed
	}

	incident := core.Incident{
		ServiceName: sanitizeInput(req.ServiceName),
		Status:      core.IncidentOpen,
		Description: sanitizeInput(req.Description),
		OpenedAt:    openedAt,
	}
	if err := incident.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.store.CreateIncident(r.Context(), incident)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Create incident failed", log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to store incident")
		return
	}

	incident.ID = id
	s.logger.InfoContext(r.Context(), "Incident opened",
		log.FieldOperation, log.OpCreate,
		log.FieldRecordID, id,
		"service", incident.ServiceName)
	writeJSON(w, http.StatusCreated, incidentToResponse(incident))
}

func (s *Server) handleOpenIncidents(w http.ResponseWriter, r *http.Request) {
	incidents, err := s.store.OpenIncidents(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "List incidents failed", log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to list incidents")
		return
	}

	out := make([]incidentResponse, 0, len(incidents))
	for _, incident := range incidents {
		out = append(out, incidentToResponse(incident))
	}
	writeJSON(w, http.StatusOK, out)
}

type closeIncidentRequest struct {
	Resolution string `json:"resolution"`
	ClosedAt   string `json:"closed_at,omitempty"` // RFC 3339, defaults to now
}

// handleCloseIncident runs the open -> closed transition through the
// domain and persists the returned copy.
func (s *Server) handleCloseIncident(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing incident id")
		return
	}

	var req closeIncidentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	closedAt := time.Now()
	if req.ClosedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.ClosedAt)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid closed_at timestamp")
			return
		}
		closedAt = parsed
	}

	incident, err := s.store.Incident(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "incident not found")
			return
		}
		s.logger.ErrorContext(r.Context(), "Load incident failed",
			log.FieldRecordID, id,
			log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to load incident")
		return
	}

	closed, err := incident.Close(closedAt, sanitizeInput(req.Resolution))
	if err != nil {
		switch {
		case errors.Is(err, core.ErrIncidentClosed):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, core.ErrCloseBeforeOpen):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		}
		return
	}

	if err := s.store.UpdateIncident(r.Context(), closed); err != nil {
		s.logger.ErrorContext(r.Context(), "Close incident failed",
			log.FieldRecordID, id,
			log.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "failed to close incident")
		return
	}

	s.logger.InfoContext(r.Context(), "Incident closed",
		log.FieldRecordID, id,
		"service", closed.ServiceName)
	writeJSON(w, http.StatusOK, incidentToResponse(closed))
}
