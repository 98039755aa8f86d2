package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/space-weather-monitor/internal/domain"
)

const maxRequestBody = 4 << 10

type statusResponse struct {
	Status      domain.CycleStatus                `json:"status"`
	StatusText  string                            `json:"status_text"`
	Timezone    string                            `json:"timezone"`
	UpdatedAt   time.Time                         `json:"updated_at"`
	UpdatedTime string                            `json:"updated_time"`
	UpdatedDate string                            `json:"updated_date"`
	Feeds       map[domain.Feed]domain.FeedStatus `json:"feeds"`
	Clients     int                               `json:"stream_clients"`
}

type timezoneRequest struct {
	Timezone string `json:"timezone"`
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.svc.Snapshot())
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	snap := s.svc.Snapshot()
	sharedobs.WriteJSON(w, http.StatusOK, statusResponse{
		Status:      snap.Status,
		StatusText:  snap.StatusText,
		Timezone:    snap.Timezone,
		UpdatedAt:   snap.UpdatedAt,
		UpdatedTime: snap.UpdatedTime,
		UpdatedDate: snap.UpdatedDate,
		Feeds:       snap.Feeds,
		Clients:     s.hub.Clients(),
	})
}

func (s *Server) handleGetTimezone(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, timezoneRequest{Timezone: s.svc.Snapshot().Timezone})
}

// handleSetTimezone switches the display zone. The response is the snapshot
// re-rendered in the new zone.
func (s *Server) handleSetTimezone(w http.ResponseWriter, r *http.Request) {
	var req timezoneRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap, err := s.svc.SetTimezone(r.Context(), req.Timezone)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTimezone) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("set timezone failed", "timezone", req.Timezone, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, snap)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
