package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
	"github.com/heartmarshall/labwatch-backend/internal/service/detection"
	"github.com/heartmarshall/labwatch-backend/pkg/ctxutil"
)

// detectionService defines the minimal interface needed by EventsHandler.
type detectionService interface {
	ProcessEvent(ctx context.Context, input detection.EventInput) (*detection.EventOutcome, error)
}

// EventsHandler accepts USB events reported by the lab agents.
type EventsHandler struct {
	svc detectionService
	log *slog.Logger
}

// NewEventsHandler creates an EventsHandler.
func NewEventsHandler(svc detectionService, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{svc: svc, log: logger.With("handler", "events")}
}

type eventRequest struct {
	PCUniqueID         string    `json:"pc_unique_id"`
	PeripheralUniqueID string    `json:"peripheral_unique_id"`
	Kind               string    `json:"kind"`
	Name               *string   `json:"name,omitempty"`
	DeviceKind         *string   `json:"device_kind,omitempty"`
	ReportedAt         time.Time `json:"reported_at"`
}

type eventOutcomeResponse struct {
	PeripheralID      *string `json:"peripheral_id"`
	PeripheralCreated bool    `json:"peripheral_created"`
	TransitionApplied *string `json:"transition_applied"`
	FaultyDetected    bool    `json:"faulty_detected"`
}

// Ingest handles POST /api/v1/events. Agents authenticate with their
// bearer token; the event is fully processed before the 202 goes out,
// and the body reports what the event caused.
func (h *EventsHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	if _, ok := ctxutil.ActorFromCtx(r.Context()); !ok {
		handleError(w, r, h.log, domain.ErrUnauthorized)
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := detection.EventInput{
		PCUniqueID:         req.PCUniqueID,
		PeripheralUniqueID: req.PeripheralUniqueID,
		Kind:               domain.EventKind(req.Kind),
		Name:               req.Name,
		ReportedAt:         req.ReportedAt,
	}
	if req.DeviceKind != nil {
		kind := domain.PeripheralKind(*req.DeviceKind)
		input.DeviceKind = &kind
	}

	outcome, err := h.svc.ProcessEvent(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := eventOutcomeResponse{
		PeripheralCreated: outcome.PeripheralCreated,
		FaultyDetected:    outcome.FaultyDetected,
	}
	if outcome.PeripheralID != nil {
		s := outcome.PeripheralID.String()
		resp.PeripheralID = &s
	}
	if outcome.TransitionApplied != nil {
		s := string(*outcome.TransitionApplied)
		resp.TransitionApplied = &s
	}

	writeJSON(w, http.StatusAccepted, resp)
}
