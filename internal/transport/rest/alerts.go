package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
	"github.com/heartmarshall/labwatch-backend/internal/service/alerts"
)

const (
	streamPollInterval      = 2 * time.Second
	streamHeartbeatInterval = 30 * time.Second
)

// alertsService defines the minimal interface needed by AlertsHandler.
type alertsService interface {
	List(ctx context.Context, input alerts.ListInput) ([]domain.Alert, int, error)
	ListSince(ctx context.Context, after time.Time) ([]domain.Alert, error)
	Acknowledge(ctx context.Context, id uuid.UUID) (domain.Alert, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) (domain.Alert, error)
}

// AlertsHandler serves the alert endpoints, including the SSE stream.
type AlertsHandler struct {
	svc alertsService
	log *slog.Logger

	pollInterval      time.Duration
	heartbeatInterval time.Duration
}

// NewAlertsHandler creates an AlertsHandler.
func NewAlertsHandler(svc alertsService, logger *slog.Logger) *AlertsHandler {
	return &AlertsHandler{
		svc:               svc,
		log:               logger.With("handler", "alerts"),
		pollInterval:      streamPollInterval,
		heartbeatInterval: streamHeartbeatInterval,
	}
}

// SetStreamPollInterval overrides how often the stream polls for new
// alerts. Zero and negative values keep the default.
func (h *AlertsHandler) SetStreamPollInterval(d time.Duration) {
	if d > 0 {
		h.pollInterval = d
	}
}

// List handles GET /api/v1/alerts.
func (h *AlertsHandler) List(w http.ResponseWriter, r *http.Request) {
	peripheralID, err := queryUUID(r, "peripheral_id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	input := alerts.ListInput{
		UnacknowledgedOnly: queryBool(r, "unacknowledged_only"),
		IncludeDeleted:     queryBool(r, "include_deleted"),
		PeripheralID:       peripheralID,
		Limit:              queryInt(r, "limit"),
		Offset:             queryInt(r, "offset"),
	}
	if k := queryString(r, "kind"); k != nil {
		kind := domain.PeripheralStatus(*k)
		input.Kind = &kind
	}

	items, total, err := h.svc.List(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": toAlertResponses(items),
		"total": total,
	})
}

// Acknowledge handles POST /api/v1/alerts/{id}/ack.
func (h *AlertsHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	a, err := h.svc.Acknowledge(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toAlertResponse(a))
}

// Delete handles DELETE /api/v1/alerts/{id}.
func (h *AlertsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Restore handles POST /api/v1/alerts/{id}/restore.
func (h *AlertsHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	a, err := h.svc.Restore(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toAlertResponse(a))
}

// Stream handles GET /api/v1/alerts/stream as server-sent events.
// It polls for alerts created after the connection opened and pushes
// each one as a data frame. Comment lines keep idle connections alive.
// The loop ends when the client goes away.
func (h *AlertsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	// The server-wide write deadline would cut a long-lived stream short.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	since := time.Now().UTC()

	poll := time.NewTicker(h.pollInterval)
	defer poll.Stop()
	heartbeat := time.NewTicker(h.heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()

		case <-poll.C:
			items, err := h.svc.ListSince(ctx, since)
			if err != nil {
				// Transient failures should not tear the stream down.
				h.log.ErrorContext(ctx, "alert stream poll failed", slog.String("error", err.Error()))
				continue
			}
			if len(items) == 0 {
				continue
			}

			for _, a := range items {
				if a.CreatedAt.After(since) {
					since = a.CreatedAt
				}
				payload, err := json.Marshal(toAlertResponse(a))
				if err != nil {
					h.log.ErrorContext(ctx, "alert stream encode failed", slog.String("error", err.Error()))
					continue
				}
				fmt.Fprintf(w, "data: %s\n\n", payload)
			}
			flusher.Flush()
		}
	}
}
