package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
	"github.com/heartmarshall/labwatch-backend/internal/service/ledger"
)

// ledgerService defines the minimal interface needed by LedgerHandler.
type ledgerService interface {
	ApplyTransition(ctx context.Context, input ledger.TransitionInput) (*ledger.StatusChange, error)
	BulkApplyTransition(ctx context.Context, input ledger.BulkTransitionInput) (*ledger.BulkResult, error)
	GetHistory(ctx context.Context, input ledger.HistoryInput) ([]domain.StatusHistoryEntry, int, error)
}

// LedgerHandler serves the status transition endpoints.
type LedgerHandler struct {
	svc ledgerService
	log *slog.Logger
}

// NewLedgerHandler creates a LedgerHandler.
func NewLedgerHandler(svc ledgerService, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{svc: svc, log: logger.With("handler", "ledger")}
}

type transitionRequest struct {
	Target string  `json:"target"`
	Reason *string `json:"reason,omitempty"`
}

type bulkTransitionRequest struct {
	PeripheralIDs []string `json:"peripheral_ids"`
	Target        string   `json:"target"`
	Reason        *string  `json:"reason,omitempty"`
}

type statusChangeResponse struct {
	Peripheral  peripheralResponse   `json:"peripheral"`
	Entry       historyEntryResponse `json:"entry"`
	AlertRaised bool                 `json:"alert_raised"`
}

func toStatusChangeResponse(c ledger.StatusChange) statusChangeResponse {
	return statusChangeResponse{
		Peripheral:  toPeripheralResponse(c.Peripheral),
		Entry:       toHistoryEntryResponse(c.Entry),
		AlertRaised: c.AlertRaised,
	}
}

type bulkFailureResponse struct {
	PeripheralID string `json:"peripheral_id"`
	Error        string `json:"error"`
}

type bulkResultResponse struct {
	Total        int                    `json:"total"`
	SuccessCount int                    `json:"success_count"`
	FailureCount int                    `json:"failure_count"`
	Succeeded    []statusChangeResponse `json:"succeeded"`
	Failed       []bulkFailureResponse  `json:"failed"`
}

// ApplyStatus handles POST /api/v1/peripherals/{id}/status.
func (h *LedgerHandler) ApplyStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	change, err := h.svc.ApplyTransition(r.Context(), ledger.TransitionInput{
		PeripheralID: id,
		Target:       domain.PeripheralStatus(req.Target),
		Reason:       req.Reason,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toStatusChangeResponse(*change))
}

// BulkApplyStatus handles POST /api/v1/peripherals/status.
// Items succeed and fail independently; the response reports both sides.
func (h *LedgerHandler) BulkApplyStatus(w http.ResponseWriter, r *http.Request) {
	var req bulkTransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ids := make([]uuid.UUID, 0, len(req.PeripheralIDs))
	for _, raw := range req.PeripheralIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			handleError(w, r, h.log, domain.NewValidationError("peripheral_ids", "must be valid UUIDs"))
			return
		}
		ids = append(ids, id)
	}

	result, err := h.svc.BulkApplyTransition(r.Context(), ledger.BulkTransitionInput{
		PeripheralIDs: ids,
		Target:        domain.PeripheralStatus(req.Target),
		Reason:        req.Reason,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := bulkResultResponse{
		Total:        result.Total,
		SuccessCount: result.SuccessCount,
		FailureCount: result.FailureCount,
		Succeeded:    make([]statusChangeResponse, 0, len(result.Succeeded)),
		Failed:       make([]bulkFailureResponse, 0, len(result.Failed)),
	}
	for _, c := range result.Succeeded {
		resp.Succeeded = append(resp.Succeeded, toStatusChangeResponse(c))
	}
	for _, f := range result.Failed {
		resp.Failed = append(resp.Failed, bulkFailureResponse{
			PeripheralID: f.PeripheralID.String(),
			Error:        f.Error,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

// History handles GET /api/v1/peripherals/{id}/history.
func (h *LedgerHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	entries, total, err := h.svc.GetHistory(r.Context(), ledger.HistoryInput{
		PeripheralID: id,
		Limit:        queryInt(r, "limit"),
		Offset:       queryInt(r, "offset"),
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": toHistoryEntryResponses(entries),
		"total": total,
	})
}
