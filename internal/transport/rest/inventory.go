package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
	"github.com/heartmarshall/labwatch-backend/internal/service/inventory"
	"github.com/heartmarshall/labwatch-backend/internal/transport/middleware"
)

// inventoryService defines the minimal interface needed by InventoryHandler.
type inventoryService interface {
	RegisterDevice(ctx context.Context, input inventory.RegisterDeviceInput) (domain.PC, error)
	ListPCs(ctx context.Context, labID *uuid.UUID) ([]domain.PC, error)
	GetPC(ctx context.Context, id uuid.UUID) (*inventory.PCDetail, error)
	ListPeripherals(ctx context.Context, input inventory.ListPeripheralsInput) ([]domain.Peripheral, int, error)
	GetPeripheral(ctx context.Context, id uuid.UUID) (*inventory.PeripheralDetail, error)
	UpdateRemark(ctx context.Context, input inventory.UpdateRemarkInput) (domain.Peripheral, error)
	CreateLab(ctx context.Context, input inventory.CreateLabInput) (domain.Lab, error)
	ListLabs(ctx context.Context) ([]domain.Lab, error)
	Summarize(ctx context.Context) (*inventory.Summary, error)
}

// InventoryHandler serves the PC, peripheral and lab read/write endpoints.
type InventoryHandler struct {
	svc inventoryService
	log *slog.Logger
}

// NewInventoryHandler creates an InventoryHandler.
func NewInventoryHandler(svc inventoryService, logger *slog.Logger) *InventoryHandler {
	return &InventoryHandler{svc: svc, log: logger.With("handler", "inventory")}
}

type registerDeviceRequest struct {
	Token      string  `json:"token"`
	PCUniqueID string  `json:"pc_unique_id"`
	Hostname   string  `json:"hostname"`
	LabID      *string `json:"lab_id,omitempty"`
}

type updateRemarkRequest struct {
	Remark *string `json:"remark"`
}

type createLabRequest struct {
	Name string  `json:"name"`
	Room *string `json:"room,omitempty"`
}

type peripheralDetailResponse struct {
	peripheralResponse
	History []historyEntryResponse `json:"history"`
}

type pcDetailResponse struct {
	pcResponse
	Lab         *labResponse         `json:"lab,omitempty"`
	Peripherals []peripheralResponse `json:"peripherals"`
}

type summaryResponse struct {
	Total                int            `json:"total"`
	ByStatus             map[string]int `json:"by_status"`
	ByLab                map[string]int `json:"by_lab"`
	UnacknowledgedAlerts int            `json:"unacknowledged_alerts"`
}

// ---------------------------------------------------------------------------
// Devices
// ---------------------------------------------------------------------------

// RegisterDevice handles POST /api/v1/devices/register.
// The registration token in the body is the credential; no bearer
// token is required here.
func (h *InventoryHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	var req registerDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := inventory.RegisterDeviceInput{
		Token:      req.Token,
		PCUniqueID: req.PCUniqueID,
		Hostname:   req.Hostname,
	}
	if req.LabID != nil {
		id, err := uuid.Parse(*req.LabID)
		if err != nil {
			handleError(w, r, h.log, domain.NewValidationError("lab_id", "must be a valid UUID"))
			return
		}
		input.LabID = &id
	}

	pc, err := h.svc.RegisterDevice(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPCResponse(pc))
}

// ListPCs handles GET /api/v1/pcs.
func (h *InventoryHandler) ListPCs(w http.ResponseWriter, r *http.Request) {
	labID, err := queryUUID(r, "lab_id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	pcs, err := h.svc.ListPCs(r.Context(), labID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": toPCResponses(pcs)})
}

// GetPC handles GET /api/v1/pcs/{id}.
func (h *InventoryHandler) GetPC(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	detail, err := h.svc.GetPC(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := pcDetailResponse{
		pcResponse:  toPCResponse(detail.PC),
		Peripherals: toPeripheralResponses(detail.Peripherals),
	}
	if detail.Lab != nil {
		lab := toLabResponse(*detail.Lab)
		resp.Lab = &lab
	}

	writeJSON(w, http.StatusOK, resp)
}

// ---------------------------------------------------------------------------
// Peripherals
// ---------------------------------------------------------------------------

// ListPeripherals handles GET /api/v1/peripherals.
func (h *InventoryHandler) ListPeripherals(w http.ResponseWriter, r *http.Request) {
	pcID, err := queryUUID(r, "pc_id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	labID, err := queryUUID(r, "lab_id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	input := inventory.ListPeripheralsInput{
		PCID:   pcID,
		LabID:  labID,
		Search: queryString(r, "search"),
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	}
	if s := queryString(r, "status"); s != nil {
		status := domain.PeripheralStatus(*s)
		input.Status = &status
	}
	if k := queryString(r, "kind"); k != nil {
		kind := domain.PeripheralKind(*k)
		input.Kind = &kind
	}

	peripherals, total, err := h.svc.ListPeripherals(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": toPeripheralResponses(peripherals),
		"total": total,
	})
}

// GetPeripheral handles GET /api/v1/peripherals/{id}.
func (h *InventoryHandler) GetPeripheral(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	detail, err := h.svc.GetPeripheral(r.Context(), id)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, peripheralDetailResponse{
		peripheralResponse: toPeripheralResponse(detail.Peripheral),
		History:            toHistoryEntryResponses(detail.History),
	})
}

// UpdateRemark handles PATCH /api/v1/peripherals/{id}/remark.
// A null remark in the body clears the field.
func (h *InventoryHandler) UpdateRemark(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req updateRemarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.svc.UpdateRemark(r.Context(), inventory.UpdateRemarkInput{
		PeripheralID: id,
		Remark:       req.Remark,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toPeripheralResponse(p))
}

// ---------------------------------------------------------------------------
// Labs
// ---------------------------------------------------------------------------

// ListLabs handles GET /api/v1/labs.
func (h *InventoryHandler) ListLabs(w http.ResponseWriter, r *http.Request) {
	labs, err := h.svc.ListLabs(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": toLabResponses(labs)})
}

// CreateLab handles POST /api/v1/labs. Admin only.
func (h *InventoryHandler) CreateLab(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireAdmin(r.Context()); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	var req createLabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lab, err := h.svc.CreateLab(r.Context(), inventory.CreateLabInput{
		Name: req.Name,
		Room: req.Room,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toLabResponse(lab))
}

// ---------------------------------------------------------------------------
// Summary
// ---------------------------------------------------------------------------

// Summary handles GET /api/v1/summary.
func (h *InventoryHandler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Summarize(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	resp := summaryResponse{
		Total:                s.Total,
		ByStatus:             make(map[string]int, len(s.ByStatus)),
		ByLab:                make(map[string]int, len(s.ByLab)),
		UnacknowledgedAlerts: s.UnacknowledgedAlerts,
	}
	for _, c := range s.ByStatus {
		resp.ByStatus[string(c.Status)] = c.Count
	}
	for _, c := range s.ByLab {
		name := c.LabName
		if name == "" {
			name = "unassigned"
		}
		resp.ByLab[name] = c.Count
	}

	writeJSON(w, http.StatusOK, resp)
}
