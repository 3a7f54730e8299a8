package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
	"github.com/heartmarshall/labwatch-backend/internal/service/audit"
	"github.com/heartmarshall/labwatch-backend/internal/service/inventory"
	"github.com/heartmarshall/labwatch-backend/internal/service/settings"
	"github.com/heartmarshall/labwatch-backend/internal/transport/middleware"
)

type settingsService interface {
	Get(ctx context.Context, key string) (domain.Setting, error)
	List(ctx context.Context) ([]domain.Setting, error)
	Update(ctx context.Context, input settings.UpdateInput) (domain.Setting, error)
}

type auditService interface {
	List(ctx context.Context, input audit.ListInput) ([]domain.AuditRecord, int, error)
}

type adminInventoryService interface {
	IssueRegistrationToken(ctx context.Context, input inventory.IssueTokenInput) (*inventory.IssuedToken, error)
	ExportWorkbook(ctx context.Context) (*excelize.File, error)
}

// AdminHandler serves the admin-only endpoints. Every method checks the
// admin role itself; the routes are regular routes otherwise.
type AdminHandler struct {
	settings  settingsService
	audit     auditService
	inventory adminInventoryService
	log       *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(settings settingsService, audit auditService, inventory adminInventoryService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		settings:  settings,
		audit:     audit,
		inventory: inventory,
		log:       logger.With("handler", "admin"),
	}
}

type settingResponse struct {
	Key       string     `json:"key"`
	Value     string     `json:"value"`
	UpdatedBy string     `json:"updated_by,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// toSettingResponse leaves the update stamp off for built-in defaults,
// which carry a zero time.
func toSettingResponse(s domain.Setting) settingResponse {
	resp := settingResponse{
		Key:       s.Key,
		Value:     s.Value,
		UpdatedBy: s.UpdatedBy,
	}
	if !s.UpdatedAt.IsZero() {
		resp.UpdatedAt = &s.UpdatedAt
	}
	return resp
}

type updateSettingRequest struct {
	Value string `json:"value"`
}

type auditRecordResponse struct {
	ID         string         `json:"id"`
	Actor      string         `json:"actor"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   *string        `json:"entity_id,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

func toAuditRecordResponse(rec domain.AuditRecord) auditRecordResponse {
	resp := auditRecordResponse{
		ID:         rec.ID.String(),
		Actor:      rec.Actor,
		Action:     string(rec.Action),
		EntityType: string(rec.EntityType),
		Details:    rec.Details,
		CreatedAt:  rec.CreatedAt,
	}
	if rec.EntityID != nil {
		s := rec.EntityID.String()
		resp.EntityID = &s
	}
	return resp
}

type issueTokenRequest struct {
	Note     *string `json:"note,omitempty"`
	TTLHours int     `json:"ttl_hours,omitempty"`
}

type issuedTokenResponse struct {
	// Token is the raw secret, shown exactly once.
	Token     string    `json:"token"`
	ID        string    `json:"id"`
	Note      *string   `json:"note,omitempty"`
	CreatedBy string    `json:"created_by"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ---------------------------------------------------------------------------
// Settings
// ---------------------------------------------------------------------------

// GetSetting handles GET /api/v1/admin/settings/{key}.
func (h *AdminHandler) GetSetting(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	s, err := h.settings.Get(r.Context(), r.PathValue("key"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toSettingResponse(s))
}

// ListSettings handles GET /api/v1/admin/settings.
func (h *AdminHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	items, err := h.settings.List(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]settingResponse, 0, len(items))
	for _, s := range items {
		out = append(out, toSettingResponse(s))
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

// UpdateSetting handles PUT /api/v1/admin/settings/{key}.
func (h *AdminHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	var req updateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := h.settings.Update(r.Context(), settings.UpdateInput{
		Key:   r.PathValue("key"),
		Value: req.Value,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toSettingResponse(s))
}

// ---------------------------------------------------------------------------
// Audit log
// ---------------------------------------------------------------------------

// ListAudit handles GET /api/v1/admin/audit.
func (h *AdminHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	entityID, err := queryUUID(r, "entity_id")
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	input := audit.ListInput{
		Actor:    queryString(r, "actor"),
		EntityID: entityID,
		Limit:    queryInt(r, "limit"),
		Offset:   queryInt(r, "offset"),
	}
	if a := queryString(r, "action"); a != nil {
		action := domain.AuditAction(*a)
		input.Action = &action
	}
	if et := queryString(r, "entity_type"); et != nil {
		entityType := domain.EntityType(*et)
		input.EntityType = &entityType
	}

	records, total, err := h.audit.List(r.Context(), input)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	items := make([]auditRecordResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, toAuditRecordResponse(rec))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": total,
	})
}

// ---------------------------------------------------------------------------
// Registration tokens
// ---------------------------------------------------------------------------

// IssueToken handles POST /api/v1/admin/tokens. The response carries the
// raw token; it cannot be retrieved again.
func (h *AdminHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	var req issueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	issued, err := h.inventory.IssueRegistrationToken(r.Context(), inventory.IssueTokenInput{
		Note: req.Note,
		TTL:  time.Duration(req.TTLHours) * time.Hour,
	})
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, issuedTokenResponse{
		Token:     issued.Raw,
		ID:        issued.Token.ID.String(),
		Note:      issued.Token.Note,
		CreatedBy: issued.Token.CreatedBy,
		ExpiresAt: issued.Token.ExpiresAt,
		CreatedAt: issued.Token.CreatedAt,
	})
}

// ---------------------------------------------------------------------------
// Export
// ---------------------------------------------------------------------------

// Export handles GET /api/v1/admin/export and streams the inventory
// workbook as an xlsx download.
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	f, err := h.inventory.ExportWorkbook(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	defer f.Close() //nolint:errcheck

	filename := fmt.Sprintf("labwatch-inventory-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := f.Write(w); err != nil {
		// Headers are out by now; all we can do is log.
		h.log.ErrorContext(r.Context(), "write workbook", slog.String("error", err.Error()))
	}
}

func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if err := middleware.RequireAdmin(r.Context()); err != nil {
		handleError(w, r, h.log, err)
		return false
	}
	return true
}
