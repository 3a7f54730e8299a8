package rest

import (
	"net/http"

	"github.com/heartmarshall/labwatch-backend/internal/transport/middleware"
)

// Handlers bundles everything the router serves.
type Handlers struct {
	Ledger    *LedgerHandler
	Inventory *InventoryHandler
	Alerts    *AlertsHandler
	Events    *EventsHandler
	Admin     *AdminHandler
	Health    *HealthHandler
}

// NewRouter builds the route table. The API lives under /api/v1 behind
// the given middleware chain; the probes are served bare so restarting
// dependencies never blocks a liveness check.
func NewRouter(h Handlers, chain middleware.Middleware) http.Handler {
	api := http.NewServeMux()

	// Peripherals and the status ledger.
	api.HandleFunc("GET /peripherals", h.Inventory.ListPeripherals)
	api.HandleFunc("GET /peripherals/{id}", h.Inventory.GetPeripheral)
	api.HandleFunc("PATCH /peripherals/{id}/remark", h.Inventory.UpdateRemark)
	api.HandleFunc("POST /peripherals/{id}/status", h.Ledger.ApplyStatus)
	api.HandleFunc("POST /peripherals/status", h.Ledger.BulkApplyStatus)
	api.HandleFunc("GET /peripherals/{id}/history", h.Ledger.History)

	// PCs and device registration.
	api.HandleFunc("GET /pcs", h.Inventory.ListPCs)
	api.HandleFunc("GET /pcs/{id}", h.Inventory.GetPC)
	api.HandleFunc("POST /devices/register", h.Inventory.RegisterDevice)

	// Labs.
	api.HandleFunc("GET /labs", h.Inventory.ListLabs)
	api.HandleFunc("POST /labs", h.Inventory.CreateLab)

	// Alerts.
	api.HandleFunc("GET /alerts", h.Alerts.List)
	api.HandleFunc("GET /alerts/stream", h.Alerts.Stream)
	api.HandleFunc("POST /alerts/{id}/ack", h.Alerts.Acknowledge)
	api.HandleFunc("DELETE /alerts/{id}", h.Alerts.Delete)
	api.HandleFunc("POST /alerts/{id}/restore", h.Alerts.Restore)

	// Agent event ingest.
	api.HandleFunc("POST /events", h.Events.Ingest)

	// Dashboard summary.
	api.HandleFunc("GET /summary", h.Inventory.Summary)

	// Admin.
	api.HandleFunc("GET /admin/settings", h.Admin.ListSettings)
	api.HandleFunc("GET /admin/settings/{key}", h.Admin.GetSetting)
	api.HandleFunc("PUT /admin/settings/{key}", h.Admin.UpdateSetting)
	api.HandleFunc("GET /admin/audit", h.Admin.ListAudit)
	api.HandleFunc("POST /admin/tokens", h.Admin.IssueToken)
	api.HandleFunc("GET /admin/export", h.Admin.Export)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", chain(api)))
	mux.HandleFunc("GET /healthz", h.Health.Live)
	mux.HandleFunc("GET /readyz", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	return mux
}
