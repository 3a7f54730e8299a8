package rest

import (
	"time"

	"github.com/heartmarshall/labwatch-backend/internal/domain"
)

// Response DTOs shared between handlers. Nullable statuses stay
// explicit nulls in JSON; optional metadata uses omitempty.

type peripheralResponse struct {
	ID              string     `json:"id"`
	PCID            string     `json:"pc_id"`
	UniqueID        string     `json:"unique_id"`
	Name            string     `json:"name"`
	Kind            string     `json:"kind"`
	Status          *string    `json:"status"`
	StatusUpdatedBy *string    `json:"status_updated_by,omitempty"`
	StatusUpdatedAt *time.Time `json:"status_updated_at,omitempty"`
	StatusReason    *string    `json:"status_reason,omitempty"`
	Remark          *string    `json:"remark,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func toPeripheralResponse(p domain.Peripheral) peripheralResponse {
	resp := peripheralResponse{
		ID:              p.ID.String(),
		PCID:            p.PCID.String(),
		UniqueID:        p.UniqueID,
		Name:            p.Name,
		Kind:            p.Kind.String(),
		StatusUpdatedBy: p.StatusUpdatedBy,
		StatusUpdatedAt: p.StatusUpdatedAt,
		StatusReason:    p.StatusReason,
		Remark:          p.Remark,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.Status != nil {
		s := string(*p.Status)
		resp.Status = &s
	}
	return resp
}

func toPeripheralResponses(peripherals []domain.Peripheral) []peripheralResponse {
	out := make([]peripheralResponse, 0, len(peripherals))
	for _, p := range peripherals {
		out = append(out, toPeripheralResponse(p))
	}
	return out
}

type historyEntryResponse struct {
	ID           string    `json:"id"`
	PeripheralID string    `json:"peripheral_id"`
	OldStatus    *string   `json:"old_status"`
	NewStatus    string    `json:"new_status"`
	Reason       *string   `json:"reason,omitempty"`
	ChangedBy    string    `json:"changed_by"`
	CreatedAt    time.Time `json:"created_at"`
}

func toHistoryEntryResponse(e domain.StatusHistoryEntry) historyEntryResponse {
	resp := historyEntryResponse{
		ID:           e.ID.String(),
		PeripheralID: e.PeripheralID.String(),
		NewStatus:    string(e.NewStatus),
		Reason:       e.Reason,
		ChangedBy:    e.ChangedBy,
		CreatedAt:    e.CreatedAt,
	}
	if e.OldStatus != nil {
		s := string(*e.OldStatus)
		resp.OldStatus = &s
	}
	return resp
}

func toHistoryEntryResponses(entries []domain.StatusHistoryEntry) []historyEntryResponse {
	out := make([]historyEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toHistoryEntryResponse(e))
	}
	return out
}

type alertResponse struct {
	ID             string     `json:"id"`
	PeripheralID   string     `json:"peripheral_id"`
	Kind           string     `json:"kind"`
	Message        string     `json:"message"`
	CreatedAt      time.Time  `json:"created_at"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	AcknowledgedBy *string    `json:"acknowledged_by,omitempty"`
	Deleted        bool       `json:"deleted"`
}

func toAlertResponse(a domain.Alert) alertResponse {
	return alertResponse{
		ID:             a.ID.String(),
		PeripheralID:   a.PeripheralID.String(),
		Kind:           string(a.Kind),
		Message:        a.Message,
		CreatedAt:      a.CreatedAt,
		AcknowledgedAt: a.AcknowledgedAt,
		AcknowledgedBy: a.AcknowledgedBy,
		Deleted:        a.Deleted,
	}
}

func toAlertResponses(alerts []domain.Alert) []alertResponse {
	out := make([]alertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, toAlertResponse(a))
	}
	return out
}

type pcResponse struct {
	ID           string     `json:"id"`
	LabID        *string    `json:"lab_id"`
	UniqueID     string     `json:"unique_id"`
	Hostname     string     `json:"hostname"`
	RegisteredAt time.Time  `json:"registered_at"`
	LastSeenAt   *time.Time `json:"last_seen_at,omitempty"`
}

func toPCResponse(pc domain.PC) pcResponse {
	resp := pcResponse{
		ID:           pc.ID.String(),
		UniqueID:     pc.UniqueID,
		Hostname:     pc.Hostname,
		RegisteredAt: pc.RegisteredAt,
		LastSeenAt:   pc.LastSeenAt,
	}
	if pc.LabID != nil {
		s := pc.LabID.String()
		resp.LabID = &s
	}
	return resp
}

func toPCResponses(pcs []domain.PC) []pcResponse {
	out := make([]pcResponse, 0, len(pcs))
	for _, pc := range pcs {
		out = append(out, toPCResponse(pc))
	}
	return out
}

type labResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Room      *string   `json:"room,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toLabResponse(l domain.Lab) labResponse {
	return labResponse{
		ID:        l.ID.String(),
		Name:      l.Name,
		Room:      l.Room,
		CreatedAt: l.CreatedAt,
	}
}

func toLabResponses(labs []domain.Lab) []labResponse {
	out := make([]labResponse, 0, len(labs))
	for _, l := range labs {
		out = append(out, toLabResponse(l))
	}
	return out
}
