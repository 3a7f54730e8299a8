package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntityType identifies the kind of domain entity an audit record refers to.
type EntityType string

const (
	EntityTypePeripheral EntityType = "peripheral"
	EntityTypePC         EntityType = "pc"
	EntityTypeLab        EntityType = "lab"
	EntityTypeAlert      EntityType = "alert"
	EntityTypeSetting    EntityType = "setting"
	EntityTypeToken      EntityType = "token"
)

func (e EntityType) String() string { return string(e) }

func (e EntityType) IsValid() bool {
	switch e {
	case EntityTypePeripheral, EntityTypePC, EntityTypeLab,
		EntityTypeAlert, EntityTypeSetting, EntityTypeToken:
		return true
	}
	return false
}

// AuditAction names the mutation recorded in the audit log.
type AuditAction string

const (
	AuditActionStatusUpdate     AuditAction = "status.update"
	AuditActionStatusBulkUpdate AuditAction = "status.bulk_update"
	AuditActionRemarkUpdate     AuditAction = "remark.update"
	AuditActionPeripheralCreate AuditAction = "peripheral.create"
	AuditActionDeviceRegister   AuditAction = "device.register"
	AuditActionLabCreate        AuditAction = "lab.create"
	AuditActionTokenIssue       AuditAction = "token.issue"
	AuditActionAlertAcknowledge AuditAction = "alert.acknowledge"
	AuditActionAlertDelete      AuditAction = "alert.delete"
	AuditActionAlertRestore     AuditAction = "alert.restore"
	AuditActionSettingUpdate    AuditAction = "setting.update"
)

func (a AuditAction) String() string { return string(a) }

func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionStatusUpdate, AuditActionStatusBulkUpdate, AuditActionRemarkUpdate,
		AuditActionPeripheralCreate, AuditActionDeviceRegister, AuditActionLabCreate,
		AuditActionTokenIssue, AuditActionAlertAcknowledge, AuditActionAlertDelete,
		AuditActionAlertRestore, AuditActionSettingUpdate:
		return true
	}
	return false
}

// AuditRecord is one append-only entry of the audit log.
// Details holds action-specific context (old/new values, counts) as JSONB.
type AuditRecord struct {
	ID         uuid.UUID
	Actor      string
	Action     AuditAction
	EntityType EntityType
	EntityID   *uuid.UUID
	Details    map[string]any
	CreatedAt  time.Time
}
