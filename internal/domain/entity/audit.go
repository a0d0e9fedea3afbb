package entity

import (
	"encoding/json"
	"time"
)

// Acciones auditadas.
const (
	AuditInsert = "INSERT"
	AuditUpdate = "UPDATE"
	AuditDelete = "DELETE"
)

// AuditEntry registro de auditoría de una operación administrativa o de cadastro.
type AuditEntry struct {
	ID        string
	UserID    string
	CompanyID *string
	Table     string
	Action    string
	RecordID  string
	Before    json.RawMessage
	After     json.RawMessage
	CreatedAt time.Time
}
