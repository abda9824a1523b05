package domain

import (
	"time"

	"github.com/google/uuid"
)

// Action identifies the vault operation an audit entry records.
type Action string

// Audited actions.
const (
	ActionCreate      Action = "create"
	ActionRead        Action = "read"
	ActionUpdate      Action = "update"
	ActionDelete      Action = "delete"
	ActionRotate      Action = "rotate"
	ActionShare       Action = "share"
	ActionRevokeShare Action = "revoke_share"
)

// AuditEntry records one access attempt against a secret, successful or not.
// Entries are append-only: the core never mutates or deletes them.
type AuditEntry struct {
	LogID       uuid.UUID
	VaultID     uuid.UUID
	ActorID     string
	Action      Action
	Success     bool
	ErrorReason string
	Metadata    map[string]any
	CreatedAt   time.Time
}
