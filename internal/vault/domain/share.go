package domain

import (
	"time"

	"github.com/google/uuid"
)

// Permission is the access level a share grant confers.
type Permission string

const (
	// PermissionRead allows reading the secret, including plaintext release.
	PermissionRead Permission = "read"

	// PermissionReadWrite additionally allows rotating the secret.
	PermissionReadWrite Permission = "read_write"
)

// Valid reports whether p is a known permission level.
func (p Permission) Valid() bool {
	return p == PermissionRead || p == PermissionReadWrite
}

// ShareGrant is an explicit, revocable, optionally time-limited authorization
// for a non-owner to access a secret.
//
// Invariant: exactly one of GranteeUserID and GranteeOrgID is set.
type ShareGrant struct {
	ShareID       uuid.UUID
	VaultID       uuid.UUID
	OwnerID       string
	GranteeUserID string
	GranteeOrgID  string
	Permission    Permission
	ExpiresAt     *time.Time
	IsActive      bool
	CreatedAt     time.Time
}

// Expired reports whether the grant has expired as of now.
func (g *ShareGrant) Expired(now time.Time) bool {
	return g.ExpiresAt != nil && !g.ExpiresAt.After(now)
}

// Matches reports whether the grant applies to the given caller identity
// and satisfies the required permission level as of now.
//
// A read_write grant satisfies a read requirement; a read grant never
// satisfies read_write. Inactive and expired grants match nothing.
func (g *ShareGrant) Matches(callerID, callerOrgID string, required Permission, now time.Time) bool {
	if !g.IsActive || g.Expired(now) {
		return false
	}

	if g.GranteeUserID != "" {
		if g.GranteeUserID != callerID {
			return false
		}
	} else if g.GranteeOrgID == "" || callerOrgID == "" || g.GranteeOrgID != callerOrgID {
		return false
	}

	if required == PermissionReadWrite {
		return g.Permission == PermissionReadWrite
	}
	return true
}
