package domain

// Caller is the authenticated identity attached to each request. The core
// trusts it as-is; authentication happens upstream of this subsystem.
type Caller struct {
	// ID is the opaque user identifier.
	ID string
	// OrganizationID optionally identifies the caller's organization.
	OrganizationID string
}

// Valid reports whether the caller carries a user identity.
func (c Caller) Valid() bool {
	return c.ID != ""
}
