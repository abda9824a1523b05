// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	vaultDomain "github.com/xenoISA/isa-vault/internal/vault/domain"
)

// SecretResponse represents a secret in API responses.
// SECURITY: The Value field contains plaintext and is only included in
// decrypting GET responses. Must be transmitted over HTTPS in production.
type SecretResponse struct {
	VaultID              string         `json:"vault_id"`
	OwnerID              string         `json:"owner_id"`
	OrganizationID       string         `json:"organization_id,omitempty"`
	SecretType           string         `json:"secret_type"`
	Provider             string         `json:"provider,omitempty"`
	Name                 string         `json:"name"`
	Description          string         `json:"description,omitempty"`
	Value                []byte         `json:"value,omitempty"` // Only included in decrypting GET responses
	Version              uint           `json:"version"`
	Tags                 []string       `json:"tags,omitempty"`
	Metadata             map[string]any `json:"metadata,omitempty"`
	IsActive             bool           `json:"is_active"`
	ExpiresAt            *time.Time     `json:"expires_at,omitempty"`
	RotationEnabled      bool           `json:"rotation_enabled"`
	RotationIntervalDays int            `json:"rotation_interval_days,omitempty"`
	AccessCount          uint           `json:"access_count"`
	LastAccessedAt       *time.Time     `json:"last_accessed_at,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// MapSecretToResponse converts a domain secret to a metadata-only API response.
// The plaintext value is always excluded.
func MapSecretToResponse(secret *vaultDomain.SecretRecord) SecretResponse {
	return SecretResponse{
		VaultID:              secret.VaultID.String(),
		OwnerID:              secret.OwnerID,
		OrganizationID:       secret.OrganizationID,
		SecretType:           string(secret.SecretType),
		Provider:             secret.Provider,
		Name:                 secret.Name,
		Description:          secret.Description,
		Version:              secret.Version,
		Tags:                 secret.Tags,
		Metadata:             secret.Metadata,
		IsActive:             secret.IsActive,
		ExpiresAt:            secret.ExpiresAt,
		RotationEnabled:      secret.RotationEnabled,
		RotationIntervalDays: secret.RotationIntervalDays,
		AccessCount:          secret.AccessCount,
		LastAccessedAt:       secret.LastAccessedAt,
		CreatedAt:            secret.CreatedAt,
		UpdatedAt:            secret.UpdatedAt,
	}
}

// MapSecretToGetResponse converts a domain secret to an API response that
// includes the plaintext value. SECURITY: Caller must zero plaintext from the
// domain object after mapping using cryptoDomain.Zero(secret.Plaintext).
func MapSecretToGetResponse(secret *vaultDomain.SecretRecord) SecretResponse {
	response := MapSecretToResponse(secret)
	response.Value = secret.Plaintext
	return response
}

// ListSecretsResponse represents a paginated list of secrets in API responses.
type ListSecretsResponse struct {
	Data []SecretResponse `json:"data"`
}

// MapSecretsToListResponse converts a slice of domain secrets to a list response.
func MapSecretsToListResponse(secrets []*vaultDomain.SecretRecord) ListSecretsResponse {
	data := make([]SecretResponse, 0, len(secrets))
	for _, secret := range secrets {
		data = append(data, MapSecretToResponse(secret))
	}

	return ListSecretsResponse{
		Data: data,
	}
}

// ShareResponse represents a share grant in API responses.
type ShareResponse struct {
	ShareID       string     `json:"share_id"`
	VaultID       string     `json:"vault_id"`
	OwnerID       string     `json:"owner_id"`
	GranteeUserID string     `json:"grantee_user_id,omitempty"`
	GranteeOrgID  string     `json:"grantee_org_id,omitempty"`
	Permission    string     `json:"permission"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	IsActive      bool       `json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
}

// MapShareToResponse converts a domain share grant to an API response.
func MapShareToResponse(grant *vaultDomain.ShareGrant) ShareResponse {
	return ShareResponse{
		ShareID:       grant.ShareID.String(),
		VaultID:       grant.VaultID.String(),
		OwnerID:       grant.OwnerID,
		GranteeUserID: grant.GranteeUserID,
		GranteeOrgID:  grant.GranteeOrgID,
		Permission:    string(grant.Permission),
		ExpiresAt:     grant.ExpiresAt,
		IsActive:      grant.IsActive,
		CreatedAt:     grant.CreatedAt,
	}
}

// ListSharesResponse represents a paginated list of share grants in API responses.
type ListSharesResponse struct {
	Data []ShareResponse `json:"data"`
}

// MapSharesToListResponse converts a slice of domain share grants to a list response.
func MapSharesToListResponse(grants []*vaultDomain.ShareGrant) ListSharesResponse {
	data := make([]ShareResponse, 0, len(grants))
	for _, grant := range grants {
		data = append(data, MapShareToResponse(grant))
	}

	return ListSharesResponse{
		Data: data,
	}
}

// AuditEntryResponse represents an audit log entry in API responses.
type AuditEntryResponse struct {
	LogID       string         `json:"log_id"`
	VaultID     string         `json:"vault_id"`
	ActorID     string         `json:"actor_id"`
	Action      string         `json:"action"`
	Success     bool           `json:"success"`
	ErrorReason string         `json:"error_reason,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ListAuditEntriesResponse represents a paginated audit trail in API responses.
type ListAuditEntriesResponse struct {
	Data []AuditEntryResponse `json:"data"`
}

// MapAuditEntriesToListResponse converts a slice of domain audit entries to a list response.
func MapAuditEntriesToListResponse(entries []*vaultDomain.AuditEntry) ListAuditEntriesResponse {
	data := make([]AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		data = append(data, AuditEntryResponse{
			LogID:       entry.LogID.String(),
			VaultID:     entry.VaultID.String(),
			ActorID:     entry.ActorID,
			Action:      string(entry.Action),
			Success:     entry.Success,
			ErrorReason: entry.ErrorReason,
			Metadata:    entry.Metadata,
			CreatedAt:   entry.CreatedAt,
		})
	}

	return ListAuditEntriesResponse{
		Data: data,
	}
}
