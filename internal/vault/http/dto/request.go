// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	customValidation "github.com/xenoISA/isa-vault/internal/validation"
	vaultDomain "github.com/xenoISA/isa-vault/internal/vault/domain"
)

// CreateSecretRequest contains the parameters for creating a new secret.
// The value is base64-encoded so arbitrary binary credentials survive JSON transport.
type CreateSecretRequest struct {
	OrganizationID       string         `json:"organization_id"`
	SecretType           string         `json:"secret_type"`
	Provider             string         `json:"provider"`
	Name                 string         `json:"name"`
	Description          string         `json:"description"`
	Value                string         `json:"value"`
	Tags                 []string       `json:"tags"`
	Metadata             map[string]any `json:"metadata"`
	ExpiresAt            *time.Time     `json:"expires_at"`
	RotationEnabled      bool           `json:"rotation_enabled"`
	RotationIntervalDays int            `json:"rotation_interval_days"`
}

// Validate checks if the create secret request is valid.
func (r *CreateSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SecretType,
			validation.Required,
			validation.By(validSecretType),
		),
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Provider,
			validation.Length(0, 255),
		),
		validation.Field(&r.Value,
			validation.Required,
			customValidation.Base64,
		),
		validation.Field(&r.Tags,
			validation.Each(customValidation.Tag),
		),
		validation.Field(&r.RotationIntervalDays,
			validation.Min(0),
		),
	)
}

// UpdateSecretRequest contains the optional metadata fields of a secret update.
// Absent fields leave the stored values unchanged; cryptographic material and
// the version are never updatable through this request.
type UpdateSecretRequest struct {
	Name                 *string         `json:"name"`
	Description          *string         `json:"description"`
	Tags                 *[]string       `json:"tags"`
	Metadata             *map[string]any `json:"metadata"`
	ExpiresAt            *time.Time      `json:"expires_at"`
	RotationEnabled      *bool           `json:"rotation_enabled"`
	RotationIntervalDays *int            `json:"rotation_interval_days"`
}

// Validate checks if the update secret request is valid.
func (r *UpdateSecretRequest) Validate() error {
	fields := []*validation.FieldRules{}

	if r.Name != nil {
		fields = append(fields, validation.Field(&r.Name,
			customValidation.NotBlank,
			validation.Length(1, 255),
		))
	}
	if r.RotationIntervalDays != nil {
		fields = append(fields, validation.Field(&r.RotationIntervalDays,
			validation.Min(0),
		))
	}

	if err := validation.ValidateStruct(r, fields...); err != nil {
		return err
	}

	// Each does not indirect through pointer slices; validate the slice itself.
	if r.Tags != nil {
		if err := validation.Validate(*r.Tags, validation.Each(customValidation.Tag)); err != nil {
			return validation.Errors{"tags": err}
		}
	}

	return nil
}

// RotateSecretRequest contains the replacement value for a secret rotation.
type RotateSecretRequest struct {
	Value string `json:"value"`
}

// Validate checks if the rotate secret request is valid.
func (r *RotateSecretRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Value,
			validation.Required,
			customValidation.Base64,
		),
	)
}

// CreateShareRequest contains the parameters for sharing a secret.
// Exactly one of grantee_user_id and grantee_org_id must be set; the use case
// enforces the exclusivity.
type CreateShareRequest struct {
	GranteeUserID string     `json:"grantee_user_id"`
	GranteeOrgID  string     `json:"grantee_org_id"`
	Permission    string     `json:"permission"`
	ExpiresAt     *time.Time `json:"expires_at"`
}

// Validate checks if the create share request is valid.
func (r *CreateShareRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.GranteeUserID,
			customValidation.NoWhitespace,
		),
		validation.Field(&r.GranteeOrgID,
			customValidation.NoWhitespace,
		),
		validation.Field(&r.Permission,
			validation.Required,
			validation.By(validPermission),
		),
	)
}

// validSecretType validates a secret type against the known domain types.
func validSecretType(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_secret_type", "must be a string")
	}
	if !vaultDomain.SecretType(s).Valid() {
		return validation.NewError("validation_secret_type", "must be a known secret type")
	}
	return nil
}

// validPermission validates a permission against the known domain levels.
func validPermission(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_permission", "must be a string")
	}
	if !vaultDomain.Permission(s).Valid() {
		return validation.NewError("validation_permission", "must be read or read_write")
	}
	return nil
}
