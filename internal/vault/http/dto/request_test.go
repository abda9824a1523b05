package dto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validCreateSecretRequest() CreateSecretRequest {
	return CreateSecretRequest{
		SecretType: "api_key",
		Provider:   "stripe",
		Name:       "payments api key",
		Value:      base64.StdEncoding.EncodeToString([]byte("sk_live_abc123")),
		Tags:       []string{"payments", "prod"},
	}
}

func TestCreateSecretRequest_Validate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		req := validCreateSecretRequest()
		assert.NoError(t, req.Validate())
	})

	t.Run("MissingSecretType", func(t *testing.T) {
		req := validCreateSecretRequest()
		req.SecretType = ""
		assert.Error(t, req.Validate())
	})

	t.Run("UnknownSecretType", func(t *testing.T) {
		req := validCreateSecretRequest()
		req.SecretType = "password"
		assert.Error(t, req.Validate())
	})

	t.Run("BlankName", func(t *testing.T) {
		req := validCreateSecretRequest()
		req.Name = "   "
		assert.Error(t, req.Validate())
	})

	t.Run("MissingValue", func(t *testing.T) {
		req := validCreateSecretRequest()
		req.Value = ""
		assert.Error(t, req.Validate())
	})

	t.Run("ValueNotBase64", func(t *testing.T) {
		req := validCreateSecretRequest()
		req.Value = "not base64!!!"
		assert.Error(t, req.Validate())
	})

	t.Run("InvalidTag", func(t *testing.T) {
		req := validCreateSecretRequest()
		req.Tags = []string{"Prod Environment"}
		assert.Error(t, req.Validate())
	})

	t.Run("NegativeRotationInterval", func(t *testing.T) {
		req := validCreateSecretRequest()
		req.RotationIntervalDays = -1
		assert.Error(t, req.Validate())
	})
}

func TestUpdateSecretRequest_Validate(t *testing.T) {
	t.Run("EmptyRequestIsValid", func(t *testing.T) {
		req := UpdateSecretRequest{}
		assert.NoError(t, req.Validate())
	})

	t.Run("ValidPartialUpdate", func(t *testing.T) {
		name := "renamed"
		tags := []string{"staging"}
		req := UpdateSecretRequest{Name: &name, Tags: &tags}
		assert.NoError(t, req.Validate())
	})

	t.Run("ClearingTagsIsValid", func(t *testing.T) {
		tags := []string{}
		req := UpdateSecretRequest{Tags: &tags}
		assert.NoError(t, req.Validate())
	})

	t.Run("BlankName", func(t *testing.T) {
		name := "  "
		req := UpdateSecretRequest{Name: &name}
		assert.Error(t, req.Validate())
	})

	t.Run("InvalidTag", func(t *testing.T) {
		tags := []string{"UPPER"}
		req := UpdateSecretRequest{Tags: &tags}
		assert.Error(t, req.Validate())
	})
}

func TestRotateSecretRequest_Validate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		req := RotateSecretRequest{
			Value: base64.StdEncoding.EncodeToString([]byte("new-value")),
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("MissingValue", func(t *testing.T) {
		req := RotateSecretRequest{}
		assert.Error(t, req.Validate())
	})
}

func TestCreateShareRequest_Validate(t *testing.T) {
	t.Run("ValidUserGrant", func(t *testing.T) {
		req := CreateShareRequest{
			GranteeUserID: "bob",
			Permission:    "read",
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("ValidOrgGrant", func(t *testing.T) {
		req := CreateShareRequest{
			GranteeOrgID: "acme",
			Permission:   "read_write",
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("MissingPermission", func(t *testing.T) {
		req := CreateShareRequest{GranteeUserID: "bob"}
		assert.Error(t, req.Validate())
	})

	t.Run("UnknownPermission", func(t *testing.T) {
		req := CreateShareRequest{
			GranteeUserID: "bob",
			Permission:    "admin",
		}
		assert.Error(t, req.Validate())
	})

	t.Run("GranteeWithWhitespace", func(t *testing.T) {
		req := CreateShareRequest{
			GranteeUserID: " bob ",
			Permission:    "read",
		}
		assert.Error(t, req.Validate())
	})
}
