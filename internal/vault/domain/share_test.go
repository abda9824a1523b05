package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestShareGrant_Matches(t *testing.T) {
	now := time.Now().UTC()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	base := func() *ShareGrant {
		return &ShareGrant{
			ShareID:       uuid.Must(uuid.NewV7()),
			VaultID:       uuid.Must(uuid.NewV7()),
			OwnerID:       "u1",
			GranteeUserID: "u2",
			Permission:    PermissionRead,
			IsActive:      true,
			CreatedAt:     now,
		}
	}

	t.Run("user grant matches grantee", func(t *testing.T) {
		g := base()
		assert.True(t, g.Matches("u2", "", PermissionRead, now))
	})

	t.Run("user grant denies other users", func(t *testing.T) {
		g := base()
		assert.False(t, g.Matches("u3", "", PermissionRead, now))
	})

	t.Run("org grant matches caller org", func(t *testing.T) {
		g := base()
		g.GranteeUserID = ""
		g.GranteeOrgID = "org-1"
		assert.True(t, g.Matches("anyone", "org-1", PermissionRead, now))
	})

	t.Run("org grant denies caller without org", func(t *testing.T) {
		g := base()
		g.GranteeUserID = ""
		g.GranteeOrgID = "org-1"
		assert.False(t, g.Matches("anyone", "", PermissionRead, now))
	})

	t.Run("read grant never satisfies read_write", func(t *testing.T) {
		g := base()
		assert.False(t, g.Matches("u2", "", PermissionReadWrite, now))
	})

	t.Run("read_write grant satisfies read", func(t *testing.T) {
		g := base()
		g.Permission = PermissionReadWrite
		assert.True(t, g.Matches("u2", "", PermissionRead, now))
		assert.True(t, g.Matches("u2", "", PermissionReadWrite, now))
	})

	t.Run("inactive grant matches nothing", func(t *testing.T) {
		g := base()
		g.IsActive = false
		assert.False(t, g.Matches("u2", "", PermissionRead, now))
	})

	t.Run("expired grant matches nothing", func(t *testing.T) {
		g := base()
		g.ExpiresAt = &past
		assert.False(t, g.Matches("u2", "", PermissionRead, now))
	})

	t.Run("unexpired grant matches", func(t *testing.T) {
		g := base()
		g.ExpiresAt = &future
		assert.True(t, g.Matches("u2", "", PermissionRead, now))
	})
}

func TestPermission_Valid(t *testing.T) {
	assert.True(t, PermissionRead.Valid())
	assert.True(t, PermissionReadWrite.Valid())
	assert.False(t, Permission("admin").Valid())
	assert.False(t, Permission("").Valid())
}
