package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewUser_Defaults(t *testing.T) {
	u := NewUser("  Jonas ", "  Jonas@Example.COM ")
	assert.Equal(t, "Jonas", u.Name)
	assert.Equal(t, "jonas@example.com", u.Email)
	assert.Equal(t, RoleUser, u.Role)
	assert.Equal(t, DefaultPhoto, u.Photo)
	assert.True(t, u.Active)
	assert.True(t, u.IsNew())
	assert.Nil(t, u.PasswordChangedAt)
}

func TestUser_ResetTokenPair(t *testing.T) {
	u := NewUser("a", "a@b.com")
	assert.False(t, u.HasPendingReset())

	u.SetResetToken("digest", time.Now().Add(10*time.Minute))
	assert.True(t, u.HasPendingReset())
	assert.Equal(t, "digest", u.PasswordResetTokenHash)
	assert.NotNil(t, u.PasswordResetExpiresAt)

	u.ClearResetToken()
	assert.False(t, u.HasPendingReset())
	assert.Empty(t, u.PasswordResetTokenHash)
	assert.Nil(t, u.PasswordResetExpiresAt)
}

func TestUser_PasswordChangedAfter(t *testing.T) {
	u := NewUser("a", "a@b.com")
	assert.False(t, u.PasswordChangedAfter(time.Now()), "never changed")

	changed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	u.PasswordChangedAt = &changed

	assert.True(t, u.PasswordChangedAfter(changed.Add(-time.Second)))
	assert.True(t, u.PasswordChangedAfter(changed.Add(-time.Hour)))
	assert.False(t, u.PasswordChangedAfter(changed), "same second is not after")
	assert.False(t, u.PasswordChangedAfter(changed.Add(500*time.Millisecond)), "sub-second difference is ignored")
	assert.False(t, u.PasswordChangedAfter(changed.Add(time.Minute)))
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleLeadGuide.Valid())
	assert.False(t, Role("root").Valid())
}

func TestUser_JSONHidesSecrets(t *testing.T) {
	u := NewUser("Jonas", "jonas@example.com")
	u.ID = "42"
	u.PasswordHash = "$2a$12$hash"
	u.SetResetToken("digest", time.Now())

	b, err := json.Marshal(u)
	assert.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, `"email":"jonas@example.com"`)
	assert.NotContains(t, out, "hash")
	assert.NotContains(t, out, "digest")
	assert.NotContains(t, out, "active")
}
