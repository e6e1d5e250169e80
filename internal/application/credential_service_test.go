package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/natours-auth/internal/domain/entity"
	repo "github.com/oksasatya/natours-auth/internal/domain/repository"
	"github.com/oksasatya/natours-auth/internal/infrastructure/memory"
	"github.com/oksasatya/natours-auth/pkg/helpers"
)

func newCreds(r repo.UserRepository) *CredentialService {
	return NewCredentialService(r, helpers.NewPasswordHasher(bcrypt.MinCost, 2), 0, DefaultChangeSkew)
}

func TestHashAndVerify(t *testing.T) {
	ctx := context.Background()
	s := newCreds(memory.NewUserRepository())

	hash, err := s.HashPassword(ctx, "pass1234")
	require.NoError(t, err)
	assert.NotEqual(t, "pass1234", hash)
	assert.True(t, s.VerifyPassword(ctx, "pass1234", hash))
	assert.False(t, s.VerifyPassword(ctx, "pass12345", hash))
	assert.False(t, s.VerifyPassword(ctx, "pass1234", ""))
}

func TestSetPassword_NewUserIsNotStamped(t *testing.T) {
	s := newCreds(memory.NewUserRepository())
	u := entity.NewUser("New", "new@example.com")

	require.NoError(t, s.SetPassword(context.Background(), u, "pass1234"))
	assert.Nil(t, u.PasswordChangedAt)
	assert.NotEmpty(t, u.PasswordHash)
}

func TestSetPassword_ExistingUserStampedWithSkew(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	s := newCreds(memory.NewUserRepository())
	s.Now = func() time.Time { return fixed }

	u := entity.NewUser("Old", "old@example.com")
	u.ID = "existing"
	u.SetResetToken("digest", fixed.Add(time.Minute))

	require.NoError(t, s.SetPassword(context.Background(), u, "newpass123"))
	require.NotNil(t, u.PasswordChangedAt)
	assert.Equal(t, fixed.Add(-time.Second), *u.PasswordChangedAt)
	assert.False(t, u.HasPendingReset())

	// a token issued at the moment of the change stays valid
	assert.False(t, u.PasswordChangedAfter(fixed))
	assert.True(t, u.PasswordChangedAfter(fixed.Add(-2*time.Second)))
}

func TestIssueResetToken_StoresDigestOnly(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	s := newCreds(memory.NewUserRepository())
	s.Now = func() time.Time { return fixed }
	u := entity.NewUser("R", "r@example.com")

	plain, err := s.IssueResetToken(u)
	require.NoError(t, err)
	assert.Len(t, plain, 64)
	assert.NotEqual(t, plain, u.PasswordResetTokenHash)
	assert.Equal(t, helpers.DigestToken(plain), u.PasswordResetTokenHash)
	assert.Equal(t, fixed.Add(10*time.Minute), *u.PasswordResetExpiresAt)
}

func TestConsumeResetToken(t *testing.T) {
	ctx := context.Background()
	store := memory.NewUserRepository()
	s := newCreds(store)

	u := entity.NewUser("R", "r@example.com")
	require.NoError(t, s.SetPassword(ctx, u, "pass1234"))
	require.NoError(t, store.Create(ctx, u))
	plain, err := s.IssueResetToken(u)
	require.NoError(t, err)
	require.NoError(t, store.Update(ctx, u))

	_, err = s.ConsumeResetToken(ctx, "wrong")
	assert.ErrorIs(t, err, repo.ErrUserNotFound)
	_, err = s.ConsumeResetToken(ctx, "")
	assert.ErrorIs(t, err, repo.ErrUserNotFound)

	got, err := s.ConsumeResetToken(ctx, plain)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.ConsumeResetToken(ctx, plain)
	assert.ErrorIs(t, err, repo.ErrUserNotFound)
}

func TestConsumeResetToken_Expired(t *testing.T) {
	ctx := context.Background()
	store := memory.NewUserRepository()
	s := newCreds(store)

	u := entity.NewUser("R", "r@example.com")
	require.NoError(t, store.Create(ctx, u))
	plain, err := s.IssueResetToken(u)
	require.NoError(t, err)
	require.NoError(t, store.Update(ctx, u))

	s.Now = func() time.Time { return time.Now().Add(11 * time.Minute) }
	_, err = s.ConsumeResetToken(ctx, plain)
	assert.ErrorIs(t, err, repo.ErrUserNotFound)
}

func TestResetPassword_HashFailureKeepsToken(t *testing.T) {
	ctx := context.Background()
	store := memory.NewUserRepository()
	s := newCreds(store)

	u := entity.NewUser("R", "keep@example.com")
	require.NoError(t, s.SetPassword(ctx, u, "pass1234"))
	require.NoError(t, store.Create(ctx, u))
	plain, err := s.StartReset(ctx, u)
	require.NoError(t, err)

	_, err = s.ResetPassword(ctx, plain, strings.Repeat("x", 73))
	require.Error(t, err)
	stored, err := store.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasPendingReset(), "token survives a failed hash")

	got, err := s.ResetPassword(ctx, plain, "brandnew123")
	require.NoError(t, err)
	assert.True(t, s.VerifyPassword(ctx, "brandnew123", got.PasswordHash))
	require.NotNil(t, got.PasswordChangedAt)
	assert.False(t, got.HasPendingReset())

	_, err = s.ResetPassword(ctx, plain, "another123")
	assert.ErrorIs(t, err, repo.ErrUserNotFound)
	_, err = s.ResetPassword(ctx, "", "another123")
	assert.ErrorIs(t, err, repo.ErrUserNotFound)
}

func TestResetPassword_Expired(t *testing.T) {
	ctx := context.Background()
	store := memory.NewUserRepository()
	s := newCreds(store)

	u := entity.NewUser("R", "late@example.com")
	require.NoError(t, store.Create(ctx, u))
	plain, err := s.StartReset(ctx, u)
	require.NoError(t, err)

	s.Now = func() time.Time { return time.Now().Add(11 * time.Minute) }
	_, err = s.ResetPassword(ctx, plain, "brandnew123")
	assert.ErrorIs(t, err, repo.ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	store := memory.NewUserRepository()
	s := newCreds(store)

	assert.ErrorIs(t, s.ChangePassword(ctx, entity.NewUser("N", "new@example.com"), "pass1234"), repo.ErrUserNotFound)

	u := entity.NewUser("C", "change@example.com")
	require.NoError(t, store.Create(ctx, u))
	_, err := s.StartReset(ctx, u)
	require.NoError(t, err)

	require.NoError(t, s.ChangePassword(ctx, u, "newpass123"))
	stored, err := store.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, s.VerifyPassword(ctx, "newpass123", stored.PasswordHash))
	assert.NotNil(t, stored.PasswordChangedAt)
	assert.False(t, stored.HasPendingReset(), "a password change voids pending resets")
}
