package application

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/natours-auth/internal/domain/entity"
	repo "github.com/oksasatya/natours-auth/internal/domain/repository"
	"github.com/oksasatya/natours-auth/pkg/helpers"
)

const (
	DefaultResetTTL   = 10 * time.Minute
	DefaultChangeSkew = time.Second
)

// CredentialService owns hashing, password changes and reset tokens.
// Every write of a password goes through SetPassword before the user is persisted.
type CredentialService struct {
	Repo       repo.UserRepository
	Hasher     *helpers.PasswordHasher
	ResetTTL   time.Duration
	ChangeSkew time.Duration
	Now        func() time.Time
}

func NewCredentialService(r repo.UserRepository, hasher *helpers.PasswordHasher, resetTTL, skew time.Duration) *CredentialService {
	if resetTTL <= 0 {
		resetTTL = DefaultResetTTL
	}
	if skew < 0 {
		skew = DefaultChangeSkew
	}
	return &CredentialService{Repo: r, Hasher: hasher, ResetTTL: resetTTL, ChangeSkew: skew, Now: time.Now}
}

func (s *CredentialService) HashPassword(ctx context.Context, plain string) (string, error) {
	return s.Hasher.Hash(ctx, plain)
}

// VerifyPassword compares candidate against the stored bcrypt hash.
func (s *CredentialService) VerifyPassword(ctx context.Context, candidate, storedHash string) bool {
	if storedHash == "" {
		return false
	}
	return s.Hasher.Compare(ctx, storedHash, candidate)
}

// SetPassword hashes plain into u and clears any pending reset. For a user
// that already exists it stamps PasswordChangedAt slightly in the past, so a
// token issued right after the change is not treated as stale.
func (s *CredentialService) SetPassword(ctx context.Context, u *entity.User, plain string) error {
	hash, err := s.HashPassword(ctx, plain)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	if !u.IsNew() {
		changed := s.Now().Add(-s.ChangeSkew)
		u.PasswordChangedAt = &changed
	}
	u.ClearResetToken()
	return nil
}

// IssueResetToken stores the digest of a fresh token on u and returns the
// plaintext. StartReset persists it; seeds and tests may persist u themselves.
func (s *CredentialService) IssueResetToken(u *entity.User) (string, error) {
	plain, digest, err := helpers.NewResetToken()
	if err != nil {
		return "", err
	}
	u.SetResetToken(digest, s.Now().Add(s.ResetTTL))
	return plain, nil
}

// ConsumeResetToken returns the active user owning plain, clearing the token.
// Unknown and expired tokens both yield repository.ErrUserNotFound.
func (s *CredentialService) ConsumeResetToken(ctx context.Context, plain string) (*entity.User, error) {
	if plain == "" {
		return nil, repo.ErrUserNotFound
	}
	u, err := s.Repo.ConsumeResetToken(ctx, helpers.DigestToken(plain), s.Now())
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, repo.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// StartReset issues a token for u and writes only the reset pair, leaving the
// stored password fields untouched.
func (s *CredentialService) StartReset(ctx context.Context, u *entity.User) (string, error) {
	plain, err := s.IssueResetToken(u)
	if err != nil {
		return "", err
	}
	if err := s.Repo.SetResetToken(ctx, u.ID, u.PasswordResetTokenHash, *u.PasswordResetExpiresAt); err != nil {
		return "", err
	}
	return plain, nil
}

// CancelReset clears the pair written for plain. A newer token issued in the
// meantime is kept.
func (s *CredentialService) CancelReset(ctx context.Context, u *entity.User, plain string) error {
	u.ClearResetToken()
	return s.Repo.ClearResetToken(ctx, u.ID, helpers.DigestToken(plain))
}

// ResetPassword sets a new password for the owner of plain. The password is
// hashed before the token is looked at, and the store spends the token in the
// same write that stores the hash, so a failure leaves the token usable.
// Unknown and expired tokens yield repository.ErrUserNotFound.
func (s *CredentialService) ResetPassword(ctx context.Context, plain, password string) (*entity.User, error) {
	if plain == "" {
		return nil, repo.ErrUserNotFound
	}
	hash, err := s.HashPassword(ctx, password)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	return s.Repo.ResetPassword(ctx, helpers.DigestToken(plain), hash, now.Add(-s.ChangeSkew), now)
}

// ChangePassword runs SetPassword on a stored user and writes only its
// credential fields.
func (s *CredentialService) ChangePassword(ctx context.Context, u *entity.User, plain string) error {
	if u.IsNew() {
		return repo.ErrUserNotFound
	}
	if err := s.SetPassword(ctx, u, plain); err != nil {
		return err
	}
	return s.Repo.UpdatePassword(ctx, u.ID, u.PasswordHash, *u.PasswordChangedAt)
}
