package repository

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/natours-auth/internal/domain/entity"
)

var ErrUserNotFound = errors.New("user not found")

// FindOptions tune a single lookup. The zero value excludes inactive users.
type FindOptions struct {
	IncludeInactive bool
}

type FindOption func(*FindOptions)

// IncludeInactive overrides the default active-only predicate for one call.
func IncludeInactive() FindOption {
	return func(o *FindOptions) { o.IncludeInactive = true }
}

func ApplyFindOptions(opts []FindOption) FindOptions {
	var o FindOptions
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// UserRepository defines the interface for user-related storage operations.
// Implementations translate their native errors into apperror failures
// (CastError for malformed identifiers, DuplicateKeyError for unique conflicts)
// and return ErrUserNotFound when no row matches.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string, opts ...FindOption) (*entity.User, error)
	GetByEmail(ctx context.Context, email string, opts ...FindOption) (*entity.User, error)
	// ConsumeResetToken atomically clears the reset pair of the active user whose
	// token digest matches and whose expiry is after now, returning that user.
	ConsumeResetToken(ctx context.Context, tokenHash string, now time.Time) (*entity.User, error)
	// Update writes every field of u. Flows that change a single concern use the
	// targeted writes below so a stale copy cannot overwrite newer credentials.
	Update(ctx context.Context, u *entity.User) error

	// SetResetToken writes only the reset pair of an active user.
	SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error
	// ClearResetToken clears the reset pair only while it still holds tokenHash.
	// It is a no-op when the pair has since been replaced or consumed.
	ClearResetToken(ctx context.Context, id, tokenHash string) error
	// ResetPassword is ConsumeResetToken and the password write in one atomic step:
	// the token is only spent when the new hash is stored with it.
	ResetPassword(ctx context.Context, tokenHash, passwordHash string, changedAt, now time.Time) (*entity.User, error)
	// UpdatePassword writes the hash and change stamp of an active user and clears any reset pair.
	UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error
	SetActive(ctx context.Context, id string, active bool) error
}
