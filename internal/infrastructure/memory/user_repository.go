package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/natours-auth/internal/domain/entity"
	"github.com/oksasatya/natours-auth/internal/domain/repository"
	"github.com/oksasatya/natours-auth/pkg/apperror"
)

// UserRepository keeps users in a map guarded by a mutex. It is used by tests
// and by STORE_DRIVER=memory for local runs.
type UserRepository struct {
	mu      sync.Mutex
	byID    map[string]*entity.User
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]*entity.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u.Email = entity.NormalizeEmail(u.Email)
	if _, ok := r.byEmail[u.Email]; ok {
		return &apperror.DuplicateKeyError{Field: "email", Value: u.Email}
	}
	now := time.Now()
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now

	r.byID[u.ID] = clone(u)
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string, opts ...repository.FindOption) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, &apperror.CastError{Path: "id", Value: id, Err: err}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visible(r.byID[id], repository.ApplyFindOptions(opts))
}

func (r *UserRepository) GetByEmail(_ context.Context, email string, opts ...repository.FindOption) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[entity.NormalizeEmail(email)]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return r.visible(r.byID[id], repository.ApplyFindOptions(opts))
}

func (r *UserRepository) ConsumeResetToken(_ context.Context, tokenHash string, now time.Time) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if !u.Active || !u.HasPendingReset() || u.PasswordResetTokenHash != tokenHash {
			continue
		}
		if !u.PasswordResetExpiresAt.After(now) {
			return nil, repository.ErrUserNotFound
		}
		u.ClearResetToken()
		u.UpdatedAt = now
		return clone(u), nil
	}
	return nil, repository.ErrUserNotFound
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[u.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Email = entity.NormalizeEmail(u.Email)
	if owner, taken := r.byEmail[u.Email]; taken && owner != u.ID {
		return &apperror.DuplicateKeyError{Field: "email", Value: u.Email}
	}
	delete(r.byEmail, cur.Email)
	u.UpdatedAt = time.Now()
	r.byID[u.ID] = clone(u)
	r.byEmail[u.Email] = u.ID
	return nil
}

func (r *UserRepository) SetResetToken(_ context.Context, id, tokenHash string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.active(id)
	if err != nil {
		return err
	}
	u.SetResetToken(tokenHash, expiresAt)
	u.UpdatedAt = time.Now()
	return nil
}

func (r *UserRepository) ClearResetToken(_ context.Context, id, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok && u.HasPendingReset() && u.PasswordResetTokenHash == tokenHash {
		u.ClearResetToken()
		u.UpdatedAt = time.Now()
	}
	return nil
}

func (r *UserRepository) ResetPassword(_ context.Context, tokenHash, passwordHash string, changedAt, now time.Time) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if !u.Active || !u.HasPendingReset() || u.PasswordResetTokenHash != tokenHash {
			continue
		}
		if !u.PasswordResetExpiresAt.After(now) {
			return nil, repository.ErrUserNotFound
		}
		u.PasswordHash = passwordHash
		u.PasswordChangedAt = &changedAt
		u.ClearResetToken()
		u.UpdatedAt = now
		return clone(u), nil
	}
	return nil, repository.ErrUserNotFound
}

func (r *UserRepository) UpdatePassword(_ context.Context, id, passwordHash string, changedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, err := r.active(id)
	if err != nil {
		return err
	}
	u.PasswordHash = passwordHash
	u.PasswordChangedAt = &changedAt
	u.ClearResetToken()
	u.UpdatedAt = time.Now()
	return nil
}

func (r *UserRepository) SetActive(_ context.Context, id string, active bool) error {
	if _, err := uuid.Parse(id); err != nil {
		return &apperror.CastError{Path: "id", Value: id, Err: err}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Active = active
	u.UpdatedAt = time.Now()
	return nil
}

// active returns the stored record itself; callers hold r.mu.
func (r *UserRepository) active(id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, &apperror.CastError{Path: "id", Value: id, Err: err}
	}
	u, ok := r.byID[id]
	if !ok || !u.Active {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepository) visible(u *entity.User, o repository.FindOptions) (*entity.User, error) {
	if u == nil || (!u.Active && !o.IncludeInactive) {
		return nil, repository.ErrUserNotFound
	}
	return clone(u), nil
}

func clone(u *entity.User) *entity.User {
	c := *u
	if u.PasswordChangedAt != nil {
		t := *u.PasswordChangedAt
		c.PasswordChangedAt = &t
	}
	if u.PasswordResetExpiresAt != nil {
		t := *u.PasswordResetExpiresAt
		c.PasswordResetExpiresAt = &t
	}
	return &c
}

var _ repository.UserRepository = (*UserRepository)(nil)
