package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/natours-auth/internal/domain/entity"
	"github.com/oksasatya/natours-auth/internal/domain/repository"
	"github.com/oksasatya/natours-auth/pkg/apperror"
)

const userColumns = `id, name, email, photo, role, password_hash, password_changed_at,
	password_reset_token, password_reset_expires, active, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, photo, role, password_hash, password_changed_at,
			password_reset_token, password_reset_expires, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, writeArgs(u)...)

	return translate(row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt))
}

func (r *UserRepository) GetByID(ctx context.Context, id string, opts ...repository.FindOption) (*entity.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	o := repository.ApplyFindOptions(opts)
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 AND ($2 OR active)`, id, o.IncludeInactive)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string, opts ...repository.FindOption) (*entity.User, error) {
	o := repository.ApplyFindOptions(opts)
	return r.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 AND ($2 OR active)`,
		entity.NormalizeEmail(email), o.IncludeInactive)
}

// ConsumeResetToken claims the token in a single statement so that concurrent
// requests with the same token cannot both succeed.
func (r *UserRepository) ConsumeResetToken(ctx context.Context, tokenHash string, now time.Time) (*entity.User, error) {
	return r.queryOne(ctx, `
		UPDATE users
		SET password_reset_token = NULL, password_reset_expires = NULL, updated_at = $2
		WHERE password_reset_token = $1 AND password_reset_expires > $2 AND active
		RETURNING `+userColumns, tokenHash, now)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	if err := checkID(u.ID); err != nil {
		return err
	}
	u.UpdatedAt = time.Now()

	args := append(writeArgs(u), u.UpdatedAt, u.ID)
	return r.exec(ctx, `
		UPDATE users
		SET name = $1, email = $2, photo = $3, role = $4, password_hash = $5,
			password_changed_at = $6, password_reset_token = $7, password_reset_expires = $8,
			active = $9, updated_at = $10
		WHERE id = $11
	`, args...)
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	if err := checkID(id); err != nil {
		return err
	}
	return r.exec(ctx, `
		UPDATE users
		SET password_reset_token = $2, password_reset_expires = $3, updated_at = now()
		WHERE id = $1 AND active
	`, id, tokenHash, expiresAt)
}

func (r *UserRepository) ClearResetToken(ctx context.Context, id, tokenHash string) error {
	if err := checkID(id); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_reset_token = NULL, password_reset_expires = NULL, updated_at = now()
		WHERE id = $1 AND password_reset_token = $2
	`, id, tokenHash)
	return translate(err)
}

func (r *UserRepository) ResetPassword(ctx context.Context, tokenHash, passwordHash string, changedAt, now time.Time) (*entity.User, error) {
	return r.queryOne(ctx, `
		UPDATE users
		SET password_hash = $2, password_changed_at = $3,
			password_reset_token = NULL, password_reset_expires = NULL, updated_at = $4
		WHERE password_reset_token = $1 AND password_reset_expires > $4 AND active
		RETURNING `+userColumns, tokenHash, passwordHash, changedAt, now)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error {
	if err := checkID(id); err != nil {
		return err
	}
	return r.exec(ctx, `
		UPDATE users
		SET password_hash = $2, password_changed_at = $3,
			password_reset_token = NULL, password_reset_expires = NULL, updated_at = now()
		WHERE id = $1 AND active
	`, id, passwordHash, changedAt)
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	if err := checkID(id); err != nil {
		return err
	}
	return r.exec(ctx, `UPDATE users SET active = $2, updated_at = now() WHERE id = $1`, id, active)
}

// exec runs a single-row write and reports ErrUserNotFound when nothing matched.
func (r *UserRepository) exec(ctx context.Context, sql string, args ...any) error {
	res, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return translate(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) queryOne(ctx context.Context, sql string, args ...any) (*entity.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, translate(err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u     entity.User
		role  string
		token *string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Photo, &role, &u.PasswordHash, &u.PasswordChangedAt,
		&token, &u.PasswordResetExpiresAt, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	if token != nil {
		u.PasswordResetTokenHash = *token
	}
	return &u, nil
}

// writeArgs lists the columns shared by insert and full update, in that order.
// Email is stored normalized like every other store does.
func writeArgs(u *entity.User) []any {
	u.Email = entity.NormalizeEmail(u.Email)
	return []any{u.Name, u.Email, u.Photo, string(u.Role), u.PasswordHash, u.PasswordChangedAt,
		nullable(u.PasswordResetTokenHash), u.PasswordResetExpiresAt, u.Active}
}

// checkID rejects malformed ids before they reach the uuid column.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &apperror.CastError{Path: "id", Value: id, Err: err}
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var _ repository.UserRepository = (*UserRepository)(nil)
