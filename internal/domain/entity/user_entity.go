package entity

import (
	"strings"
	"time"
)

// User is the aggregate root for the credential store.
// PasswordHash is always a bcrypt hash; raw passwords are never assigned to a User.
// The reset token is held as a SHA-256 digest together with its expiry, and the
// two are always set or cleared together through SetResetToken/ClearResetToken.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`
	Role  Role   `json:"role"`

	PasswordHash           string     `json:"-"`
	PasswordChangedAt      *time.Time `json:"-"`
	PasswordResetTokenHash string     `json:"-"`
	PasswordResetExpiresAt *time.Time `json:"-"`

	Active    bool      `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const DefaultPhoto = "default.jpg"

// NewUser returns an active user with normalized email and default role/photo.
func NewUser(name, email string) *User {
	return &User{
		Name:   strings.TrimSpace(name),
		Email:  NormalizeEmail(email),
		Photo:  DefaultPhoto,
		Role:   RoleUser,
		Active: true,
	}
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsNew reports whether the user has not been persisted yet.
func (u *User) IsNew() bool { return u.ID == "" }

// HasPendingReset reports whether a reset token pair is stored.
func (u *User) HasPendingReset() bool {
	return u.PasswordResetTokenHash != "" && u.PasswordResetExpiresAt != nil
}

func (u *User) SetResetToken(tokenHash string, expiresAt time.Time) {
	exp := expiresAt
	u.PasswordResetTokenHash = tokenHash
	u.PasswordResetExpiresAt = &exp
}

func (u *User) ClearResetToken() {
	u.PasswordResetTokenHash = ""
	u.PasswordResetExpiresAt = nil
}

// PasswordChangedAfter reports whether the password was changed after issuedAt,
// compared at second granularity. A user who never changed the password is never stale.
func (u *User) PasswordChangedAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt.Unix() < u.PasswordChangedAt.Unix()
}
