package templates

import (
	"time"
)

// ResetData is the data of the password reset email. Keys are read by the
// templates as .Name, .ResetURL, .AppName and .ExpiresAtText.
type ResetData struct {
	Name          string
	AppName       string
	ResetURL      string
	ExpiresAt     time.Time
	ExpiresAtText string
}

type Option func(*ResetData)

func WithAppName(name string) Option { return func(d *ResetData) { d.AppName = name } }

func WithExpiresAt(t time.Time) Option {
	return func(d *ResetData) {
		utc := t.UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04")
	}
}

// NewPasswordResetData builds the job data map for a password reset email.
func NewPasswordResetData(name, resetURL string, opts ...Option) map[string]any {
	d := ResetData{Name: name, ResetURL: resetURL}
	for _, opt := range opts {
		opt(&d)
	}
	return map[string]any{
		"Name":          d.Name,
		"AppName":       d.AppName,
		"ResetURL":      d.ResetURL,
		"ExpiresAtText": d.ExpiresAtText,
	}
}
