package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/natours-auth/pkg/apperror"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("BCRYPT_COST", "")
	t.Setenv("RESET_TOKEN_TTL", "")

	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 10*time.Minute, cfg.ResetTokenTTL)
	assert.Equal(t, time.Second, cfg.PasswordChangedSkew)
	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, apperror.ModeDiagnostic, cfg.Mode())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("HASH_WORKERS", "8")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := Load()

	assert.Equal(t, apperror.ModeRestricted, cfg.Mode())
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, 8, cfg.HashWorkers)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.CookieSecure)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("HASH_WORKERS", "many")
	t.Setenv("JWT_TTL", "forever")
	t.Setenv("MAIL_SEND_ENABLED", "maybe")

	cfg := Load()

	assert.Equal(t, 4, cfg.HashWorkers)
	assert.Equal(t, 90*24*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.MailSendEnabled)
}

func TestCORSOrigins(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " https://natours.dev, ,http://localhost:3000"}
	assert.Equal(t, []string{"https://natours.dev", "http://localhost:3000"}, cfg.CORSOrigins())
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", cfg.PostgresDSN())
}
