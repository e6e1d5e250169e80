package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/natours-auth/config"
	"github.com/oksasatya/natours-auth/internal/application"
	"github.com/oksasatya/natours-auth/internal/domain/entity"
	"github.com/oksasatya/natours-auth/internal/domain/repository"
	pginfra "github.com/oksasatya/natours-auth/internal/infrastructure/postgres"
	"github.com/oksasatya/natours-auth/pkg/apperror"
	"github.com/oksasatya/natours-auth/pkg/helpers"
	"github.com/oksasatya/natours-auth/pkg/validation"
)

type seedInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
	Role     string `json:"role" validate:"required,role"`
}

// seed creates (or resets the password and role of) a staff account in Postgres.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	name := flag.String("name", "Admin", "display name")
	email := flag.String("email", "admin@natours.io", "admin email")
	password := flag.String("password", "pass1234", "admin password")
	role := flag.String("role", string(entity.RoleAdmin), "user, guide, lead-guide or admin")
	flag.Parse()

	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	in := seedInput{Name: *name, Email: *email, Password: *password, Role: *role}
	if err := validation.ToFailure(validation.New().Struct(in)); err != nil {
		logger.WithError(err).Fatal("invalid seed flags")
	}
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{MaxConns: 2})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	repo := pginfra.NewUserRepository(pool)
	creds := application.NewCredentialService(repo,
		helpers.NewPasswordHasher(cfg.BcryptCost, cfg.HashWorkers), cfg.ResetTokenTTL, cfg.PasswordChangedSkew)

	u, err := repo.GetByEmail(ctx, *email, repository.IncludeInactive())
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		u = entity.NewUser(in.Name, in.Email)
		u.Role = entity.Role(in.Role)
		if err := creds.SetPassword(ctx, u, in.Password); err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		if err := repo.Create(ctx, u); err != nil {
			logger.WithError(apperror.NewClassifier(cfg.Mode()).Classify(err)).Fatal("failed to seed user")
		}
		logger.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("seeded user")
	case err != nil:
		log.Fatalf("failed to look up user: %v", err)
	default:
		u.Role = entity.Role(in.Role)
		u.Active = true
		if err := creds.SetPassword(ctx, u, in.Password); err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		if err := repo.Update(ctx, u); err != nil {
			log.Fatalf("failed to update user: %v", err)
		}
		logger.WithField("user_id", u.ID).Info("user already existed; password and role reset")
	}
}
