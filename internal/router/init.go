package router

import (
	"github.com/oksasatya/natours-auth/internal/application"
	"github.com/oksasatya/natours-auth/internal/container"
	handlers "github.com/oksasatya/natours-auth/internal/interface/http"
	"github.com/oksasatya/natours-auth/internal/router/modules"
	"github.com/oksasatya/natours-auth/pkg/helpers"
)

type AuthDeps struct {
	Creds       *application.CredentialService
	Service     *application.AuthService
	AuthHandler *handlers.AuthHandler
	UserHandler *handlers.UserHandler
}

// BuildAuthDeps wires the credential and auth services from the container.
func BuildAuthDeps() AuthDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	repo := container.GetUserRepo()

	creds := application.NewCredentialService(repo, container.GetHasher(), cfg.ResetTokenTTL, cfg.PasswordChangedSkew)

	var pub application.JobPublisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}
	svc := application.NewAuthService(repo, creds, container.GetJWT(), container.GetRedis(), pub, logger)
	svc.AppName = cfg.AppName
	svc.ResetURL = cfg.ResetPasswordURL
	svc.MailSendEnabled = cfg.MailSendEnabled

	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)
	return AuthDeps{
		Creds:       creds,
		Service:     svc,
		AuthHandler: handlers.NewAuthHandler(svc, logger, cookies),
		UserHandler: handlers.NewUserHandler(svc, logger, cookies),
	}
}

// InitModules registers every feature module. Call once at startup.
func InitModules(r *Registry) {
	deps := BuildAuthDeps()
	r.Add(modules.NewAuthModule(deps.AuthHandler, deps.Service))
	r.Add(modules.NewUserModule(deps.UserHandler, deps.Service))
}
