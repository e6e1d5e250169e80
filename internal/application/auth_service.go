package application

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/natours-auth/internal/domain/entity"
	repo "github.com/oksasatya/natours-auth/internal/domain/repository"
	"github.com/oksasatya/natours-auth/pkg/apperror"
	"github.com/oksasatya/natours-auth/pkg/helpers"
	"github.com/oksasatya/natours-auth/pkg/mailer"
	"github.com/oksasatya/natours-auth/pkg/mailer/templates"
)

const (
	MsgIncorrectCredentials = "Incorrect email or password"
	MsgNotLoggedIn          = "You are not logged in! Please log in to get access."
	MsgUserGone             = "The user belonging to this token does no longer exist."
	MsgPasswordChanged      = "User recently changed password! Please log in again."
	MsgSessionEnded         = "Your session has ended. Please log in again."
	MsgResetSent            = "Token sent to email!"
	MsgResetSendFailed      = "There was an error sending the email. Try again later!"
	MsgResetInvalid         = "Token is invalid or has expired"
	MsgWrongPassword        = "Your current password is wrong."
	MsgNoUser               = "No user found with that ID"
)

// JobPublisher puts email jobs on the queue. *helpers.RabbitPublisher implements it.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type AuthService struct {
	Repo            repo.UserRepository
	Creds           *CredentialService
	JWT             *helpers.JWTManager
	Redis           *redis.Client
	Pub             JobPublisher
	Logger          *logrus.Logger
	AppName         string
	ResetURL        string
	MailSendEnabled bool
}

func NewAuthService(r repo.UserRepository, creds *CredentialService, jwt *helpers.JWTManager, rdb *redis.Client, pub JobPublisher, logger *logrus.Logger) *AuthService {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &AuthService{Repo: r, Creds: creds, JWT: jwt, Redis: rdb, Pub: pub, Logger: logger, MailSendEnabled: true}
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// Session is a signed token together with its expiry.
type Session struct {
	Token     string
	ExpiresAt time.Time
	ID        string
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*entity.User, error) {
	u := entity.NewUser(in.Name, in.Email)
	if err := s.Creds.SetPassword(ctx, u, in.Password); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.Logger.WithField("user_id", u.ID).Info("user signed up")
	return u, nil
}

// Login checks the credentials. Unknown email and wrong password are not told apart.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, apperror.New(MsgIncorrectCredentials, http.StatusUnauthorized)
		}
		return nil, err
	}
	if !s.Creds.VerifyPassword(ctx, password, u.PasswordHash) {
		return nil, apperror.New(MsgIncorrectCredentials, http.StatusUnauthorized)
	}
	return u, nil
}

// IssueToken signs a session token for u and records the session in Redis when configured.
func (s *AuthService) IssueToken(ctx context.Context, u *entity.User) (Session, error) {
	sid := uuid.NewString()
	token, exp, err := s.JWT.GenerateToken(u.ID, sid)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		return Session{}, err
	}
	if s.Redis != nil {
		if err := helpers.PutSession(ctx, s.Redis, sid, u.ID, time.Until(exp)); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("store session failed")
			return Session{}, err
		}
	}
	return Session{Token: token, ExpiresAt: exp, ID: sid}, nil
}

// Logout ends the session named by claims. Without Redis only the cookie is cleared.
func (s *AuthService) Logout(ctx context.Context, claims *helpers.Claims) error {
	if s.Redis == nil || claims == nil || claims.SessionID == "" {
		return nil
	}
	return helpers.DeleteSession(ctx, s.Redis, claims.SessionID)
}

// Protect resolves the current user from a raw token.
func (s *AuthService) Protect(ctx context.Context, token string) (*entity.User, *helpers.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" || helpers.IsLoggedOut(token) {
		return nil, nil, apperror.New(MsgNotLoggedIn, http.StatusUnauthorized)
	}
	claims, err := s.JWT.ParseToken(token)
	if err != nil {
		return nil, nil, err
	}

	if s.Redis != nil && claims.SessionID != "" {
		owner, err := helpers.SessionOwner(ctx, s.Redis, claims.SessionID)
		if err != nil {
			return nil, nil, err
		}
		if owner != claims.UserID {
			return nil, nil, apperror.New(MsgSessionEnded, http.StatusUnauthorized)
		}
	}

	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, nil, apperror.New(MsgUserGone, http.StatusUnauthorized)
		}
		return nil, nil, err
	}
	if u.PasswordChangedAfter(claims.IssuedAtTime()) {
		return nil, nil, apperror.New(MsgPasswordChanged, http.StatusUnauthorized)
	}
	return u, claims, nil
}

// ForgotPassword issues a reset token and queues the email. It returns nil for
// unknown emails so the response does not reveal which accounts exist.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			s.Logger.WithField("email", entity.NormalizeEmail(email)).Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	plain, err := s.Creds.StartReset(ctx, u)
	if err != nil {
		return err
	}

	resetURL := strings.TrimRight(s.ResetURL, "/") + "/" + plain
	if !s.MailSendEnabled || s.Pub == nil {
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "reset_url": resetURL}).Debug("email delivery disabled")
		return nil
	}

	job := mailer.EmailJob{
		To:       u.Email,
		Template: templates.PasswordReset,
		Data: templates.NewPasswordResetData(u.Name, resetURL,
			templates.WithAppName(s.AppName), templates.WithExpiresAt(*u.PasswordResetExpiresAt)),
	}
	if pubErr := s.Pub.PublishJSON(ctx, job); pubErr != nil {
		if err := s.Creds.CancelReset(ctx, u, plain); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("clear reset token failed")
		}
		return apperror.Wrap(pubErr, MsgResetSendFailed, http.StatusInternalServerError)
	}
	return nil
}

// ResetPassword sets the new password for the owner of token and spends the token.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) (*entity.User, error) {
	u, err := s.Creds.ResetPassword(ctx, token, password)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, apperror.New(MsgResetInvalid, http.StatusBadRequest)
		}
		return nil, err
	}
	return u, nil
}

// UpdatePassword changes the password of a logged-in user after checking the current one.
func (s *AuthService) UpdatePassword(ctx context.Context, userID, current, next string) (*entity.User, error) {
	u, err := s.GetMe(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !s.Creds.VerifyPassword(ctx, current, u.PasswordHash) {
		return nil, apperror.New(MsgWrongPassword, http.StatusUnauthorized)
	}
	if err := s.Creds.ChangePassword(ctx, u, next); err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, apperror.New(MsgNoUser, http.StatusNotFound)
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) GetMe(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, apperror.New(MsgNoUser, http.StatusNotFound)
		}
		return nil, err
	}
	return u, nil
}

// DeleteMe deactivates the account. The row stays but default lookups no longer see it.
func (s *AuthService) DeleteMe(ctx context.Context, userID string) error {
	u, err := s.GetMe(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.Repo.SetActive(ctx, u.ID, false); err != nil {
		return err
	}
	s.Logger.WithField("user_id", u.ID).Info("user deactivated")
	return nil
}
