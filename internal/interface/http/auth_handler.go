package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/natours-auth/internal/application"
	"github.com/oksasatya/natours-auth/internal/domain/entity"
	"github.com/oksasatya/natours-auth/internal/interface/middleware"
	"github.com/oksasatya/natours-auth/pkg/helpers"
	"github.com/oksasatya/natours-auth/pkg/response"
	"github.com/oksasatya/natours-auth/pkg/validation"
)

type AuthHandler struct {
	Svc     *application.AuthService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, cookies *helpers.Manager) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: cookies}
}

type signupRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,pwd"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required,eqfield=Password"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Password        string `json:"password" binding:"required,pwd"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required,eqfield=Password"`
}

type updatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent" binding:"required"`
	Password        string `json:"password" binding:"required,pwd"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required,eqfield=Password"`
}

type userData struct {
	User *entity.User `json:"user"`
}

// bind decodes the JSON body and pushes a validation failure on error.
func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(validation.ToFailure(err))
		return false
	}
	return true
}

// sendToken issues a session for u, sets the cookie and writes the token envelope.
func (h *AuthHandler) sendToken(c *gin.Context, status int, u *entity.User) {
	sess, err := h.Svc.IssueToken(c.Request.Context(), u)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.Cookies.SetToken(c, sess.Token, sess.ExpiresAt)
	response.WithToken(c, status, sess.Token, userData{User: u})
}

// Signup - POST /api/v1/users/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if !bind(c, &req) {
		return
	}
	u, err := h.Svc.Signup(c.Request.Context(), application.SignupInput{
		Name: req.Name, Email: req.Email, Password: req.Password,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.sendToken(c, http.StatusCreated, u)
}

// Login - POST /api/v1/users/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bind(c, &req) {
		return
	}
	u, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.sendToken(c, http.StatusOK, u)
}

// Logout - GET /api/v1/users/logout. Ends the Redis session when the request carries one.
func (h *AuthHandler) Logout(c *gin.Context) {
	if raw, err := c.Cookie(helpers.TokenCookie); err == nil && !helpers.IsLoggedOut(raw) {
		if claims, err := h.Svc.JWT.ParseToken(raw); err == nil {
			if err := h.Svc.Logout(c.Request.Context(), claims); err != nil {
				h.Logger.WithError(err).Warn("end session failed")
			}
		}
	}
	h.Cookies.Clear(c)
	response.JSON[any](c, http.StatusOK, nil, "")
}

// ForgotPassword - POST /api/v1/users/forgotPassword
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if !bind(c, &req) {
		return
	}
	if err := h.Svc.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON[any](c, http.StatusOK, nil, application.MsgResetSent)
}

// ResetPassword - PATCH /api/v1/users/resetPassword/:token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !bind(c, &req) {
		return
	}
	u, err := h.Svc.ResetPassword(c.Request.Context(), c.Param("token"), req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.sendToken(c, http.StatusOK, u)
}

// UpdatePassword - PATCH /api/v1/users/updateMyPassword (protected)
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if !bind(c, &req) {
		return
	}
	current := middleware.CurrentUser(c)
	u, err := h.Svc.UpdatePassword(c.Request.Context(), current.ID, req.PasswordCurrent, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.Svc.Logout(c.Request.Context(), middleware.CurrentClaims(c)); err != nil {
		h.Logger.WithError(err).Warn("end previous session failed")
	}
	h.sendToken(c, http.StatusOK, u)
}
