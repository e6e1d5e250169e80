package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/natours-auth/internal/application"
	"github.com/oksasatya/natours-auth/internal/interface/middleware"
	"github.com/oksasatya/natours-auth/pkg/helpers"
	"github.com/oksasatya/natours-auth/pkg/response"
)

type UserHandler struct {
	Svc     *application.AuthService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewUserHandler(svc *application.AuthService, logger *logrus.Logger, cookies *helpers.Manager) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: cookies}
}

// GetMe - GET /api/v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	u, err := h.Svc.GetMe(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.JSON(c, http.StatusOK, userData{User: u}, "")
}

// DeleteMe - DELETE /api/v1/users/deleteMe. Deactivates the account and ends the session.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.Svc.DeleteMe(ctx, middleware.CurrentUser(c).ID); err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.Svc.Logout(ctx, middleware.CurrentClaims(c)); err != nil {
		h.Logger.WithError(err).Warn("end session failed")
	}
	h.Cookies.Clear(c)
	c.Status(http.StatusNoContent)
}
