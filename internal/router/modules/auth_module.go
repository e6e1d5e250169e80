package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/natours-auth/internal/application"
	handlers "github.com/oksasatya/natours-auth/internal/interface/http"
	"github.com/oksasatya/natours-auth/internal/interface/middleware"
)

// AuthModule serves the credential endpoints under /users.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Auth    *application.AuthService
}

func NewAuthModule(h *handlers.AuthHandler, auth *application.AuthService) *AuthModule {
	return &AuthModule{Handler: h, Auth: auth}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.POST("/signup", m.Handler.Signup)
	users.POST("/login", m.Handler.Login)
	users.GET("/logout", m.Handler.Logout)
	users.POST("/forgotPassword", m.Handler.ForgotPassword)
	users.PATCH("/resetPassword/:token", m.Handler.ResetPassword)

	protected := users.Group("/", middleware.Protect(m.Auth))
	protected.PATCH("/updateMyPassword", m.Handler.UpdatePassword)
}
