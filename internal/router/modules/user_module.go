package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/natours-auth/internal/application"
	handlers "github.com/oksasatya/natours-auth/internal/interface/http"
	"github.com/oksasatya/natours-auth/internal/interface/middleware"
)

// UserModule serves the logged-in user's own account.
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    *application.AuthService
}

func NewUserModule(h *handlers.UserHandler, auth *application.AuthService) *UserModule {
	return &UserModule{Handler: h, Auth: auth}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	me := rg.Group("/users", middleware.Protect(m.Auth))
	me.GET("/me", m.Handler.GetMe)
	me.DELETE("/deleteMe", m.Handler.DeleteMe)
}
