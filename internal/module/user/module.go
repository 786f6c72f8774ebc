package user

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/restbase/internal/domain"
	"github.com/simp-lee/restbase/internal/module/auth"
)

// UserModule implements the app.Module interface for the user resource.
type UserModule struct {
	handler *UserHandler
	guard   gin.HandlerFunc
}

// NewModule creates a new UserModule. guard authenticates every route.
func NewModule(h *UserHandler, guard gin.HandlerFunc) *UserModule {
	if h == nil {
		panic("user.NewModule: handler must not be nil")
	}
	if guard == nil {
		panic("user.NewModule: guard must not be nil")
	}
	return &UserModule{handler: h, guard: guard}
}

// RegisterRoutes registers user API routes. Management endpoints are
// admin-only; password change is open to any authenticated user.
func (m *UserModule) RegisterRoutes(api *gin.RouterGroup) {
	group := api.Group("/users", m.guard)
	group.POST("/password", m.handler.ChangePassword)

	admin := group.Group("", auth.RequireRole(domain.RoleAdmin))
	admin.GET("", m.handler.List)
	admin.POST("", m.handler.Create)
	admin.GET("/:id", m.handler.Get)
	admin.PUT("/:id", m.handler.Update)
	admin.DELETE("/:id", m.handler.Remove)
}
