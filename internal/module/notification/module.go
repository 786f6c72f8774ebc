package notification

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/restbase/internal/domain"
	"github.com/simp-lee/restbase/internal/module/auth"
)

// NotificationModule implements the app.Module interface for notifications.
type NotificationModule struct {
	handler *NotificationHandler
	guard   gin.HandlerFunc
}

// NewModule creates a new NotificationModule. guard authenticates every route.
func NewModule(h *NotificationHandler, guard gin.HandlerFunc) *NotificationModule {
	if h == nil {
		panic("notification.NewModule: handler must not be nil")
	}
	if guard == nil {
		panic("notification.NewModule: guard must not be nil")
	}
	return &NotificationModule{handler: h, guard: guard}
}

// RegisterRoutes registers notification API routes. Creation is admin-only;
// reading and marking read are open to the recipient.
func (m *NotificationModule) RegisterRoutes(api *gin.RouterGroup) {
	group := api.Group("/notifications", m.guard)
	group.GET("", m.handler.List)
	group.POST("", auth.RequireRole(domain.RoleAdmin), m.handler.Create)
	group.GET("/:id", m.handler.Get)
	group.PUT("/:id", m.handler.Update)
	group.DELETE("/:id", m.handler.Remove)
}
