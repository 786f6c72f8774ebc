package emailtemplate

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/restbase/internal/domain"
	"github.com/simp-lee/restbase/internal/module/auth"
)

// TemplateModule implements the app.Module interface for email templates.
type TemplateModule struct {
	handler *TemplateHandler
	guard   gin.HandlerFunc
}

// NewModule creates a new TemplateModule. guard authenticates every route.
func NewModule(h *TemplateHandler, guard gin.HandlerFunc) *TemplateModule {
	if h == nil {
		panic("emailtemplate.NewModule: handler must not be nil")
	}
	if guard == nil {
		panic("emailtemplate.NewModule: guard must not be nil")
	}
	return &TemplateModule{handler: h, guard: guard}
}

// RegisterRoutes registers email template API routes. Templates are system
// configuration, so every route is admin-only.
func (m *TemplateModule) RegisterRoutes(api *gin.RouterGroup) {
	group := api.Group("/email-templates", m.guard, auth.RequireRole(domain.RoleAdmin))
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.GET("/:id", m.handler.Get)
	group.PUT("/:id", m.handler.Update)
	group.DELETE("/:id", m.handler.Remove)
}
