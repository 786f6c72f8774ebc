package sessions

import "github.com/gin-gonic/gin"

// SessionModule implements the app.Module interface for session administration.
type SessionModule struct {
	handler *SessionHandler
	guards  []gin.HandlerFunc
}

// NewModule creates a new SessionModule. guards run before every route and
// are expected to enforce authentication plus the admin role.
func NewModule(h *SessionHandler, guards ...gin.HandlerFunc) *SessionModule {
	if h == nil {
		panic("sessions.NewModule: handler must not be nil")
	}
	return &SessionModule{handler: h, guards: guards}
}

// RegisterRoutes registers session administration API routes.
func (m *SessionModule) RegisterRoutes(api *gin.RouterGroup) {
	group := api.Group("/sessions", m.guards...)
	group.GET("/stats", m.handler.Stats)
	group.GET("/users/:id", m.handler.UserSessions)
	group.GET("/users/:id/count", m.handler.UserSessionCount)
	group.DELETE("/users/:id", m.handler.InvalidateUser)
}
