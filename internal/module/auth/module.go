package auth

import "github.com/gin-gonic/gin"

// AuthModule implements the app.Module interface for the auth domain.
type AuthModule struct {
	handler *AuthHandler
	guard   gin.HandlerFunc
}

// NewModule creates a new AuthModule with the given handler and auth guard.
// Panics if either is nil.
func NewModule(h *AuthHandler, guard gin.HandlerFunc) *AuthModule {
	if h == nil {
		panic("auth.NewModule: handler must not be nil")
	}
	if guard == nil {
		panic("auth.NewModule: guard must not be nil")
	}
	return &AuthModule{handler: h, guard: guard}
}

// RegisterRoutes registers auth API routes. Login and register are public;
// logout and me require an authenticated session.
func (m *AuthModule) RegisterRoutes(api *gin.RouterGroup) {
	group := api.Group("/auth")
	group.POST("/login", m.handler.Login)
	group.POST("/register", m.handler.Register)
	group.POST("/logout", m.guard, m.handler.Logout)
	group.GET("/me", m.guard, m.handler.Me)
}
