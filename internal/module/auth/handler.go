package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/restbase/internal/pkg"
)

// AuthHandler handles REST API requests for authentication.
type AuthHandler struct {
	svc Service
}

// NewHandler creates a new AuthHandler with the given service.
func NewHandler(svc Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req.Email, req.Password, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.View(c, http.StatusOK, resp)
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Register(c.Request.Context(), &req, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.View(c, http.StatusCreated, resp)
}

// Logout handles POST /api/v1/auth/logout. It revokes the session the
// request authenticated with.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Revoke(c.Request.Context(), CurrentToken(c)); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.View(c, http.StatusOK, gin.H{"message": "logged out"})
}

// Me handles GET /api/v1/auth/me, returning the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	pkg.View(c, http.StatusOK, gin.H{"user": CurrentUser(c)})
}
