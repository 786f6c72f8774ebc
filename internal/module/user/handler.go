package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/restbase/internal/listquery"
	"github.com/simp-lee/restbase/internal/module/auth"
	"github.com/simp-lee/restbase/internal/pkg"
)

// UserHandler handles REST API requests for the user resource.
type UserHandler struct {
	svc Service
}

// NewHandler creates a new UserHandler with the given service.
func NewHandler(svc Service) *UserHandler {
	return &UserHandler{svc: svc}
}

// List handles GET /api/v1/users.
func (h *UserHandler) List(c *gin.Context) {
	q := listquery.Parse(c.Request.URL.Query())

	result, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.View(c, http.StatusOK, result)
}

// Create handles POST /api/v1/users.
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	user, err := h.svc.Create(c.Request.Context(), &req, auth.CurrentUserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, user)
}

// Get handles GET /api/v1/users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pkg.ParseIDParam(c)
	if !ok {
		return
	}

	user, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.View(c, http.StatusOK, gin.H{"data": user})
}

// Update handles PUT /api/v1/users/:id.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pkg.ParseIDParam(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	user, err := h.svc.Update(c.Request.Context(), id, &req, auth.CurrentUserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.View(c, http.StatusOK, gin.H{"data": user})
}

// Remove handles DELETE /api/v1/users/:id.
func (h *UserHandler) Remove(c *gin.Context) {
	id, ok := pkg.ParseIDParam(c)
	if !ok {
		return
	}

	user, err := h.svc.Remove(c.Request.Context(), id, auth.CurrentUserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.View(c, http.StatusOK, gin.H{"data": user})
}

// ChangePassword handles POST /api/v1/users/password. It always operates on
// the authenticated user.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	err := h.svc.ChangePassword(c.Request.Context(), auth.CurrentUser(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.View(c, http.StatusOK, gin.H{"message": "password changed"})
}
