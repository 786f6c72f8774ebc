// Package sessions exposes admin endpoints for inspecting and revoking the
// live session population.
package sessions

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/restbase/internal/domain"
	"github.com/simp-lee/restbase/internal/pkg"
	"github.com/simp-lee/restbase/internal/session"
)

// SessionHandler handles REST API requests for session administration.
type SessionHandler struct {
	store *session.Store
}

// NewHandler creates a new SessionHandler over the given session store.
func NewHandler(store *session.Store) *SessionHandler {
	return &SessionHandler{store: store}
}

// Stats handles GET /api/v1/sessions/stats.
func (h *SessionHandler) Stats(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context())
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeInternal, err))
		return
	}
	pkg.View(c, http.StatusOK, stats)
}

// UserSessions handles GET /api/v1/sessions/users/:id.
func (h *SessionHandler) UserSessions(c *gin.Context) {
	userID, ok := pkg.ParseIDParam(c)
	if !ok {
		return
	}

	tokens, err := h.store.UserSessions(c.Request.Context(), userID)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeInternal, err))
		return
	}
	pkg.View(c, http.StatusOK, gin.H{"user_id": userID, "sessions": tokens})
}

// UserSessionCount handles GET /api/v1/sessions/users/:id/count.
func (h *SessionHandler) UserSessionCount(c *gin.Context) {
	userID, ok := pkg.ParseIDParam(c)
	if !ok {
		return
	}

	count, err := h.store.UserSessionCount(c.Request.Context(), userID)
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeInternal, err))
		return
	}
	pkg.View(c, http.StatusOK, gin.H{"user_id": userID, "count": count})
}

// InvalidateUser handles DELETE /api/v1/sessions/users/:id. It force-logs-out
// the user everywhere.
func (h *SessionHandler) InvalidateUser(c *gin.Context) {
	userID, ok := pkg.ParseIDParam(c)
	if !ok {
		return
	}

	if err := h.store.InvalidateUser(c.Request.Context(), userID); err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeInternal, err))
		return
	}
	pkg.View(c, http.StatusOK, gin.H{"user_id": userID, "message": "sessions invalidated"})
}
