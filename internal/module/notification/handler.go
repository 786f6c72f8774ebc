// Package notification implements CRUD for in-app user notifications.
package notification

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/restbase/internal/domain"
	"github.com/simp-lee/restbase/internal/listquery"
	"github.com/simp-lee/restbase/internal/module/auth"
	"github.com/simp-lee/restbase/internal/pkg"
	"github.com/simp-lee/restbase/internal/store"
)

// NotificationHandler handles REST API requests for the notification resource.
type NotificationHandler struct {
	notifications *store.Store[domain.Notification]
}

// NewHandler creates a new NotificationHandler over the given store.
func NewHandler(notifications *store.Store[domain.Notification]) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /api/v1/notifications. Regular users only ever see their
// own notifications; admins see whatever their filter selects.
func (h *NotificationHandler) List(c *gin.Context) {
	q := listquery.Parse(c.Request.URL.Query())

	// The recipient restriction goes into the scope, not the client
	// conditions, so the default visibility rule still applies to a bare
	// list and the filter echo stays the client's own.
	user := auth.CurrentUser(c)
	if user != nil && user.Role != domain.RoleAdmin {
		q.Scope = append(q.Scope, listquery.Condition{
			Field: "user_id", Op: listquery.OpEq, Value: float64(user.ID),
		})
	}

	result, err := h.notifications.List(c.Request.Context(), q)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.View(c, http.StatusOK, result)
}

// Create handles POST /api/v1/notifications.
func (h *NotificationHandler) Create(c *gin.Context) {
	var req CreateNotificationRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	notif := domain.Notification{
		Title:    req.Title,
		Body:     req.Body,
		Priority: priority,
		UserID:   req.UserID,
	}
	notif.CreatedByUserID = auth.CurrentUserID(c)

	if err := h.notifications.Create(c.Request.Context(), &notif); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, notif)
}

// Get handles GET /api/v1/notifications/:id.
func (h *NotificationHandler) Get(c *gin.Context) {
	id, ok := pkg.ParseIDParam(c)
	if !ok {
		return
	}

	notif, err := h.notifications.Read(c.Request.Context(), map[string]any{"id": id})
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if !canAccess(c, notif) {
		pkg.Error(c, domain.ErrNoPermission)
		return
	}
	pkg.View(c, http.StatusOK, gin.H{"data": notif})
}

// Update handles PUT /api/v1/notifications/:id. Recipients may update their
// own notifications (typically to mark them read); admins may update any.
func (h *NotificationHandler) Update(c *gin.Context) {
	id, ok := pkg.ParseIDParam(c)
	if !ok {
		return
	}

	var req UpdateNotificationRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	existing, err := h.notifications.Read(c.Request.Context(), map[string]any{"id": id})
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if !canAccess(c, existing) {
		pkg.Error(c, domain.ErrNoPermission)
		return
	}

	notif, err := h.notifications.Update(c.Request.Context(), id, req.patch(), auth.CurrentUserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.View(c, http.StatusOK, gin.H{"data": notif})
}

// Remove handles DELETE /api/v1/notifications/:id.
func (h *NotificationHandler) Remove(c *gin.Context) {
	id, ok := pkg.ParseIDParam(c)
	if !ok {
		return
	}

	existing, err := h.notifications.Read(c.Request.Context(), map[string]any{"id": id})
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if !canAccess(c, existing) {
		pkg.Error(c, domain.ErrNoPermission)
		return
	}

	notif, err := h.notifications.Remove(c.Request.Context(), id, auth.CurrentUserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.View(c, http.StatusOK, gin.H{"data": notif})
}

// canAccess reports whether the caller may touch the notification: admins
// always, recipients for their own.
func canAccess(c *gin.Context, notif *domain.Notification) bool {
	user := auth.CurrentUser(c)
	if user == nil {
		return false
	}
	return user.Role == domain.RoleAdmin || notif.UserID == user.ID
}
