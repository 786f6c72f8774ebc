package file

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/restbase/internal/domain"
	"github.com/simp-lee/restbase/internal/listquery"
	"github.com/simp-lee/restbase/internal/module/auth"
	"github.com/simp-lee/restbase/internal/pkg"
)

// FileHandler handles REST API requests for the file resource.
type FileHandler struct {
	svc Service
}

// NewHandler creates a new FileHandler with the given service.
func NewHandler(svc Service) *FileHandler {
	return &FileHandler{svc: svc}
}

// List handles GET /api/v1/files.
func (h *FileHandler) List(c *gin.Context) {
	q := listquery.Parse(c.Request.URL.Query())

	result, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.View(c, http.StatusOK, result)
}

// Upload handles POST /api/v1/files: a multipart form with the object under
// "file" plus metadata fields.
func (h *FileHandler) Upload(c *gin.Context) {
	var req UploadFileRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		pkg.Error(c, domain.NewValidationError([]string{"file: required"}))
		return
	}

	f, err := header.Open()
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeInternal, err))
		return
	}
	defer f.Close()

	record, err := h.svc.Upload(c.Request.Context(), &req, header.Filename,
		header.Header.Get("Content-Type"), f, auth.CurrentUserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, record)
}

// Get handles GET /api/v1/files/:id.
func (h *FileHandler) Get(c *gin.Context) {
	id, ok := pkg.ParseIDParam(c)
	if !ok {
		return
	}

	record, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	if !canAccess(c, record) {
		pkg.Error(c, domain.ErrNoPermission)
		return
	}
	pkg.View(c, http.StatusOK, gin.H{"data": record})
}

// Update handles PUT /api/v1/files/:id (metadata only).
func (h *FileHandler) Update(c *gin.Context) {
	id, ok := pkg.ParseIDParam(c)
	if !ok {
		return
	}

	var req UpdateFileRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	if !h.guardOwner(c, id) {
		return
	}

	record, err := h.svc.Update(c.Request.Context(), id, &req, auth.CurrentUserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.View(c, http.StatusOK, gin.H{"data": record})
}

// Remove handles DELETE /api/v1/files/:id.
func (h *FileHandler) Remove(c *gin.Context) {
	id, ok := pkg.ParseIDParam(c)
	if !ok {
		return
	}

	if !h.guardOwner(c, id) {
		return
	}

	record, err := h.svc.Remove(c.Request.Context(), id, auth.CurrentUserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.View(c, http.StatusOK, gin.H{"data": record})
}

// Content handles GET /api/v1/files/:id/content, streaming the stored bytes.
func (h *FileHandler) Content(c *gin.Context) {
	id, ok := pkg.ParseIDParam(c)
	if !ok {
		return
	}

	record, rc, err := h.svc.Content(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	defer rc.Close()

	if !canAccess(c, record) {
		pkg.Error(c, domain.ErrNoPermission)
		return
	}

	contentType := record.Type
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", `attachment; filename="`+record.Name+`"`)
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}

// ReplaceContent handles PUT /api/v1/files/:id/content: swaps the stored
// object while keeping the metadata record and its id.
func (h *FileHandler) ReplaceContent(c *gin.Context) {
	id, ok := pkg.ParseIDParam(c)
	if !ok {
		return
	}

	if !h.guardOwner(c, id) {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		pkg.Error(c, domain.NewValidationError([]string{"file: required"}))
		return
	}

	f, err := header.Open()
	if err != nil {
		pkg.Error(c, domain.NewAppError(domain.CodeInternal, err))
		return
	}
	defer f.Close()

	record, err := h.svc.ReplaceContent(c.Request.Context(), id, header.Filename,
		header.Header.Get("Content-Type"), f, auth.CurrentUserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.View(c, http.StatusOK, gin.H{"data": record})
}

// guardOwner loads the record and rejects callers who neither own it nor
// hold the admin role.
func (h *FileHandler) guardOwner(c *gin.Context, id uint) bool {
	record, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		pkg.Error(c, err)
		return false
	}
	if !isOwnerOrAdmin(c, record) {
		pkg.Error(c, domain.ErrNoPermission)
		return false
	}
	return true
}

// canAccess reports whether the caller may read the file: public files are
// open to any authenticated user, private ones to the owner and admins.
func canAccess(c *gin.Context, record *domain.File) bool {
	if !record.IsPrivate {
		return auth.CurrentUser(c) != nil
	}
	return isOwnerOrAdmin(c, record)
}

func isOwnerOrAdmin(c *gin.Context, record *domain.File) bool {
	user := auth.CurrentUser(c)
	if user == nil {
		return false
	}
	if user.Role == domain.RoleAdmin {
		return true
	}
	return record.CreatedByUserID != nil && *record.CreatedByUserID == user.ID
}
