// Package emailtemplate implements CRUD for the per-language mail templates
// the mail sender renders.
package emailtemplate

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/restbase/internal/domain"
	"github.com/simp-lee/restbase/internal/listquery"
	"github.com/simp-lee/restbase/internal/module/auth"
	"github.com/simp-lee/restbase/internal/pkg"
	"github.com/simp-lee/restbase/internal/store"
)

// TemplateHandler handles REST API requests for the email template resource.
type TemplateHandler struct {
	templates *store.Store[domain.EmailTemplate]
}

// NewHandler creates a new TemplateHandler over the given store.
func NewHandler(templates *store.Store[domain.EmailTemplate]) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// List handles GET /api/v1/email-templates.
func (h *TemplateHandler) List(c *gin.Context) {
	q := listquery.Parse(c.Request.URL.Query())

	result, err := h.templates.List(c.Request.Context(), q)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.View(c, http.StatusOK, result)
}

// Create handles POST /api/v1/email-templates.
func (h *TemplateHandler) Create(c *gin.Context) {
	var req CreateTemplateRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	tmpl := req.toModel()
	tmpl.CreatedByUserID = auth.CurrentUserID(c)

	if err := h.templates.Create(c.Request.Context(), tmpl); err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.Created(c, tmpl)
}

// Get handles GET /api/v1/email-templates/:id.
func (h *TemplateHandler) Get(c *gin.Context) {
	id, ok := pkg.ParseIDParam(c)
	if !ok {
		return
	}

	tmpl, err := h.templates.Read(c.Request.Context(), map[string]any{"id": id})
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.View(c, http.StatusOK, gin.H{"data": tmpl})
}

// Update handles PUT /api/v1/email-templates/:id.
func (h *TemplateHandler) Update(c *gin.Context) {
	id, ok := pkg.ParseIDParam(c)
	if !ok {
		return
	}

	var req UpdateTemplateRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	tmpl, err := h.templates.Update(c.Request.Context(), id, req.patch(), auth.CurrentUserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.View(c, http.StatusOK, gin.H{"data": tmpl})
}

// Remove handles DELETE /api/v1/email-templates/:id.
func (h *TemplateHandler) Remove(c *gin.Context) {
	id, ok := pkg.ParseIDParam(c)
	if !ok {
		return
	}

	tmpl, err := h.templates.Remove(c.Request.Context(), id, auth.CurrentUserID(c))
	if err != nil {
		pkg.Error(c, err)
		return
	}
	pkg.View(c, http.StatusOK, gin.H{"data": tmpl})
}
