package file

import "github.com/gin-gonic/gin"

// FileModule implements the app.Module interface for the file resource.
type FileModule struct {
	handler *FileHandler
	guard   gin.HandlerFunc
}

// NewModule creates a new FileModule. guard authenticates every route.
func NewModule(h *FileHandler, guard gin.HandlerFunc) *FileModule {
	if h == nil {
		panic("file.NewModule: handler must not be nil")
	}
	if guard == nil {
		panic("file.NewModule: guard must not be nil")
	}
	return &FileModule{handler: h, guard: guard}
}

// RegisterRoutes registers file API routes.
func (m *FileModule) RegisterRoutes(api *gin.RouterGroup) {
	group := api.Group("/files", m.guard)
	group.GET("", m.handler.List)
	group.POST("", m.handler.Upload)
	group.GET("/:id", m.handler.Get)
	group.PUT("/:id", m.handler.Update)
	group.DELETE("/:id", m.handler.Remove)
	group.GET("/:id/content", m.handler.Content)
	group.PUT("/:id/content", m.handler.ReplaceContent)
}
