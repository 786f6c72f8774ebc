package app

import "github.com/gin-gonic/gin"

// Module is the contract every feature module implements to expose its
// routes. Modules register themselves under the versioned API group.
type Module interface {
	RegisterRoutes(api *gin.RouterGroup)
}
