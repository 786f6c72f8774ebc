package pkg

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/restbase/internal/domain"
)

// ParseIDParam reads the :id route parameter as a positive integer. On
// failure it sends a validation error envelope and returns false.
func ParseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		Error(c, domain.NewValidationError([]string{"id: must be a positive integer"}))
		return 0, false
	}
	return uint(id), true
}
