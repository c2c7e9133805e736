package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/school-management-api/internal/constants"
	apierrors "github.com/yukikurage/school-management-api/internal/errors"
)

// RequireID parses the :id path parameter.
// Anything but a positive integer is rejected with 400 before the handler runs.
func RequireID(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || id == 0 {
			apierrors.BadRequest(c, "Invalid "+resource+" ID")
			return
		}

		c.Set(constants.ContextKeyResourceID, id)
		c.Next()
	}
}

// GetResourceID retrieves the id parsed by RequireID
func GetResourceID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get(constants.ContextKeyResourceID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}
