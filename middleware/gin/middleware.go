package ginmw

import (
	"github.com/gin-gonic/gin"

	"github.com/reoring/dtobj"
	"github.com/reoring/dtobj/middleware"
)

// Validate constructs typeName from the request body and stores the object
// in the request context. On failure it answers with the Issues payload and
// aborts the chain.
func Validate(reg *dtobj.Registry, typeName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := middleware.Decode(reg, typeName, c.Request)
		if err != nil {
			c.AbortWithStatusJSON(middleware.StatusAndPayload(err))
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithObject(c.Request.Context(), o))
		c.Next()
	}
}

// GetObject fetches the object stored by Validate.
func GetObject(c *gin.Context) (*dtobj.Object, bool) {
	return middleware.ObjectFromContext(c.Request.Context())
}
