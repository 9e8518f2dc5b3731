package echomw

import (
	"github.com/labstack/echo/v4"

	"github.com/reoring/dtobj"
	"github.com/reoring/dtobj/middleware"
)

// Validate constructs typeName from the request body, stores the object in
// the request context, and on failure answers with the Issues payload.
func Validate(reg *dtobj.Registry, typeName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			o, err := middleware.Decode(reg, typeName, c.Request())
			if err != nil {
				return c.JSON(middleware.StatusAndPayload(err))
			}
			ctx := middleware.ContextWithObject(c.Request().Context(), o)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetObject fetches the object stored by Validate.
func GetObject(c echo.Context) (*dtobj.Object, bool) {
	return middleware.ObjectFromContext(c.Request().Context())
}
