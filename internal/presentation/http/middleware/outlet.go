package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/outlet-pos/internal/domain/enum"
	"github.com/sangkips/outlet-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/outlet-pos/pkg/apperror"
)

const outletContextKey = "outlet"

// OutletMiddleware resolves the :outlet path parameter. Unknown outlets are rejected
// before any handler runs.
func OutletMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		outlet, ok := enum.ParseOutlet(c.Param("outlet"))
		if !ok {
			response.Error(c, apperror.NewValidationError([]apperror.FieldError{
				{Field: "outlet", Message: "must be one of harigala, arandara"},
			}))
			c.Abort()
			return
		}
		c.Set(outletContextKey, outlet)
		c.Next()
	}
}

// GetOutlet retrieves the outlet resolved by OutletMiddleware
func GetOutlet(c *gin.Context) enum.Outlet {
	outlet, exists := c.Get(outletContextKey)
	if !exists {
		return ""
	}
	o, _ := outlet.(enum.Outlet)
	return o
}
