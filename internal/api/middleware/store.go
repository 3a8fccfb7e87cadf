package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/novashell/internal/domain/device"
)

// Store attaches the device store to every request context. Handlers read it
// back with device.MustFromContext.
func Store(store *device.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(device.WithStore(c.Request.Context(), store))
		c.Next()
	}
}
