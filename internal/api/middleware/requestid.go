package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/giroscopio/internal/infrastructure/logging"
	"github.com/GriffinCanCode/giroscopio/internal/shared/id"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

const maxIncomingIDLength = 128

// RequestID assigns every request an ID, honouring a sane incoming header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" || len(rid) > maxIncomingIDLength {
			rid = id.NewRequestID().String()
		}
		c.Set(logging.RequestIDKey, rid)
		c.Header(RequestIDHeader, rid)
		c.Next()
	}
}
