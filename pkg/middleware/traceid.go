package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"trustly/pkg/utils"
)

const TraceHeader = "X-Trace-ID"

// TraceIDMiddleware reuses an inbound X-Trace-ID when the caller sends one.
func TraceIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceHeader)
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.New().String()
		}
		c.Set(utils.TraceIDKey, traceID)
		c.Writer.Header().Set(TraceHeader, traceID)
		c.Next()
	}
}
