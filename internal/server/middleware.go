package server

import (
	"time"

	"auction-server/utils"

	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-ID"

// RequestLoggerMiddleware tags each request with an id and logs it with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		requestID = utils.GenerateID()
	}
	c.Header(requestIDHeader, requestID)
	c.Set(utils.RequestIDKey, requestID)

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		utils.RequestIDKey: requestID,
		"method":           c.Request.Method,
		"path":             c.Request.URL.Path,
		"status":           c.Writer.Status(),
		"latency":          time.Since(start).String(),
	})
}
