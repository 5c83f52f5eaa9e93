package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mwiater/perfview/internal/logging"
	"github.com/rs/xid"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
)

// requestID tags every request with a fresh id, echoed in the response.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := xid.New().String()
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.LogRequest(c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
