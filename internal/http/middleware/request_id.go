package middleware

import (
	"github.com/gin-gonic/gin"

	"mindora.app/gateway/common/id"
	"mindora.app/gateway/common/logger"
)

const HeaderRequestID = "X-Request-Id"

// maxRequestIDLen bounds caller-supplied ids before they reach the logs.
const maxRequestIDLen = 128

// RequestID propagates the caller's X-Request-Id or mints one, echoes it on
// the response and attaches it to every log line of the request.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if rid == "" || len(rid) > maxRequestIDLen {
			rid = id.NewString()
		}

		c.Set("request_id", rid)
		c.Writer.Header().Set(HeaderRequestID, rid)

		ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{RequestID: logger.Ptr(rid)})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
