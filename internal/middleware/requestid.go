package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tvrelay/internal/consts"
)

// RequestId 为每个请求生成唯一id，贯穿日志
func RequestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqId := c.GetHeader("X-Request-Id")
		if reqId == "" {
			reqId = uuid.NewString()
		}
		c.Set(consts.RequestId, reqId)
		c.Writer.Header().Set("X-Request-Id", reqId)
		c.Next()
	}
}
