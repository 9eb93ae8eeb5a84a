package middleware

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"

	"tvrelay/internal/model"
	"tvrelay/pkg/logger"
	"tvrelay/pkg/response"
)

// WebhookStore 审计表的写入口，panic兜底时也要尽力留痕
type WebhookStore interface {
	Insert(ctx context.Context, record *model.WebhookRecord) error
}

// Recovery 处理链里的任何panic都在这里收口：
// 记日志（带headers和原始body）、尽力写一条400审计记录、回{"error": ...}
// 审计写入本身失败也不能让兜底再崩一次
func Recovery(store WebhookStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			errMsg := fmt.Sprintf("%v", r)

			var headers string
			var raw string
			func() {
				// 请求可能已经被读坏，这里的采集全部尽力而为
				defer func() { _ = recover() }()
				headers = fmt.Sprintf("%v", c.Request.Header)
				if c.Request.Body != nil {
					if data, err := io.ReadAll(c.Request.Body); err == nil {
						raw = string(data)
						c.Request.Body = io.NopCloser(bytes.NewBuffer(data))
					}
				}
			}()

			logger.Error("webhook fatal error",
				logger.Pair("panic", errMsg),
				logger.Pair("path", c.Request.URL.Path),
				logger.Pair("headers", headers),
				logger.Pair("raw", raw),
				logger.Pair("stack", string(debug.Stack())))

			if store != nil {
				if err := store.Insert(c.Request.Context(), &model.WebhookRecord{
					Ts:         time.Now().UTC(),
					Path:       c.Request.URL.Path,
					Headers:    headers,
					Raw:        raw,
					Json:       fmt.Sprintf(`{"error":%q}`, errMsg),
					StatusCode: http.StatusBadRequest,
				}); err != nil {
					logger.Error("audit write failed in recovery", logger.Pair("err", err.Error()))
				}
			}

			response.Error(c, http.StatusBadRequest, errMsg)
			c.Abort()
		}()
		c.Next()
	}
}
