package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// webhook响应的固定格式，上游告警服务按这个契约解析：
//   下单成功   {"success": true, "client_id": ..., "order": ...}   200
//   确认但忽略 {"ok": true, "note": ...}                           200
//   失败       {"error": ...}                                      400 / 502

// OrderPlaced 下单成功
func OrderPlaced(c *gin.Context, clientID string, order interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"client_id": clientID,
		"order":     order,
	})
}

// Ack 确认收到但不下单（ping、debug、非交易payload）
func Ack(c *gin.Context, note string) {
	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"note": note,
	})
}

// Error 带状态码的错误响应
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"error": message,
	})
}

// List 查看类接口的通用列表响应
func List(c *gin.Context, items interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"ok":   true,
		"data": items,
	})
}
