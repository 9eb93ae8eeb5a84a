package ping

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tvrelay/conf"
)

func Ping() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "Bot is running")
	}
}

// Health 返回运行状态和脱敏后的密钥，方便核对部署环境
func Health(cfg conf.BinanceConfig) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"ok":         true,
			"api_key":    mask(cfg.ApiKey),
			"api_secret": mask(cfg.ApiSecret),
		})
	}
}

func mask(v string) string {
	if v == "" {
		return "MISSING"
	}
	if len(v) <= 6 {
		return "***"
	}
	return v[:3] + "…" + v[len(v)-3:]
}
