package router

import (
	"github.com/gin-gonic/gin"

	"tvrelay/conf"
	"tvrelay/internal/handler/audit"
	"tvrelay/internal/handler/ping"
	"tvrelay/internal/handler/webhook"
	"tvrelay/internal/middleware"
)

type ApiRouter struct {
	cfg          *conf.Config
	wh           *webhook.Handler
	auditHandler *audit.Handler
	hooks        middleware.WebhookStore
}

func NewApiRouter(cfg *conf.Config, wh *webhook.Handler, ah *audit.Handler, hooks middleware.WebhookStore) *ApiRouter {
	return &ApiRouter{cfg: cfg, wh: wh, auditHandler: ah, hooks: hooks}
}

func (api *ApiRouter) Load(g *gin.Engine) {
	g.Use(middleware.RequestId(), middleware.Logger, middleware.Recovery(api.hooks))

	g.GET("/", ping.Ping())
	g.GET("/ping", ping.Ping())
	g.GET("/health", ping.Health(api.cfg.Binance))

	// TradingView告警投递入口，/tv是别名
	g.POST("/webhook", api.wh.HandleWebhook())
	g.POST("/tv", api.wh.HandleWebhook())

	base := g.Group("/api/v1")
	a := base.Group("/audit")
	{
		a.GET("/trades", api.auditHandler.RecentTrades())
		a.GET("/errors", api.auditHandler.TradeErrors())
		a.GET("/webhooks", api.auditHandler.RecentWebhooks())
	}
}
