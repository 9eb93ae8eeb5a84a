package audit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"tvrelay/internal/service"
	"tvrelay/pkg/response"
)

// 审计查看接口：最近的交易、失败记录、webhook投递
// 纯JSON，curl就能看

type Handler struct {
	audit *service.AuditService
}

func NewHandler(audit *service.AuditService) *Handler {
	return &Handler{audit: audit}
}

func (h *Handler) RecentTrades() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := cast.ToInt(c.Query("limit"))
		records, err := h.audit.RecentTrades(c.Request.Context(), limit)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, err.Error())
			return
		}
		response.List(c, records)
	}
}

func (h *Handler) TradeErrors() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := cast.ToInt(c.Query("limit"))
		records, err := h.audit.TradeErrors(c.Request.Context(), limit)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, err.Error())
			return
		}
		response.List(c, records)
	}
}

func (h *Handler) RecentWebhooks() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := cast.ToInt(c.Query("limit"))
		records, err := h.audit.RecentWebhooks(c.Request.Context(), limit)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, err.Error())
			return
		}
		response.List(c, records)
	}
}
