package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"tvrelay/internal/model"
	"tvrelay/internal/service"
	"tvrelay/internal/signal"
	"tvrelay/pkg/logger"
	"tvrelay/pkg/response"
)

// TradingView Webhook 的接收器
//
// 处理顺序：先把headers和原始body抓下来（无论解析成败都要留审计），
// 宽容解析 → 分类 → 可下单的交给下单引擎 → 写webhook审计 → 按契约应答

type WebhookStore interface {
	Insert(ctx context.Context, record *model.WebhookRecord) error
}

type Handler struct {
	validator *signal.Validator
	orders    *service.OrderService
	hooks     WebhookStore
}

func NewHandler(v *signal.Validator, orders *service.OrderService, hooks WebhookStore) *Handler {
	return &Handler{
		validator: v,
		orders:    orders,
		hooks:     hooks,
	}
}

// HandleWebhook 接收POST请求并解析为交易信号
// 同一个处理器挂在 /webhook 和 /tv 两个路径上
func (h *Handler) HandleWebhook() gin.HandlerFunc {
	return func(c *gin.Context) {
		headers := fmt.Sprintf("%v", c.Request.Header)
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			raw = []byte{}
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(raw))

		payload := signal.ParsePayload(raw)
		out := h.validator.Classify(payload)

		switch out.Kind {
		case signal.OutcomeIgnorable:
			h.logHit(c, headers, raw, payload, out.Note, http.StatusOK)
			response.Ack(c, out.Note)

		case signal.OutcomeRejected:
			logger.Error("webhook rejected",
				logger.Pair("reason", out.Reason),
				logger.Pair("payload", string(raw)))
			h.logHit(c, headers, raw, payload, "", http.StatusBadRequest)
			response.Error(c, http.StatusBadRequest, out.Reason)

		case signal.OutcomeActionable:
			sig := out.Signal
			res := h.orders.Place(c.Request.Context(), sig)
			if res.Ok {
				logger.Info("order ok",
					logger.Pair("action", sig.Action),
					logger.Pair("symbol", sig.Symbol),
					logger.Pair("qty", sig.Qty),
					logger.Pair("client_id", res.ClientID),
					logger.Pair("note", res.Note))
				h.logHit(c, headers, raw, payload, "", http.StatusOK)
				response.OrderPlaced(c, res.ClientID, res.Order)
			} else {
				logger.Error("order failed",
					logger.Pair("symbol", sig.Symbol),
					logger.Pair("client_id", res.ClientID),
					logger.Pair("err", res.Error))
				h.logHit(c, headers, raw, payload, "", http.StatusBadGateway)
				response.Error(c, http.StatusBadGateway, res.Error)
			}
		}
	}
}

// logHit 追加一条webhook审计，写失败只记日志，不影响响应
func (h *Handler) logHit(c *gin.Context, headers string, raw []byte, payload map[string]interface{}, note string, status int) {
	var parsed string
	if len(payload) == 0 && note != "" {
		parsed = fmt.Sprintf(`{"note":%q}`, note)
	} else if data, err := json.Marshal(payload); err == nil {
		parsed = string(data)
	}

	if err := h.hooks.Insert(c.Request.Context(), &model.WebhookRecord{
		Ts:         time.Now().UTC(),
		Path:       c.Request.URL.Path,
		Headers:    headers,
		Raw:        string(raw),
		Json:       parsed,
		StatusCode: status,
	}); err != nil {
		logger.Error("webhook audit write failed",
			logger.Pair("path", c.Request.URL.Path),
			logger.Pair("err", err.Error()))
	}
}
