package binance

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	json "github.com/goccy/go-json"

	"tvrelay/conf"
	"tvrelay/internal/exchange"
	"tvrelay/internal/model"
)

// Binance.US 现货REST客户端，只实现下单引擎需要的两个接口
//
// 响应分类是这个客户端的重点：Binance.US偶尔在订单已成交的情况下返回
// HTML 404或者code=0的错误体，这类情况必须报成 KindAmbiguous，由上层
// 走查单恢复，绝不能在这里重试。

const (
	orderPath = "/api/v3/order"
)

type Client struct {
	apiKey     string
	signer     *Signer
	baseURL    string
	recvWindow int
	httpc      *http.Client
}

func NewClient(cfg conf.BinanceConfig) *Client {
	return &Client{
		apiKey:     cfg.ApiKey,
		signer:     NewSigner(cfg.ApiSecret),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		recvWindow: cfg.RecvWindow,
		httpc: &http.Client{
			// context控制单次调用的截止时间，这里只兜底
			Timeout: 30 * time.Second,
		},
	}
}

// SubmitMarketOrder 提交市价单，newClientOrderId携带我们的关联id
func (c *Client) SubmitMarketOrder(ctx context.Context, symbol, side string, qty float64, clientOrderID string) (*model.ExchangeOrder, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("side", side)
	params.Set("type", "MARKET")
	params.Set("quantity", strconv.FormatFloat(qty, 'f', -1, 64))
	params.Set("newClientOrderId", clientOrderID)

	return c.doOrderRequest(ctx, http.MethodPost, params)
}

// LookupOrder 按客户端订单号查单，用于歧义响应后的恢复
func (c *Client) LookupOrder(ctx context.Context, symbol, clientOrderID string) (*model.ExchangeOrder, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("origClientOrderId", clientOrderID)

	return c.doOrderRequest(ctx, http.MethodGet, params)
}

func (c *Client) doOrderRequest(ctx context.Context, method string, params url.Values) (*model.ExchangeOrder, error) {
	params.Set("recvWindow", strconv.Itoa(c.recvWindow))
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))
	query := params.Encode()
	query += "&signature=" + c.signer.Sign(query)

	reqURL := c.baseURL + orderPath + "?" + query
	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return nil, &exchange.APIError{Kind: exchange.KindHardFailure, Message: err.Error(), Err: err}
	}
	req.Header.Set("X-MBX-APIKEY", c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		// 传输层失败：请求未必送达，按硬失败上报
		return nil, &exchange.APIError{Kind: exchange.KindHardFailure, Message: "request failed: " + err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &exchange.APIError{
			Kind:       exchange.KindAmbiguous,
			HTTPStatus: resp.StatusCode,
			Message:    "read response body: " + err.Error(),
			Err:        err,
		}
	}

	return classifyResponse(resp.StatusCode, body)
}

// classifyResponse 把HTTP响应翻译成订单或者带分类的错误
func classifyResponse(status int, body []byte) (*model.ExchangeOrder, error) {
	// 404常见于网关直接吐HTML的情况，订单可能已成交
	if status == http.StatusNotFound {
		return nil, &exchange.APIError{
			Kind:       exchange.KindAmbiguous,
			HTTPStatus: status,
			Message:    "404 Not found",
		}
	}

	if status < 200 || status > 299 {
		var eb apiErrorBody
		if err := json.Unmarshal(body, &eb); err != nil {
			// 非JSON错误体，无法判定订单是否成交
			return nil, &exchange.APIError{
				Kind:       exchange.KindAmbiguous,
				HTTPStatus: status,
				Message:    "Invalid JSON error message: " + truncate(string(body), 200),
			}
		}
		if eb.Code == 0 {
			// code=0的空壳错误，同样视为歧义
			return nil, &exchange.APIError{
				Kind:       exchange.KindAmbiguous,
				HTTPStatus: status,
				VenueCode:  eb.Code,
				Message:    fmt.Sprintf("code=0 msg=%s", eb.Msg),
			}
		}
		return nil, &exchange.APIError{
			Kind:       exchange.KindHardFailure,
			HTTPStatus: status,
			VenueCode:  eb.Code,
			Message:    eb.Msg,
		}
	}

	var or orderResponse
	if err := json.Unmarshal(body, &or); err != nil || or.Symbol == "" {
		// 2xx但解析不出订单，还是歧义
		return nil, &exchange.APIError{
			Kind:       exchange.KindAmbiguous,
			HTTPStatus: status,
			Message:    "Invalid JSON error message: unparseable success body",
			Err:        err,
		}
	}

	clientID := or.ClientOrderID
	if clientID == "" {
		clientID = or.OrigClientOrderID
	}
	return &model.ExchangeOrder{
		OrderID:       or.OrderID,
		ClientOrderID: clientID,
		Symbol:        or.Symbol,
		Side:          or.Side,
		Type:          or.Type,
		Status:        or.Status,
		ExecutedQty:   or.ExecutedQty,
		Price:         or.Price,
		TransactTime:  or.TransactTime,
	}, nil
}

// truncate 截断到n字节以内，回退到rune边界避免切坏多字节字符
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
