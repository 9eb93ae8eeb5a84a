package exchange

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tvrelay/internal/model"
)

// Executor 下单引擎对交易所的全部依赖
// 只有两个操作：提交市价单、按client_id查单（恢复路径用）
type Executor interface {
	// SubmitMarketOrder 提交一笔市价单，clientOrderID作为交易所可见的客户端订单号
	SubmitMarketOrder(ctx context.Context, symbol, side string, qty float64, clientOrderID string) (*model.ExchangeOrder, error)
	// LookupOrder 按客户端订单号查单
	LookupOrder(ctx context.Context, symbol, clientOrderID string) (*model.ExchangeOrder, error)
}

// ErrorKind 交易所错误的分类
//
// Binance.US有个已知怪癖：市价单实际成交了，HTTP响应却可能是HTML、404
// 或者code=0的空壳错误。这类"响应歧义"不能当失败处理（单子可能已成交，
// 重试会重复下单），也不能当成功处理（单子也可能真没成），必须走查单恢复。
type ErrorKind int

const (
	// KindHardFailure 交易所明确拒绝，订单确定没有成交
	KindHardFailure ErrorKind = iota
	// KindAmbiguous 响应无法解析，订单可能已经成交
	KindAmbiguous
)

// APIError 交易所调用错误，带结构化分类
type APIError struct {
	Kind       ErrorKind
	HTTPStatus int    // 0表示没拿到HTTP响应
	VenueCode  int    // 交易所业务错误码
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.HTTPStatus > 0 {
		return fmt.Sprintf("exchange: %s (http=%d code=%d)", e.Message, e.HTTPStatus, e.VenueCode)
	}
	return fmt.Sprintf("exchange: %s", e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// 原实现靠错误文本识别歧义响应，保留这组子串做兜底
var ambiguousSignatures = []string{
	"Invalid JSON error message",
	"404 Not found",
	"code=0",
}

// IsAmbiguous 判断错误是否属于"响应歧义、订单可能已成交"
// 优先看结构化分类，拿不到APIError时退回子串启发式
func IsAmbiguous(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind == KindAmbiguous
	}
	msg := err.Error()
	for _, sig := range ambiguousSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}
