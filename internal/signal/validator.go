package signal

import (
	"fmt"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	"tvrelay/internal/model"
	"tvrelay/internal/symbol"
)

// 信号校验：把任意webhook payload分类为 可下单 / 忽略 / 拒绝
//
// TradingView对非2xx响应会在告警日志里记为投递失败，所以所有"不是交易
// 信号"的情况（ping、debug、没有BUY/SELL）都按200确认，只有真正的参数
// 错误（白名单外的symbol、非法qty）才返回400。

type OutcomeKind int

const (
	// 确认收到但不下单，返回200
	OutcomeIgnorable OutcomeKind = iota
	// 参数错误，返回400，不会到达交易所
	OutcomeRejected
	// 合法交易信号，交给下单引擎
	OutcomeActionable
)

// Outcome 一次分类的结果
type Outcome struct {
	Kind       OutcomeKind
	StatusCode int
	Note       string             // Ignorable时给调用方的说明
	Reason     string             // Rejected时的原因
	Signal     *model.TradeSignal // Actionable时有效
}

func ignorable(note string) Outcome {
	return Outcome{Kind: OutcomeIgnorable, StatusCode: http.StatusOK, Note: note}
}

func rejected(reason string) Outcome {
	return Outcome{Kind: OutcomeRejected, StatusCode: http.StatusBadRequest, Reason: reason}
}

// ParsePayload 宽容解析请求体
// 非JSON、非对象、空body一律返回空map，绝不报错
func ParsePayload(raw []byte) map[string]interface{} {
	body := strings.TrimSpace(string(raw))
	if body == "" || !strings.HasPrefix(body, "{") {
		return map[string]interface{}{}
	}
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(body), &data); err != nil || data == nil {
		return map[string]interface{}{}
	}
	return data
}

type Validator struct {
	table *symbol.Table
}

func NewValidator(table *symbol.Table) *Validator {
	return &Validator{table: table}
}

// Classify 按顺序检查payload，第一个命中的规则生效
func (v *Validator) Classify(payload map[string]interface{}) Outcome {
	// 空payload：确认但忽略
	if len(payload) == 0 {
		return ignorable("non-json or empty; acked")
	}

	// 连通性探测
	if b, ok := payload["ping"].(bool); ok && b {
		return ignorable("pong")
	}
	if _, ok := payload["debug"]; ok {
		return ignorable("debug received")
	}

	action := strings.ToUpper(cast.ToString(payload["action"]))
	if action != model.ActionBuy && action != model.ActionSell {
		return ignorable("ignored (no BUY/SELL)")
	}

	rawSymbol := cast.ToString(payload["symbol"])
	sym := v.table.Normalize(rawSymbol)
	if !v.table.Allowed(sym) {
		return rejected(fmt.Sprintf("Unsupported symbol '%s' after normalization -> '%s'", rawSymbol, sym))
	}

	// qty 或 quantity，都没有就用该交易对的默认数量
	qtyRaw, ok := payload["qty"]
	if !ok {
		qtyRaw, ok = payload["quantity"]
	}
	var qty float64
	if !ok || qtyRaw == nil {
		qty = v.table.DefaultQty(sym)
	} else {
		var err error
		qty, err = cast.ToFloat64E(qtyRaw)
		if err != nil {
			return rejected("Invalid qty")
		}
	}
	if qty <= 0 {
		return rejected("Invalid qty")
	}

	// 价格字段只透传记录，解析失败按0处理
	sig := &model.TradeSignal{
		Action:     action,
		RawSymbol:  rawSymbol,
		Symbol:     sym,
		Qty:        qty,
		EntryPrice: cast.ToFloat64(payload["entry_price"]),
		SlPrice:    cast.ToFloat64(payload["sl_price"]),
		TpPrice:    cast.ToFloat64(payload["tp_price"]),
	}
	return Outcome{Kind: OutcomeActionable, StatusCode: http.StatusOK, Signal: sig}
}
