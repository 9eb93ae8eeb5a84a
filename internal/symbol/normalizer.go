package symbol

import (
	"strings"

	"tvrelay/conf"
)

// 交易对白名单与symbol规范化
//
// TradingView发来的symbol格式五花八门：'BINANCE:BTCUSDT'、'BTC/USDT'、
// 'btcusdt'都有，这里统一转成交易所可识别的形式。

// Table 白名单表，启动时从配置构建，之后只读
type Table struct {
	defaultQty map[string]float64
}

func NewTable(symbols []conf.SymbolConfig) *Table {
	m := make(map[string]float64, len(symbols))
	for _, s := range symbols {
		m[strings.ToUpper(s.Symbol)] = s.DefaultQty
	}
	return &Table{defaultQty: m}
}

// Normalize 把外部symbol转成交易所格式，尽力而为，不报错
// 不在白名单内时也返回转换结果，是否拒绝由调用方判断
func (t *Table) Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.ToUpper(strings.TrimSpace(raw))
	// 'BINANCE:BTCUSDT' 取冒号后的部分
	if i := strings.LastIndex(s, ":"); i >= 0 {
		s = strings.TrimSpace(s[i+1:])
	}
	s = strings.ReplaceAll(s, "/", "")
	// Binance.US 没有USD现货对，尝试映射到USDT
	if !t.Allowed(s) && strings.HasSuffix(s, "USD") {
		maybe := s[:len(s)-3] + "USDT"
		if t.Allowed(maybe) {
			s = maybe
		}
	}
	return s
}

// Allowed 是否在白名单内
func (t *Table) Allowed(sym string) bool {
	_, ok := t.defaultQty[sym]
	return ok
}

// DefaultQty 返回该交易对的默认下单数量，不在表内返回0
func (t *Table) DefaultQty(sym string) float64 {
	return t.defaultQty[sym]
}
