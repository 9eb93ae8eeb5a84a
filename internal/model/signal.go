package model

// 来源于TradingView告警的webhook数据
//
//	{
//	  "action": "BUY",
//	  "symbol": "BINANCE:BTCUSDT",
//	  "qty": 0.001,
//	  "entry_price": 29500,
//	  "sl_price": 29000,
//	  "tp_price": 30500
//	}
//
// 实际解析是宽容式的（任意JSON对象），这里列出可识别字段：
// action、symbol、qty|quantity、entry_price、sl_price、tp_price，
// 以及诊断字段 ping（bool）、debug（只看存在与否）。

const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
)

// TradeSignal 一条通过校验、可以下单的交易信号
type TradeSignal struct {
	Action     string  `json:"action"` // BUY / SELL
	RawSymbol  string  `json:"raw_symbol"`
	Symbol     string  `json:"symbol"` // 规范化后的交易对
	Qty        float64 `json:"qty"`
	EntryPrice float64 `json:"entry_price"` // 以下三个价格仅用于记录，不参与下单
	SlPrice    float64 `json:"sl_price"`
	TpPrice    float64 `json:"tp_price"`
}
