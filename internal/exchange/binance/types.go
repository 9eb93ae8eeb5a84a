package binance

// Binance REST错误响应体，形如 {"code":-1121,"msg":"Invalid symbol."}
type apiErrorBody struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// /api/v3/order 的响应（下单和查单共用字段）
type orderResponse struct {
	Symbol              string `json:"symbol"`
	OrderID             int64  `json:"orderId"`
	ClientOrderID       string `json:"clientOrderId"`
	OrigClientOrderID   string `json:"origClientOrderId"`
	TransactTime        int64  `json:"transactTime"`
	Price               string `json:"price"`
	OrigQty             string `json:"origQty"`
	ExecutedQty         string `json:"executedQty"`
	CummulativeQuoteQty string `json:"cummulativeQuoteQty"`
	Status              string `json:"status"`
	Type                string `json:"type"`
	Side                string `json:"side"`
}
