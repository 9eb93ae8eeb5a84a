package model

import "time"

// ExchangeOrder 交易所返回的订单表示
// 下单成功或者按client_id查回时由交易所客户端填充
type ExchangeOrder struct {
	OrderID       int64  `json:"orderId"`
	ClientOrderID string `json:"clientOrderId"`
	Symbol        string `json:"symbol"`
	Side          string `json:"side"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	ExecutedQty   string `json:"executedQty"`
	Price         string `json:"price"`
	TransactTime  int64  `json:"transactTime"`
}

// OrderResult 一次下单的最终结果，含恢复路径的备注
// 在同一个请求内构造并最终确定，不跨请求存在
type OrderResult struct {
	Ok       bool           `json:"ok"`
	Order    *ExchangeOrder `json:"order,omitempty"`
	ClientID string         `json:"client_id"`
	Note     string         `json:"note,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// TradeRecord 每次调用下单引擎都会追加一条，无论成功失败
type TradeRecord struct {
	ID         uint      `gorm:"column:id;primaryKey" json:"id"`
	Action     string    `gorm:"column:action" json:"action"`
	Symbol     string    `gorm:"column:symbol" json:"symbol"`
	Qty        float64   `gorm:"column:qty" json:"qty"`
	EntryPrice float64   `gorm:"column:entry_price" json:"entry_price"`
	SlPrice    float64   `gorm:"column:sl_price" json:"sl_price"`
	TpPrice    float64   `gorm:"column:tp_price" json:"tp_price"`
	Timestamp  time.Time `gorm:"column:timestamp" json:"timestamp"`
	Status     string    `gorm:"column:status" json:"status"` // success / error
	Error      string    `gorm:"column:error" json:"error"`
	ClientID   string    `gorm:"column:client_id" json:"client_id"` // 关联交易所侧订单的相关id
	Note       string    `gorm:"column:note" json:"note"`
}

func (TradeRecord) TableName() string {
	return "trades"
}

// WebhookRecord 每次webhook投递都会追加一条，用于离线审计
type WebhookRecord struct {
	ID         uint      `gorm:"column:id;primaryKey" json:"id"`
	Ts         time.Time `gorm:"column:ts" json:"ts"`
	Path       string    `gorm:"column:path" json:"path"`
	Headers    string    `gorm:"column:headers;type:text" json:"headers"`
	Raw        string    `gorm:"column:raw;type:text" json:"raw"`
	Json       string    `gorm:"column:json;type:text" json:"json"`
	StatusCode int       `gorm:"column:status_code" json:"status_code"`
}

func (WebhookRecord) TableName() string {
	return "webhook_log"
}
