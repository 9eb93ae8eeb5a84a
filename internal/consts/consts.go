package consts

const (
	// RequestId 请求id名称
	RequestId = "request_id"

	DateLayout   = "2006-01-02"
	TimeLayout   = "2006-01-02 15:04:05"
	TimeLayoutMs = "2006-01-02 15:04:05.000"
)

// 交易记录的最终状态
const (
	TradeStatusSuccess = "success"
	TradeStatusError   = "error"
)

// 下单恢复说明
const (
	NoteRecovered = "Recovered after parse error"
)
