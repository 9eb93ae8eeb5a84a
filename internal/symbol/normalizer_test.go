package symbol

import (
	"testing"

	"tvrelay/conf"
)

func newTestTable() *Table {
	return NewTable([]conf.SymbolConfig{
		{Symbol: "BTCUSDT", DefaultQty: 0.001},
		{Symbol: "ETHUSDT", DefaultQty: 0.02},
	})
}

func TestNormalize(t *testing.T) {
	tb := newTestTable()

	cases := []struct {
		raw  string
		want string
	}{
		{"BINANCE:BTCUSDT", "BTCUSDT"},
		{"BTC/USDT", "BTCUSDT"},
		{"btcusdt", "BTCUSDT"},
		{" BTCUSDT ", "BTCUSDT"},
		{"COINBASE:BTC/USDT", "BTCUSDT"},
		{"ETHUSD", "ETHUSDT"},  // USD映射到白名单内的USDT对
		{"DOGEUSD", "DOGEUSD"}, // DOGEUSDT不在白名单，不做映射
		{"DOGEUSDT", "DOGEUSDT"},
		{"", ""},
	}
	for _, c := range cases {
		if got := tb.Normalize(c.raw); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	tb := newTestTable()
	for _, raw := range []string{"BINANCE:BTCUSDT", "BTC/USDT", "ethusd", "DOGEUSDT", "", "weird::input"} {
		once := tb.Normalize(raw)
		twice := tb.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q -> %q", raw, once, twice)
		}
	}
}

func TestAllowedAndDefaultQty(t *testing.T) {
	tb := newTestTable()

	if !tb.Allowed("BTCUSDT") {
		t.Error("BTCUSDT should be allowed")
	}
	if tb.Allowed("DOGEUSDT") {
		t.Error("DOGEUSDT should not be allowed")
	}
	if got := tb.DefaultQty("ETHUSDT"); got != 0.02 {
		t.Errorf("DefaultQty(ETHUSDT) = %v, want 0.02", got)
	}
	if got := tb.DefaultQty("DOGEUSDT"); got != 0 {
		t.Errorf("DefaultQty(DOGEUSDT) = %v, want 0", got)
	}
}
