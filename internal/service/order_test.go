package service

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"tvrelay/internal/consts"
	"tvrelay/internal/exchange"
	"tvrelay/internal/model"
)

// 脚本化的假交易所，逐个用例控制提交和查单的行为
type fakeExecutor struct {
	mu          sync.Mutex
	submitErr   error
	lookupErr   error
	submitCalls []string // 每次提交记录clientOrderID
	lookupCalls []string
}

func (f *fakeExecutor) SubmitMarketOrder(ctx context.Context, symbol, side string, qty float64, clientOrderID string) (*model.ExchangeOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitCalls = append(f.submitCalls, clientOrderID)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &model.ExchangeOrder{
		OrderID:       1,
		ClientOrderID: clientOrderID,
		Symbol:        symbol,
		Side:          side,
		Status:        "FILLED",
	}, nil
}

func (f *fakeExecutor) LookupOrder(ctx context.Context, symbol, clientOrderID string) (*model.ExchangeOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookupCalls = append(f.lookupCalls, clientOrderID)
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return &model.ExchangeOrder{
		OrderID:       1,
		ClientOrderID: clientOrderID,
		Symbol:        symbol,
		Status:        "FILLED",
	}, nil
}

type memTradeStore struct {
	mu      sync.Mutex
	records []model.TradeRecord
	err     error
}

func (m *memTradeStore) Insert(ctx context.Context, record *model.TradeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, *record)
	return nil
}

func testSignal() *model.TradeSignal {
	return &model.TradeSignal{
		Action: "BUY", RawSymbol: "BTC/USDT", Symbol: "BTCUSDT",
		Qty: 0.001, EntryPrice: 29500,
	}
}

func ambiguousErr() error {
	return &exchange.APIError{
		Kind:       exchange.KindAmbiguous,
		HTTPStatus: http.StatusNotFound,
		Message:    "404 Not found",
	}
}

func TestPlaceSuccess(t *testing.T) {
	ex := &fakeExecutor{}
	store := &memTradeStore{}
	svc := NewOrderService(ex, store, time.Second)

	res := svc.Place(context.Background(), testSignal())
	if !res.Ok {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.Order == nil || res.Order.Status != "FILLED" {
		t.Errorf("order = %+v", res.Order)
	}
	if res.Note != "" {
		t.Errorf("note = %q, want empty", res.Note)
	}
	if len(ex.submitCalls) != 1 || len(ex.lookupCalls) != 0 {
		t.Errorf("submit=%d lookup=%d, want 1/0", len(ex.submitCalls), len(ex.lookupCalls))
	}
}

func TestPlaceClientIDFormat(t *testing.T) {
	ex := &fakeExecutor{}
	svc := NewOrderService(ex, &memTradeStore{}, time.Second)

	res := svc.Place(context.Background(), testSignal())
	if !strings.HasPrefix(res.ClientID, "tv_") {
		t.Fatalf("client id %q missing tv_ prefix", res.ClientID)
	}
	parts := strings.Split(res.ClientID, "_")
	if len(parts) != 3 || len(parts[2]) != 8 {
		t.Errorf("client id %q not in tv_<ms>_<hex8> form", res.ClientID)
	}

	res2 := svc.Place(context.Background(), testSignal())
	if res2.ClientID == res.ClientID {
		t.Error("two placements produced the same client id")
	}
}

func TestPlaceAmbiguousRecovered(t *testing.T) {
	ex := &fakeExecutor{submitErr: ambiguousErr()}
	store := &memTradeStore{}
	svc := NewOrderService(ex, store, time.Second)

	res := svc.Place(context.Background(), testSignal())
	if !res.Ok {
		t.Fatalf("expected recovered success, got error %q", res.Error)
	}
	if res.Note != consts.NoteRecovered {
		t.Errorf("note = %q, want %q", res.Note, consts.NoteRecovered)
	}
	// 只允许一次提交和一次恢复查单
	if len(ex.submitCalls) != 1 {
		t.Errorf("submit called %d times, want 1 (no retry on ambiguous)", len(ex.submitCalls))
	}
	if len(ex.lookupCalls) != 1 {
		t.Errorf("lookup called %d times, want exactly 1", len(ex.lookupCalls))
	}
	if ex.lookupCalls[0] != ex.submitCalls[0] {
		t.Error("lookup used a different client id than the submission")
	}
}

func TestPlaceAmbiguousLookupFailed(t *testing.T) {
	ex := &fakeExecutor{
		submitErr: ambiguousErr(),
		lookupErr: &exchange.APIError{Kind: exchange.KindHardFailure, VenueCode: -2013, Message: "Order does not exist."},
	}
	store := &memTradeStore{}
	svc := NewOrderService(ex, store, time.Second)

	res := svc.Place(context.Background(), testSignal())
	if res.Ok {
		t.Fatal("expected failure")
	}
	if !strings.Contains(res.Error, "Fallback lookup failed") {
		t.Errorf("error %q missing fallback marker", res.Error)
	}
	if res.ClientID == "" {
		t.Error("client id must be preserved for manual reconciliation")
	}
	// 审计记录里要能找到client_id
	if len(store.records) != 1 || store.records[0].ClientID != res.ClientID {
		t.Errorf("audit record = %+v", store.records)
	}
}

func TestPlaceHardFailure(t *testing.T) {
	ex := &fakeExecutor{
		submitErr: &exchange.APIError{Kind: exchange.KindHardFailure, VenueCode: -2010, Message: "Account has insufficient balance for requested action."},
	}
	svc := NewOrderService(ex, &memTradeStore{}, time.Second)

	res := svc.Place(context.Background(), testSignal())
	if res.Ok {
		t.Fatal("expected failure")
	}
	if !strings.Contains(res.Error, "insufficient balance") {
		t.Errorf("error = %q", res.Error)
	}
	// 硬失败不走恢复查单
	if len(ex.lookupCalls) != 0 {
		t.Errorf("lookup called %d times on hard failure, want 0", len(ex.lookupCalls))
	}
}

func TestPlaceAlwaysWritesOneAuditRecord(t *testing.T) {
	cases := []struct {
		name string
		ex   *fakeExecutor
		ok   bool
	}{
		{"success", &fakeExecutor{}, true},
		{"recovered", &fakeExecutor{submitErr: ambiguousErr()}, true},
		{"lookup failed", &fakeExecutor{submitErr: ambiguousErr(), lookupErr: ambiguousErr()}, false},
		{"hard failure", &fakeExecutor{submitErr: &exchange.APIError{Kind: exchange.KindHardFailure, Message: "rejected"}}, false},
	}
	for _, c := range cases {
		store := &memTradeStore{}
		svc := NewOrderService(c.ex, store, time.Second)
		res := svc.Place(context.Background(), testSignal())
		if res.Ok != c.ok {
			t.Errorf("%s: ok = %v, want %v", c.name, res.Ok, c.ok)
		}
		if len(store.records) != 1 {
			t.Fatalf("%s: %d audit records, want exactly 1", c.name, len(store.records))
		}
		rec := store.records[0]
		wantStatus := consts.TradeStatusSuccess
		if !c.ok {
			wantStatus = consts.TradeStatusError
		}
		if rec.Status != wantStatus {
			t.Errorf("%s: record status = %q, want %q", c.name, rec.Status, wantStatus)
		}
		if rec.Symbol != "BTCUSDT" || rec.Action != "BUY" || rec.Qty != 0.001 {
			t.Errorf("%s: record = %+v", c.name, rec)
		}
	}
}

func TestPlaceAuditFailureDoesNotMaskResult(t *testing.T) {
	store := &memTradeStore{err: context.DeadlineExceeded}
	svc := NewOrderService(&fakeExecutor{}, store, time.Second)

	res := svc.Place(context.Background(), testSignal())
	if !res.Ok {
		t.Errorf("audit write failure changed the order result: %q", res.Error)
	}
}
