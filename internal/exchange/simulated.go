package exchange

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"tvrelay/internal/model"
)

// 模拟撮合：本地联调和simulated模式使用，所有市价单立即全部成交

type SimulatedExecutor struct {
	mu     sync.Mutex
	orders map[string]*model.ExchangeOrder // 按clientOrderID存储
	seq    int64
}

func NewSimulatedExecutor() *SimulatedExecutor {
	return &SimulatedExecutor{
		orders: make(map[string]*model.ExchangeOrder),
	}
}

func (s *SimulatedExecutor) SubmitMarketOrder(ctx context.Context, symbol, side string, qty float64, clientOrderID string) (*model.ExchangeOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	order := &model.ExchangeOrder{
		OrderID:       s.seq,
		ClientOrderID: clientOrderID,
		Symbol:        symbol,
		Side:          side,
		Type:          "MARKET",
		Status:        "FILLED",
		ExecutedQty:   strconv.FormatFloat(qty, 'f', -1, 64),
		TransactTime:  time.Now().UnixMilli(),
	}
	s.orders[clientOrderID] = order
	return order, nil
}

func (s *SimulatedExecutor) LookupOrder(ctx context.Context, symbol, clientOrderID string) (*model.ExchangeOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[clientOrderID]
	if !ok {
		return nil, &APIError{
			Kind:       KindHardFailure,
			HTTPStatus: http.StatusBadRequest,
			VenueCode:  -2013, // Binance: Order does not exist
			Message:    "Order does not exist.",
		}
	}
	return order, nil
}
