package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tvrelay/internal/consts"
	"tvrelay/internal/exchange"
	"tvrelay/internal/model"
	"tvrelay/pkg/logger"
)

// 下单引擎：一条信号换一笔市价单，外加歧义响应的恢复协议
//
// 核心约束：
//  1. 每次调用只向交易所提交一次，绝不自动重试提交（市价单不幂等，
//     重试就是重复下单）
//  2. 提交报歧义错误时，用client_id做一次查单恢复：查到了说明单子
//     其实成交了，按成功处理；查不到才算失败，client_id保留给人工对账
//  3. 无论结果如何，每次调用都追加一条交易审计记录

// TradeStore 交易审计记录的写入口
type TradeStore interface {
	Insert(ctx context.Context, record *model.TradeRecord) error
}

type OrderService struct {
	ex      exchange.Executor
	trades  TradeStore
	timeout time.Duration

	// 同一symbol的提交串行化，避免告警重复投递导致的并发双开
	mu       sync.Mutex
	symLocks map[string]*sync.Mutex
}

func NewOrderService(ex exchange.Executor, trades TradeStore, timeout time.Duration) *OrderService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OrderService{
		ex:       ex,
		trades:   trades,
		timeout:  timeout,
		symLocks: make(map[string]*sync.Mutex),
	}
}

func (s *OrderService) symbolLock(symbol string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.symLocks[symbol]
	if !ok {
		l = &sync.Mutex{}
		s.symLocks[symbol] = l
	}
	return l
}

// newClientID 生成交易所可见的客户端订单号：时间前缀+随机后缀
// 格式和原有对账流程保持一致：tv_<毫秒时间戳>_<8位随机hex>
func newClientID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("tv_%d_%s", time.Now().UnixMilli(), suffix)
}

// Place 执行一条交易信号，同步完成，返回最终结果
func (s *OrderService) Place(ctx context.Context, sig *model.TradeSignal) *model.OrderResult {
	lock := s.symbolLock(sig.Symbol)
	lock.Lock()
	defer lock.Unlock()

	result := s.placeWithFallback(ctx, sig)

	// 审计写失败不允许影响下单结果，只记服务端日志
	if err := s.recordTrade(ctx, sig, result); err != nil {
		logger.Error("trade audit write failed",
			logger.Pair("client_id", result.ClientID),
			logger.Pair("symbol", sig.Symbol),
			logger.Pair("err", err.Error()))
	}
	return result
}

func (s *OrderService) placeWithFallback(ctx context.Context, sig *model.TradeSignal) *model.OrderResult {
	clientID := newClientID()

	sctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	order, err := s.ex.SubmitMarketOrder(sctx, sig.Symbol, sig.Action, sig.Qty, clientID)
	if err == nil {
		return &model.OrderResult{Ok: true, Order: order, ClientID: clientID}
	}

	logger.Error("Primary order error",
		logger.Pair("client_id", clientID),
		logger.Pair("symbol", sig.Symbol),
		logger.Pair("err", err.Error()))

	if !exchange.IsAmbiguous(err) {
		return &model.OrderResult{Ok: false, Error: err.Error(), ClientID: clientID}
	}

	// 歧义响应：订单可能已成交，查一次确认，不重试提交
	lctx, lcancel := context.WithTimeout(ctx, s.timeout)
	defer lcancel()

	status, lerr := s.ex.LookupOrder(lctx, sig.Symbol, clientID)
	if lerr != nil {
		return &model.OrderResult{
			Ok:       false,
			Error:    fmt.Sprintf("Fallback lookup failed: %v", lerr),
			ClientID: clientID,
		}
	}
	// 查到了，说明尽管响应坏了单子确实成交
	return &model.OrderResult{
		Ok:       true,
		Order:    status,
		ClientID: clientID,
		Note:     consts.NoteRecovered,
	}
}

func (s *OrderService) recordTrade(ctx context.Context, sig *model.TradeSignal, res *model.OrderResult) error {
	status := consts.TradeStatusSuccess
	if !res.Ok {
		status = consts.TradeStatusError
	}
	return s.trades.Insert(ctx, &model.TradeRecord{
		Action:     sig.Action,
		Symbol:     sig.Symbol,
		Qty:        sig.Qty,
		EntryPrice: sig.EntryPrice,
		SlPrice:    sig.SlPrice,
		TpPrice:    sig.TpPrice,
		Timestamp:  time.Now().UTC(),
		Status:     status,
		Error:      res.Error,
		ClientID:   res.ClientID,
		Note:       res.Note,
	})
}
