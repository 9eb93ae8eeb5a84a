package service

import (
	"context"

	"tvrelay/internal/dao"
	"tvrelay/internal/model"
)

// 审计查询，给查看接口用

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type AuditService struct {
	trades *dao.TradeDao
	hooks  *dao.WebhookDao
}

func NewAuditService(trades *dao.TradeDao, hooks *dao.WebhookDao) *AuditService {
	return &AuditService{trades: trades, hooks: hooks}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

func (s *AuditService) RecentTrades(ctx context.Context, limit int) ([]model.TradeRecord, error) {
	return s.trades.ListRecent(ctx, clampLimit(limit))
}

func (s *AuditService) TradeErrors(ctx context.Context, limit int) ([]model.TradeRecord, error) {
	return s.trades.ListErrors(ctx, clampLimit(limit))
}

func (s *AuditService) RecentWebhooks(ctx context.Context, limit int) ([]model.WebhookRecord, error) {
	return s.hooks.ListRecent(ctx, clampLimit(limit))
}
