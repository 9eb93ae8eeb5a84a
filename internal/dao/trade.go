package dao

import (
	"context"

	"gorm.io/gorm"

	"tvrelay/internal/consts"
	"tvrelay/internal/model"
)

// 交易审计表，只追加不修改

type TradeDao struct {
	db *gorm.DB
}

func NewTradeDao(db *gorm.DB) *TradeDao {
	return &TradeDao{db: db}
}

// Insert 追加一条交易记录
func (d *TradeDao) Insert(ctx context.Context, record *model.TradeRecord) error {
	return d.db.WithContext(ctx).Create(record).Error
}

// ListRecent 按时间倒序取最近limit条
func (d *TradeDao) ListRecent(ctx context.Context, limit int) (records []model.TradeRecord, err error) {
	err = d.db.WithContext(ctx).Model(&model.TradeRecord{}).
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	return
}

// ListErrors 只取失败的记录，用于人工对账
func (d *TradeDao) ListErrors(ctx context.Context, limit int) (records []model.TradeRecord, err error) {
	err = d.db.WithContext(ctx).Model(&model.TradeRecord{}).
		Where("status = ?", consts.TradeStatusError).
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	return
}
