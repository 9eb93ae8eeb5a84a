package dao

import (
	"context"

	"gorm.io/gorm"

	"tvrelay/internal/model"
)

// webhook投递审计表，每次投递一条，只追加

type WebhookDao struct {
	db *gorm.DB
}

func NewWebhookDao(db *gorm.DB) *WebhookDao {
	return &WebhookDao{db: db}
}

func (d *WebhookDao) Insert(ctx context.Context, record *model.WebhookRecord) error {
	return d.db.WithContext(ctx).Create(record).Error
}

func (d *WebhookDao) ListRecent(ctx context.Context, limit int) (records []model.WebhookRecord, err error) {
	err = d.db.WithContext(ctx).Model(&model.WebhookRecord{}).
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	return
}
