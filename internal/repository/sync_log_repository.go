package repository

import (
	"classlink_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type SyncLogRepository struct {
	DB *gorm.DB
}

func NewSyncLogRepository(db *gorm.DB) *SyncLogRepository {
	return &SyncLogRepository{DB: db}
}

func (r *SyncLogRepository) Create(log *model.SyncLog) error {
	return r.DB.Create(log).Error
}

func (r *SyncLogRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.SyncLog, error) {
	if err := r.DB.WithContext(ctx).Model(&model.SyncLog{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return nil, err
	}

	var log model.SyncLog
	err := r.DB.WithContext(ctx).First(&log, "id = ?", id).Error
	return &log, err
}

func (r *SyncLogRepository) FindByUserID(ctx context.Context, userID uint, limit int) ([]model.SyncLog, error) {
	var logs []model.SyncLog
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
