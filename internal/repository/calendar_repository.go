package repository

import (
	"classlink_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type CalendarRepository struct {
	DB *gorm.DB
}

func NewCalendarRepository(db *gorm.DB) *CalendarRepository {
	return &CalendarRepository{DB: db}
}

func (r *CalendarRepository) Create(event *model.CalendarEvent) error {
	return r.DB.Create(event).Error
}

func (r *CalendarRepository) FindByUserID(ctx context.Context, userID uint) ([]model.CalendarEvent, error) {
	var events []model.CalendarEvent
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date ASC").
		Find(&events).Error
	return events, err
}

func (r *CalendarRepository) FindByID(ctx context.Context, id string) (*model.CalendarEvent, error) {
	var event model.CalendarEvent
	err := r.DB.WithContext(ctx).First(&event, "id = ?", id).Error
	return &event, err
}

func (r *CalendarRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.CalendarEvent, error) {
	if err := r.DB.WithContext(ctx).Model(&model.CalendarEvent{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *CalendarRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Delete(&model.CalendarEvent{}, "id = ?", id).Error
}
