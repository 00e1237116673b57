package repository

import (
	"classlink_backend/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type MessageRepository struct {
	DB *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

func (r *MessageRepository) Create(message *model.Message) error {
	return r.DB.Create(message).Error
}

// FindByUserID lists every message the user sent or received, annotated with
// both parties' display names, newest first.
func (r *MessageRepository) FindByUserID(ctx context.Context, userID uint) ([]model.MessageWithNames, error) {
	var rows []model.MessageWithNames
	err := r.DB.WithContext(ctx).
		Table("messages").
		Select("messages.*, senders.display_name AS sender_name, receivers.display_name AS receiver_name").
		Joins("JOIN users AS senders ON senders.id = messages.sender_id").
		Joins("JOIN users AS receivers ON receivers.id = messages.receiver_id").
		Where("messages.sender_id = ? OR messages.receiver_id = ?", userID, userID).
		Order("messages.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *MessageRepository) FindByID(ctx context.Context, id string) (*model.Message, error) {
	var message model.Message
	err := r.DB.WithContext(ctx).First(&message, "id = ?", id).Error
	return &message, err
}

func (r *MessageRepository) MarkRead(ctx context.Context, id string, readAt time.Time) (*model.Message, error) {
	if err := r.DB.WithContext(ctx).Model(&model.Message{}).Where("id = ?", id).Update("read_at", readAt).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *MessageRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Delete(&model.Message{}, "id = ?", id).Error
}
