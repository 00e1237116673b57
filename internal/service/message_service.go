package service

import (
	"classlink_backend/internal/model"
	"classlink_backend/internal/util"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type MessageStore interface {
	Create(message *model.Message) error
	FindByUserID(ctx context.Context, userID uint) ([]model.MessageWithNames, error)
	FindByID(ctx context.Context, id string) (*model.Message, error)
	MarkRead(ctx context.Context, id string, readAt time.Time) (*model.Message, error)
	Delete(ctx context.Context, id string) error
}

type RecipientLookup interface {
	FindByID(id uint) (*model.User, error)
}

// MessageService handles direct messages between users. Only the receiver
// may mark a message read; either party may delete it.
type MessageService struct {
	Store MessageStore
	Users RecipientLookup

	nowFunc func() time.Time
}

func NewMessageService(store MessageStore, users RecipientLookup) *MessageService {
	return &MessageService{
		Store:   store,
		Users:   users,
		nowFunc: time.Now,
	}
}

func (s *MessageService) Send(senderID, receiverID uint, subject, content string) (*model.Message, error) {
	if _, err := s.Users.FindByID(receiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	message := &model.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if subject != "" {
		message.Subject = &subject
	}
	if err := s.Store.Create(message); err != nil {
		return nil, err
	}
	return message, nil
}

func (s *MessageService) MessagesFor(ctx context.Context, userID uint) ([]model.MessageWithNames, error) {
	return s.Store.FindByUserID(ctx, userID)
}

func (s *MessageService) MarkRead(ctx context.Context, userID uint, id string) (*model.Message, error) {
	message, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if message.ReceiverID != userID {
		return nil, util.ErrPermissionDenied
	}
	if message.ReadAt != nil {
		return message, nil
	}
	return s.Store.MarkRead(ctx, id, s.nowFunc())
}

func (s *MessageService) Delete(ctx context.Context, userID uint, id string) error {
	message, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if message.SenderID != userID && message.ReceiverID != userID {
		return util.ErrPermissionDenied
	}
	return s.Store.Delete(ctx, id)
}
