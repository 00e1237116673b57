package service

import (
	"classlink_backend/internal/model"
	"classlink_backend/internal/util"
	"context"
	"time"
)

type CalendarStore interface {
	Create(event *model.CalendarEvent) error
	FindByUserID(ctx context.Context, userID uint) ([]model.CalendarEvent, error)
	FindByID(ctx context.Context, id string) (*model.CalendarEvent, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*model.CalendarEvent, error)
	Delete(ctx context.Context, id string) error
}

// CalendarService keeps per-user study events. Events are private: every
// read or write is checked against the owning user.
type CalendarService struct {
	Store CalendarStore
}

func NewCalendarService(store CalendarStore) *CalendarService {
	return &CalendarService{Store: store}
}

func (s *CalendarService) CreateEvent(userID uint, title, description string, eventType model.EventType, startDate time.Time, endDate *time.Time) (*model.CalendarEvent, error) {
	if eventType == "" {
		eventType = model.EventOther
	}
	event := &model.CalendarEvent{
		UserID:    userID,
		Title:     title,
		EventType: eventType,
		StartDate: startDate,
		EndDate:   endDate,
	}
	if description != "" {
		event.Description = &description
	}
	if err := s.Store.Create(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *CalendarService) EventsFor(ctx context.Context, userID uint) ([]model.CalendarEvent, error) {
	return s.Store.FindByUserID(ctx, userID)
}

func (s *CalendarService) UpdateEvent(ctx context.Context, userID uint, id string, updates map[string]interface{}) (*model.CalendarEvent, error) {
	if err := s.ownedBy(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.Store.Update(ctx, id, updates)
}

func (s *CalendarService) MarkCompleted(ctx context.Context, userID uint, id string) (*model.CalendarEvent, error) {
	return s.UpdateEvent(ctx, userID, id, map[string]interface{}{"is_completed": true})
}

func (s *CalendarService) DeleteEvent(ctx context.Context, userID uint, id string) error {
	if err := s.ownedBy(ctx, userID, id); err != nil {
		return err
	}
	return s.Store.Delete(ctx, id)
}

func (s *CalendarService) ownedBy(ctx context.Context, userID uint, id string) error {
	event, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if event.UserID != userID {
		return util.ErrPermissionDenied
	}
	return nil
}
