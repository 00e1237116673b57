package service

import (
	"classlink_backend/internal/model"
	"classlink_backend/internal/util"
	"context"
	"encoding/json"
)

type HomeworkStore interface {
	Create(review *model.HomeworkReview) error
	FindByStudentID(ctx context.Context, studentID uint) ([]model.HomeworkReview, error)
	FindByID(ctx context.Context, id string) (*model.HomeworkReview, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*model.HomeworkReview, error)
	Delete(ctx context.Context, id string) error
}

// HomeworkService stores submitted homework alongside any review feedback.
// A student only ever sees their own submissions.
type HomeworkService struct {
	Store HomeworkStore
}

func NewHomeworkService(store HomeworkStore) *HomeworkService {
	return &HomeworkService{Store: store}
}

func (s *HomeworkService) CreateReview(studentID uint, title, content string, contextDocs []string) (*model.HomeworkReview, error) {
	review := &model.HomeworkReview{
		StudentID: studentID,
		Title:     title,
		Content:   content,
	}
	if len(contextDocs) > 0 {
		raw, err := json.Marshal(contextDocs)
		if err != nil {
			return nil, err
		}
		review.ContextDocuments = raw
	}
	if err := s.Store.Create(review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *HomeworkService) ReviewsFor(ctx context.Context, studentID uint) ([]model.HomeworkReview, error) {
	return s.Store.FindByStudentID(ctx, studentID)
}

func (s *HomeworkService) Review(ctx context.Context, studentID uint, id string) (*model.HomeworkReview, error) {
	review, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.StudentID != studentID {
		return nil, util.ErrPermissionDenied
	}
	return review, nil
}

func (s *HomeworkService) UpdateReview(ctx context.Context, studentID uint, id string, updates map[string]interface{}) (*model.HomeworkReview, error) {
	if _, err := s.Review(ctx, studentID, id); err != nil {
		return nil, err
	}
	return s.Store.Update(ctx, id, updates)
}

func (s *HomeworkService) DeleteReview(ctx context.Context, studentID uint, id string) error {
	if _, err := s.Review(ctx, studentID, id); err != nil {
		return err
	}
	return s.Store.Delete(ctx, id)
}
