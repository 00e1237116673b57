package service

import (
	"classlink_backend/internal/model"
	"classlink_backend/internal/util"
	"context"
	"encoding/json"
	"time"
)

type QuizStore interface {
	Create(quiz *model.Quiz) error
	FindVisibleTo(ctx context.Context, userID uint) ([]model.Quiz, error)
	FindByID(ctx context.Context, id string) (*model.Quiz, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Quiz, error)
	Delete(ctx context.Context, id string) error
	CreateResult(result *model.QuizResult) error
	FindResults(ctx context.Context, userID uint, quizID string) ([]model.QuizResult, error)
}

// QuizService owns authored quizzes and their graded attempts. A quiz is
// readable by its creator and, when shared, by anyone; only the creator may
// change or delete it. Attempts are graded here, not trusted from the client.
type QuizService struct {
	Store QuizStore

	nowFunc func() time.Time
}

func NewQuizService(store QuizStore) *QuizService {
	return &QuizService{
		Store:   store,
		nowFunc: time.Now,
	}
}

func (s *QuizService) CreateQuiz(creatorID uint, title, description string, questions []model.QuizQuestion, isShared bool) (*model.Quiz, error) {
	content, err := json.Marshal(questions)
	if err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		CreatorID: creatorID,
		Title:     title,
		Content:   content,
		IsShared:  isShared,
	}
	if description != "" {
		quiz.Description = &description
	}

	if err := s.Store.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) QuizzesFor(ctx context.Context, userID uint) ([]model.Quiz, error) {
	return s.Store.FindVisibleTo(ctx, userID)
}

func (s *QuizService) Quiz(ctx context.Context, userID uint, id string) (*model.Quiz, error) {
	quiz, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quiz.CreatorID != userID && !quiz.IsShared {
		return nil, util.ErrPermissionDenied
	}
	return quiz, nil
}

func (s *QuizService) UpdateQuiz(ctx context.Context, userID uint, id string, updates map[string]interface{}) (*model.Quiz, error) {
	quiz, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quiz.CreatorID != userID {
		return nil, util.ErrPermissionDenied
	}
	return s.Store.Update(ctx, id, updates)
}

func (s *QuizService) DeleteQuiz(ctx context.Context, userID uint, id string) error {
	quiz, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if quiz.CreatorID != userID {
		return util.ErrPermissionDenied
	}
	return s.Store.Delete(ctx, id)
}

// SubmitAttempt grades the answers against the quiz content and records the
// result. Answers for unknown question IDs are ignored; an unanswered
// question simply scores nothing.
func (s *QuizService) SubmitAttempt(ctx context.Context, userID uint, quizID string, answers map[string]int) (*model.QuizResult, error) {
	quiz, err := s.Quiz(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}

	var questions []model.QuizQuestion
	if len(quiz.Content) > 0 {
		if err := json.Unmarshal(quiz.Content, &questions); err != nil {
			return nil, err
		}
	}

	score := 0
	for _, q := range questions {
		if chosen, ok := answers[q.ID]; ok && chosen == q.CorrectAnswer {
			score++
		}
	}

	raw, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}

	result := &model.QuizResult{
		QuizID:         quizID,
		UserID:         userID,
		Score:          score,
		TotalQuestions: len(questions),
		Answers:        raw,
		CompletedAt:    s.nowFunc(),
	}
	if err := s.Store.CreateResult(result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *QuizService) ResultsFor(ctx context.Context, userID uint, quizID string) ([]model.QuizResult, error) {
	return s.Store.FindResults(ctx, userID, quizID)
}
