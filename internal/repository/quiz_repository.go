package repository

import (
	"classlink_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

// FindVisibleTo returns the user's own quizzes plus everything shared,
// newest first.
func (r *QuizRepository) FindVisibleTo(ctx context.Context, userID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.WithContext(ctx).
		Where("creator_id = ? OR is_shared = ?", userID, true).
		Order("created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) FindByID(ctx context.Context, id string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.WithContext(ctx).First(&quiz, "id = ?", id).Error
	return &quiz, err
}

func (r *QuizRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Quiz, error) {
	if err := r.DB.WithContext(ctx).Model(&model.Quiz{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *QuizRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Delete(&model.Quiz{}, "id = ?", id).Error
}

func (r *QuizRepository) CreateResult(result *model.QuizResult) error {
	return r.DB.Create(result).Error
}

// FindResults lists a user's attempts, optionally narrowed to one quiz,
// newest first.
func (r *QuizRepository) FindResults(ctx context.Context, userID uint, quizID string) ([]model.QuizResult, error) {
	query := r.DB.WithContext(ctx).Where("user_id = ?", userID)
	if quizID != "" {
		query = query.Where("quiz_id = ?", quizID)
	}
	var results []model.QuizResult
	err := query.Order("completed_at DESC").Find(&results).Error
	return results, err
}
