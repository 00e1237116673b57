package repository

import (
	"classlink_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type HomeworkRepository struct {
	DB *gorm.DB
}

func NewHomeworkRepository(db *gorm.DB) *HomeworkRepository {
	return &HomeworkRepository{DB: db}
}

func (r *HomeworkRepository) Create(review *model.HomeworkReview) error {
	return r.DB.Create(review).Error
}

func (r *HomeworkRepository) FindByStudentID(ctx context.Context, studentID uint) ([]model.HomeworkReview, error) {
	var reviews []model.HomeworkReview
	err := r.DB.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *HomeworkRepository) FindByID(ctx context.Context, id string) (*model.HomeworkReview, error) {
	var review model.HomeworkReview
	err := r.DB.WithContext(ctx).First(&review, "id = ?", id).Error
	return &review, err
}

func (r *HomeworkRepository) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.HomeworkReview, error) {
	if err := r.DB.WithContext(ctx).Model(&model.HomeworkReview{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *HomeworkRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Delete(&model.HomeworkReview{}, "id = ?", id).Error
}
