package repository

import (
	"classlink_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type RelationRepository struct {
	DB *gorm.DB
}

func NewRelationRepository(db *gorm.DB) *RelationRepository {
	return &RelationRepository{DB: db}
}

func (r *RelationRepository) Create(relation *model.ParentStudentRelation) error {
	return r.DB.Create(relation).Error
}

func (r *RelationRepository) FindByParentID(ctx context.Context, parentID uint) ([]model.ParentStudentRelation, error) {
	var relations []model.ParentStudentRelation
	err := r.DB.WithContext(ctx).Where("parent_id = ?", parentID).Find(&relations).Error
	return relations, err
}

func (r *RelationRepository) FindByStudentID(ctx context.Context, studentID uint) ([]model.ParentStudentRelation, error) {
	var relations []model.ParentStudentRelation
	err := r.DB.WithContext(ctx).Where("student_id = ?", studentID).Find(&relations).Error
	return relations, err
}

func (r *RelationRepository) Exists(ctx context.Context, parentID, studentID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.ParentStudentRelation{}).
		Where("parent_id = ? AND student_id = ?", parentID, studentID).
		Count(&count).Error
	return count > 0, err
}

func (r *RelationRepository) Delete(relationID, parentID uint) error {
	result := r.DB.Where("id = ? AND parent_id = ?", relationID, parentID).
		Delete(&model.ParentStudentRelation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
