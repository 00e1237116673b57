package repository

import (
	"classlink_backend/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

type LinkingCodeRepository struct {
	DB *gorm.DB
}

func NewLinkingCodeRepository(db *gorm.DB) *LinkingCodeRepository {
	return &LinkingCodeRepository{DB: db}
}

func (r *LinkingCodeRepository) Create(code *model.StudentLinkingCode) error {
	return r.DB.Create(code).Error
}

func (r *LinkingCodeRepository) FindByStudentID(ctx context.Context, studentID uint) ([]model.StudentLinkingCode, error) {
	var codes []model.StudentLinkingCode
	err := r.DB.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&codes).Error
	return codes, err
}

// FindUnusedByCode matches on the code and the unused flag only; expiry is
// the service's call, so an expired code can be reported as expired rather
// than unknown.
func (r *LinkingCodeRepository) FindUnusedByCode(ctx context.Context, code string) (*model.StudentLinkingCode, error) {
	var lc model.StudentLinkingCode
	err := r.DB.WithContext(ctx).
		Where("code = ? AND is_used = ?", code, false).
		First(&lc).Error
	return &lc, err
}

func (r *LinkingCodeRepository) MarkUsed(ctx context.Context, id string, usedBy uint) error {
	now := time.Now()
	return r.DB.WithContext(ctx).Model(&model.StudentLinkingCode{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_used": true,
			"used_at": now,
			"used_by": usedBy,
		}).Error
}
