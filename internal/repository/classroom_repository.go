package repository

import (
	"classlink_backend/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// ClassroomRepository reads the mirrored external-provider tables. It never
// writes course/coursework/submission rows; the sync worker owns those.
type ClassroomRepository struct {
	DB *gorm.DB
}

func NewClassroomRepository(db *gorm.DB) *ClassroomRepository {
	return &ClassroomRepository{DB: db}
}

// HasCredential reports whether the student has authorized the classroom
// integration. Absence is a regular false, not an error.
func (r *ClassroomRepository) HasCredential(ctx context.Context, studentID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.ClassroomCredential{}).
		Where("user_id = ?", studentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ClassroomRepository) FindCredential(ctx context.Context, studentID uint) (*model.ClassroomCredential, error) {
	var cred model.ClassroomCredential
	err := r.DB.WithContext(ctx).Where("user_id = ?", studentID).First(&cred).Error
	return &cred, err
}

func (r *ClassroomRepository) DeleteCredential(ctx context.Context, studentID uint) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", studentID).
		Delete(&model.ClassroomCredential{}).Error
}

func (r *ClassroomRepository) FindCoursesByStudent(ctx context.Context, studentID uint) ([]model.ClassroomCourse, error) {
	var courses []model.ClassroomCourse
	err := r.DB.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("name").
		Find(&courses).Error
	return courses, err
}

// FindCourseworkInWindow returns coursework due inside [start, end] for the
// student's courses, annotated with the parent course's name and section.
// Rows without a due date never match.
func (r *ClassroomRepository) FindCourseworkInWindow(ctx context.Context, studentID uint, start, end time.Time) ([]model.CourseworkWithCourse, error) {
	var rows []model.CourseworkWithCourse
	err := r.DB.WithContext(ctx).
		Table("classroom_coursework").
		Select("classroom_coursework.*, classroom_courses.name AS course_name, classroom_courses.section AS course_section").
		Joins("JOIN classroom_courses ON classroom_courses.id = classroom_coursework.course_id").
		Where("classroom_courses.student_id = ?", studentID).
		Where("classroom_coursework.due_date BETWEEN ? AND ?", start, end).
		Order("classroom_coursework.due_date").
		Scan(&rows).Error
	return rows, err
}

func (r *ClassroomRepository) FindCourseworkByCourse(ctx context.Context, courseID string) ([]model.ClassroomCoursework, error) {
	var rows []model.ClassroomCoursework
	err := r.DB.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("due_date IS NULL, due_date").
		Find(&rows).Error
	return rows, err
}

// FindSubmissionsByStudent returns the student's submissions annotated with
// the parent coursework's display fields.
func (r *ClassroomRepository) FindSubmissionsByStudent(ctx context.Context, studentID uint) ([]model.SubmissionWithCoursework, error) {
	var rows []model.SubmissionWithCoursework
	err := r.DB.WithContext(ctx).
		Table("classroom_submissions").
		Select("classroom_submissions.*, classroom_coursework.title AS coursework_title, classroom_coursework.due_date AS coursework_due_date, classroom_coursework.max_points AS coursework_max_points, classroom_coursework.course_id AS course_id").
		Joins("JOIN classroom_coursework ON classroom_coursework.id = classroom_submissions.coursework_id").
		Where("classroom_submissions.student_id = ?", studentID).
		Order("classroom_submissions.update_time IS NULL, classroom_submissions.update_time DESC").
		Scan(&rows).Error
	return rows, err
}
