package service

import (
	"classlink_backend/internal/config"
	"classlink_backend/internal/model"
	"classlink_backend/internal/repository"
	"classlink_backend/internal/util"
	"context"
	"fmt"
	"time"
)

type ClassroomStore interface {
	HasCredential(ctx context.Context, studentID uint) (bool, error)
	DeleteCredential(ctx context.Context, studentID uint) error
	FindCoursesByStudent(ctx context.Context, studentID uint) ([]model.ClassroomCourse, error)
	FindCourseworkInWindow(ctx context.Context, studentID uint, start, end time.Time) ([]model.CourseworkWithCourse, error)
	FindSubmissionsByStudent(ctx context.Context, studentID uint) ([]model.SubmissionWithCoursework, error)
}

// ClassroomService is the read side of the external-provider mirror: the
// credential probe plus the three academic fetches. Every call carries a
// per-call timeout because the mirror sits behind the same store as the rest
// of the platform but is refreshed by a third-party-bound worker.
type ClassroomService struct {
	Store    ClassroomStore
	SyncLogs *repository.SyncLogRepository
	Cfg      *config.Config

	nowFunc func() time.Time
}

func NewClassroomService(store ClassroomStore, syncLogs *repository.SyncLogRepository, cfg *config.Config) *ClassroomService {
	return &ClassroomService{
		Store:    store,
		SyncLogs: syncLogs,
		Cfg:      cfg,
		nowFunc:  time.Now,
	}
}

func (s *ClassroomService) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.Cfg.Classroom.FetchTimeout)
}

// HasLinkedAccount reports whether the student authorized the classroom
// integration. "Not linked" is a legitimate false; only a store failure is an
// error, and callers must not conflate the two.
func (s *ClassroomService) HasLinkedAccount(ctx context.Context, studentID uint) (bool, error) {
	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	linked, err := s.Store.HasCredential(ctx, studentID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", util.ErrProbeUnavailable, err)
	}
	return linked, nil
}

func (s *ClassroomService) CoursesFor(ctx context.Context, studentID uint) ([]model.ClassroomCourse, error) {
	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	courses, err := s.Store.FindCoursesByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrFetchUnavailable, err)
	}
	if courses == nil {
		courses = []model.ClassroomCourse{}
	}
	return courses, nil
}

// UpcomingCourseworkFor returns coursework due from the start of today through
// the end of the day daysAhead later, boundaries included. daysAhead <= 0
// falls back to the configured default. Coursework with no due date is never
// upcoming.
func (s *ClassroomService) UpcomingCourseworkFor(ctx context.Context, studentID uint, daysAhead int) ([]model.CourseworkWithCourse, error) {
	if daysAhead <= 0 {
		daysAhead = s.Cfg.Classroom.UpcomingDaysAhead
	}

	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	start, end := util.DayWindow(s.nowFunc(), daysAhead)
	work, err := s.Store.FindCourseworkInWindow(ctx, studentID, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrFetchUnavailable, err)
	}
	if work == nil {
		work = []model.CourseworkWithCourse{}
	}
	return work, nil
}

func (s *ClassroomService) SubmissionsFor(ctx context.Context, studentID uint) ([]model.SubmissionWithCoursework, error) {
	ctx, cancel := s.callCtx(ctx)
	defer cancel()

	submissions, err := s.Store.FindSubmissionsByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrFetchUnavailable, err)
	}
	if submissions == nil {
		submissions = []model.SubmissionWithCoursework{}
	}
	return submissions, nil
}

// Unlink drops the student's stored credential. Mirror rows are left in place
// for the sync worker to clean up.
func (s *ClassroomService) Unlink(ctx context.Context, studentID uint) error {
	return s.Store.DeleteCredential(ctx, studentID)
}

func (s *ClassroomService) RecordSyncStart(userID uint, syncType string) (*model.SyncLog, error) {
	log := &model.SyncLog{
		UserID:    userID,
		SyncType:  syncType,
		Status:    model.SyncStarted,
		StartedAt: s.nowFunc(),
	}
	if err := s.SyncLogs.Create(log); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *ClassroomService) CompleteSyncLog(ctx context.Context, logID string, status model.SyncStatus, processed int, errMessage string) (*model.SyncLog, error) {
	updates := map[string]interface{}{
		"status":            status,
		"records_processed": processed,
	}
	if errMessage != "" {
		updates["error_message"] = errMessage
	}
	if status == model.SyncCompleted || status == model.SyncFailed {
		updates["completed_at"] = s.nowFunc()
	}

	return s.SyncLogs.Update(ctx, logID, updates)
}

func (s *ClassroomService) SyncLogsFor(ctx context.Context, userID uint) ([]model.SyncLog, error) {
	return s.SyncLogs.FindByUserID(ctx, userID, 50)
}
