package service

import (
	"classlink_backend/internal/model"
	"classlink_backend/pkg/logger"
	"classlink_backend/pkg/monitoring"
	"context"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type ChildStats struct {
	TotalCourses         int  `json:"totalCourses"`
	CompletedSubmissions int  `json:"completedSubmissions"`
	PendingSubmissions   int  `json:"pendingSubmissions"`
	AverageGrade         *int `json:"averageGrade"`
}

// ChildClassroomData is one dependent's slice of the guardian rollup. A fresh
// value is built on every aggregation pass; it is never mutated in place.
type ChildClassroomData struct {
	ChildID      uint                             `json:"childId"`
	ChildName    string                           `json:"childName"`
	HasClassroom bool                             `json:"hasClassroom"`
	Courses      []model.ClassroomCourse          `json:"courses"`
	UpcomingWork []model.CourseworkWithCourse     `json:"upcomingWork"`
	Submissions  []model.SubmissionWithCoursework `json:"submissions"`
	Stats        ChildStats                       `json:"stats"`
}

type AccountProbe interface {
	HasLinkedAccount(ctx context.Context, studentID uint) (bool, error)
}

type AcademicFetcher interface {
	CoursesFor(ctx context.Context, studentID uint) ([]model.ClassroomCourse, error)
	UpcomingCourseworkFor(ctx context.Context, studentID uint, daysAhead int) ([]model.CourseworkWithCourse, error)
	SubmissionsFor(ctx context.Context, studentID uint) ([]model.SubmissionWithCoursework, error)
}

// ChildAggregator composes the probe and the fetcher for one dependent.
// Aggregate never fails: a probe or fetch error degrades that child to the
// same empty shape an unlinked account produces, so one child's trouble can't
// take the whole rollup down.
type ChildAggregator struct {
	Probe   AccountProbe
	Fetcher AcademicFetcher
}

func NewChildAggregator(probe AccountProbe, fetcher AcademicFetcher) *ChildAggregator {
	return &ChildAggregator{
		Probe:   probe,
		Fetcher: fetcher,
	}
}

func (a *ChildAggregator) Aggregate(ctx context.Context, child Dependent) ChildClassroomData {
	linked, err := a.Probe.HasLinkedAccount(ctx, child.ID)
	if err != nil {
		logger.Log.Warn("classroom probe failed, degrading child to unlinked",
			zap.Uint("childId", child.ID), zap.Error(err))
		monitoring.DegradedChildCounter.Inc()
		return emptyChildData(child)
	}

	if !linked {
		return emptyChildData(child)
	}

	var (
		courses     []model.ClassroomCourse
		upcoming    []model.CourseworkWithCourse
		submissions []model.SubmissionWithCoursework
	)

	// The three reads are independent; issue them together. Any one failing
	// fails the triple.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		courses, err = a.Fetcher.CoursesFor(gctx, child.ID)
		return err
	})
	g.Go(func() error {
		var err error
		upcoming, err = a.Fetcher.UpcomingCourseworkFor(gctx, child.ID, 0)
		return err
	})
	g.Go(func() error {
		var err error
		submissions, err = a.Fetcher.SubmissionsFor(gctx, child.ID)
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Log.Warn("classroom fetch failed, degrading child to unlinked",
			zap.Uint("childId", child.ID), zap.Error(err))
		monitoring.DegradedChildCounter.Inc()
		return emptyChildData(child)
	}

	return ChildClassroomData{
		ChildID:      child.ID,
		ChildName:    child.DisplayName,
		HasClassroom: true,
		Courses:      courses,
		UpcomingWork: upcoming,
		Submissions:  submissions,
		Stats:        ComputeChildStats(courses, submissions),
	}
}

func emptyChildData(child Dependent) ChildClassroomData {
	return ChildClassroomData{
		ChildID:      child.ID,
		ChildName:    child.DisplayName,
		HasClassroom: false,
		Courses:      []model.ClassroomCourse{},
		UpcomingWork: []model.CourseworkWithCourse{},
		Submissions:  []model.SubmissionWithCoursework{},
		Stats:        ChildStats{},
	}
}

// ComputeChildStats derives the per-child counters from raw mirror rows. The
// average only covers submissions that have both an assigned grade and a
// parent coursework with max points; everything else is excluded from the
// mean, not counted as zero.
func ComputeChildStats(courses []model.ClassroomCourse, submissions []model.SubmissionWithCoursework) ChildStats {
	stats := ChildStats{TotalCourses: len(courses)}

	var sum float64
	var graded int
	for _, sub := range submissions {
		if sub.State.Completed() {
			stats.CompletedSubmissions++
		}
		if sub.State.Pending() {
			stats.PendingSubmissions++
		}
		if sub.AssignedGrade != nil && sub.CourseworkMaxPoints != nil && *sub.CourseworkMaxPoints > 0 {
			sum += *sub.AssignedGrade / *sub.CourseworkMaxPoints * 100
			graded++
		}
	}

	if graded > 0 {
		avg := int(math.Round(sum / float64(graded)))
		stats.AverageGrade = &avg
	}

	return stats
}
