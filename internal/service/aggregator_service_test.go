package service

import (
	"classlink_backend/internal/model"
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProbe struct {
	linked bool
	err    error
	calls  int32
}

func (p *fakeProbe) HasLinkedAccount(ctx context.Context, studentID uint) (bool, error) {
	atomic.AddInt32(&p.calls, 1)
	return p.linked, p.err
}

type fakeFetcher struct {
	courses     []model.ClassroomCourse
	upcoming    []model.CourseworkWithCourse
	submissions []model.SubmissionWithCoursework

	coursesErr     error
	upcomingErr    error
	submissionsErr error

	calls int32
}

func (f *fakeFetcher) CoursesFor(ctx context.Context, studentID uint) ([]model.ClassroomCourse, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.courses, f.coursesErr
}

func (f *fakeFetcher) UpcomingCourseworkFor(ctx context.Context, studentID uint, daysAhead int) ([]model.CourseworkWithCourse, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.upcoming, f.upcomingErr
}

func (f *fakeFetcher) SubmissionsFor(ctx context.Context, studentID uint) ([]model.SubmissionWithCoursework, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.submissions, f.submissionsErr
}

func floatPtr(v float64) *float64 { return &v }

func submission(state model.SubmissionState, grade, maxPoints *float64) model.SubmissionWithCoursework {
	return model.SubmissionWithCoursework{
		ClassroomSubmission: model.ClassroomSubmission{
			State:         state,
			AssignedGrade: grade,
		},
		CourseworkMaxPoints: maxPoints,
	}
}

func TestAggregateUnlinkedSkipsFetch(t *testing.T) {
	probe := &fakeProbe{linked: false}
	fetcher := &fakeFetcher{}
	agg := NewChildAggregator(probe, fetcher)

	data := agg.Aggregate(context.Background(), Dependent{ID: 7, DisplayName: "Ana"})

	assert.False(t, data.HasClassroom)
	assert.Equal(t, uint(7), data.ChildID)
	assert.Equal(t, "Ana", data.ChildName)
	assert.NotNil(t, data.Courses)
	assert.Empty(t, data.Courses)
	assert.NotNil(t, data.UpcomingWork)
	assert.NotNil(t, data.Submissions)
	assert.Nil(t, data.Stats.AverageGrade)
	assert.EqualValues(t, 0, atomic.LoadInt32(&fetcher.calls), "fetcher must not be called for an unlinked child")
}

func TestAggregateProbeErrorMatchesUnlinkedShape(t *testing.T) {
	fetcher := &fakeFetcher{}
	child := Dependent{ID: 3, DisplayName: "Luis"}

	unlinked := NewChildAggregator(&fakeProbe{linked: false}, fetcher).Aggregate(context.Background(), child)
	degraded := NewChildAggregator(&fakeProbe{err: errors.New("store down")}, fetcher).Aggregate(context.Background(), child)

	assert.Equal(t, unlinked, degraded, "a probe failure must be indistinguishable from an unlinked account")
	assert.EqualValues(t, 0, atomic.LoadInt32(&fetcher.calls))
}

func TestAggregateFetchErrorDegrades(t *testing.T) {
	probe := &fakeProbe{linked: true}
	fetcher := &fakeFetcher{
		courses:        []model.ClassroomCourse{{ID: "c1", Name: "Math"}},
		submissionsErr: errors.New("timeout"),
	}
	agg := NewChildAggregator(probe, fetcher)

	data := agg.Aggregate(context.Background(), Dependent{ID: 3, DisplayName: "Luis"})

	assert.False(t, data.HasClassroom)
	assert.Empty(t, data.Courses)
	assert.Equal(t, ChildStats{}, data.Stats)
}

func TestAggregateLinkedChild(t *testing.T) {
	probe := &fakeProbe{linked: true}
	fetcher := &fakeFetcher{
		courses: []model.ClassroomCourse{
			{ID: "c1", Name: "Math"},
			{ID: "c2", Name: "History"},
		},
		submissions: []model.SubmissionWithCoursework{
			submission(model.SubmissionTurnedIn, floatPtr(45), floatPtr(50)),
			submission(model.SubmissionNew, nil, floatPtr(20)),
		},
	}
	agg := NewChildAggregator(probe, fetcher)

	data := agg.Aggregate(context.Background(), Dependent{ID: 9, DisplayName: "Mia"})

	require.True(t, data.HasClassroom)
	assert.Equal(t, 2, data.Stats.TotalCourses)
	assert.Equal(t, 1, data.Stats.CompletedSubmissions)
	assert.Equal(t, 1, data.Stats.PendingSubmissions)
	require.NotNil(t, data.Stats.AverageGrade)
	assert.Equal(t, 90, *data.Stats.AverageGrade)
}

func TestComputeChildStats(t *testing.T) {
	tests := []struct {
		name          string
		courses       int
		submissions   []model.SubmissionWithCoursework
		wantCompleted int
		wantPending   int
		wantAvg       *int
	}{
		{
			name: "rounded mean over graded submissions",
			submissions: []model.SubmissionWithCoursework{
				submission(model.SubmissionReturned, floatPtr(45), floatPtr(50)),
				submission(model.SubmissionReturned, floatPtr(18), floatPtr(20)),
			},
			wantCompleted: 2,
			wantAvg:       intPtr(90),
		},
		{
			name: "single graded submission",
			submissions: []model.SubmissionWithCoursework{
				submission(model.SubmissionTurnedIn, floatPtr(7), floatPtr(10)),
			},
			wantCompleted: 1,
			wantAvg:       intPtr(70),
		},
		{
			name: "ungraded submissions excluded from the mean",
			submissions: []model.SubmissionWithCoursework{
				submission(model.SubmissionReturned, floatPtr(8), floatPtr(10)),
				submission(model.SubmissionTurnedIn, nil, floatPtr(10)),
			},
			wantCompleted: 2,
			wantAvg:       intPtr(80),
		},
		{
			name: "missing max points excluded from the mean",
			submissions: []model.SubmissionWithCoursework{
				submission(model.SubmissionReturned, floatPtr(8), floatPtr(10)),
				submission(model.SubmissionReturned, floatPtr(9), nil),
				submission(model.SubmissionReturned, floatPtr(9), floatPtr(0)),
			},
			wantCompleted: 3,
			wantAvg:       intPtr(80),
		},
		{
			name: "no graded submissions yields nil average",
			submissions: []model.SubmissionWithCoursework{
				submission(model.SubmissionNew, nil, nil),
				submission(model.SubmissionCreated, nil, floatPtr(10)),
			},
			wantPending: 2,
		},
		{
			name:    "reclaimed is neither completed nor pending",
			courses: 1,
			submissions: []model.SubmissionWithCoursework{
				submission(model.SubmissionReclaimed, nil, nil),
			},
		},
		{
			name: "empty submissions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			courses := make([]model.ClassroomCourse, tt.courses)
			stats := ComputeChildStats(courses, tt.submissions)

			assert.Equal(t, tt.courses, stats.TotalCourses)
			assert.Equal(t, tt.wantCompleted, stats.CompletedSubmissions)
			assert.Equal(t, tt.wantPending, stats.PendingSubmissions)
			assert.Equal(t, tt.wantAvg, stats.AverageGrade)
		})
	}
}

func TestComputeChildStatsIdempotent(t *testing.T) {
	submissions := []model.SubmissionWithCoursework{
		submission(model.SubmissionReturned, floatPtr(45), floatPtr(50)),
		submission(model.SubmissionNew, nil, floatPtr(20)),
	}

	first := ComputeChildStats(nil, submissions)
	second := ComputeChildStats(nil, submissions)
	assert.Equal(t, first, second)
}

func intPtr(v int) *int { return &v }
