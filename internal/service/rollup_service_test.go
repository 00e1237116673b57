package service

import (
	"classlink_backend/internal/util"
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	children []Dependent
	err      error
	calls    int32
}

func (d *fakeDirectory) ListDependents(ctx context.Context, guardianID uint) ([]Dependent, error) {
	atomic.AddInt32(&d.calls, 1)
	return d.children, d.err
}

type aggregatorFunc func(ctx context.Context, child Dependent) ChildClassroomData

func (f aggregatorFunc) Aggregate(ctx context.Context, child Dependent) ChildClassroomData {
	return f(ctx, child)
}

func linkedChildData(child Dependent, stats ChildStats) ChildClassroomData {
	data := emptyChildData(child)
	data.HasClassroom = true
	data.Stats = stats
	return data
}

func TestLoadAllNoDependents(t *testing.T) {
	svc := NewRollupService(&fakeDirectory{children: []Dependent{}}, aggregatorFunc(func(ctx context.Context, child Dependent) ChildClassroomData {
		t.Fatal("aggregator must not run with no dependents")
		return ChildClassroomData{}
	}), nil, time.Minute)

	rollup, err := svc.LoadAll(context.Background(), 1)

	require.NoError(t, err)
	assert.Empty(t, rollup.Children)
	assert.Empty(t, rollup.ChildrenData)
	assert.Equal(t, OverallStats{}, rollup.OverallStats)
	assert.Nil(t, rollup.Error)
}

func TestLoadAllDirectoryFailure(t *testing.T) {
	dirErr := fmt.Errorf("%w: relations table gone", util.ErrDirectoryUnavailable)
	svc := NewRollupService(&fakeDirectory{err: dirErr}, aggregatorFunc(func(ctx context.Context, child Dependent) ChildClassroomData {
		return ChildClassroomData{}
	}), nil, time.Minute)

	_, err := svc.LoadAll(context.Background(), 1)

	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrDirectoryUnavailable))
}

func TestLoadAllTwoChildren(t *testing.T) {
	children := []Dependent{
		{ID: 1, DisplayName: "Ana"},
		{ID: 2, DisplayName: "Luis"},
	}
	dir := &fakeDirectory{children: children}
	agg := aggregatorFunc(func(ctx context.Context, child Dependent) ChildClassroomData {
		if child.ID == 1 {
			return linkedChildData(child, ChildStats{
				TotalCourses:         2,
				CompletedSubmissions: 1,
				PendingSubmissions:   1,
				AverageGrade:         intPtr(80),
			})
		}
		return emptyChildData(child)
	})
	svc := NewRollupService(dir, agg, nil, time.Minute)

	rollup, err := svc.LoadAll(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, rollup.ChildrenData, 2)
	assert.Equal(t, uint(1), rollup.ChildrenData[0].ChildID, "children keep directory order")
	assert.Equal(t, uint(2), rollup.ChildrenData[1].ChildID)

	stats := rollup.OverallStats
	assert.Equal(t, 2, stats.TotalCourses)
	assert.Equal(t, 1, stats.TotalCompleted)
	assert.Equal(t, 1, stats.TotalPending)
	require.NotNil(t, stats.OverallAverage)
	assert.Equal(t, 80, *stats.OverallAverage)
	assert.Equal(t, 1, stats.ChildrenWithClassroom)
	assert.Equal(t, 2, stats.TotalChildren)
}

func TestLoadAllAggregatesConcurrently(t *testing.T) {
	const latency = 50 * time.Millisecond
	children := make([]Dependent, 5)
	for i := range children {
		children[i] = Dependent{ID: uint(i + 1)}
	}
	agg := aggregatorFunc(func(ctx context.Context, child Dependent) ChildClassroomData {
		time.Sleep(latency)
		return emptyChildData(child)
	})
	svc := NewRollupService(&fakeDirectory{children: children}, agg, nil, time.Minute)

	start := time.Now()
	_, err := svc.LoadAll(context.Background(), 1)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Less(t, elapsed, 3*latency, "five children must be aggregated in parallel, not sequentially")
}

func TestRollupReturnsHeldState(t *testing.T) {
	dir := &fakeDirectory{children: []Dependent{{ID: 1, DisplayName: "Ana"}}}
	agg := aggregatorFunc(func(ctx context.Context, child Dependent) ChildClassroomData {
		return emptyChildData(child)
	})
	svc := NewRollupService(dir, agg, nil, time.Minute)

	first, err := svc.Rollup(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, first.Children, 1)

	second, err := svc.Rollup(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, first.Children, second.Children)
	assert.EqualValues(t, 1, atomic.LoadInt32(&dir.calls), "held state must not hit the directory again")
}

func TestRefreshAllPicksUpNewRelations(t *testing.T) {
	dir := &fakeDirectory{children: []Dependent{{ID: 1, DisplayName: "Ana"}}}
	agg := aggregatorFunc(func(ctx context.Context, child Dependent) ChildClassroomData {
		return emptyChildData(child)
	})
	svc := NewRollupService(dir, agg, nil, time.Minute)

	first, err := svc.LoadAll(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, first.Children, 1)

	dir.children = append(dir.children, Dependent{ID: 2, DisplayName: "Luis"})

	refreshed, err := svc.RefreshAll(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, refreshed.Children, 2, "refresh must re-resolve the dependent list")
	assert.Equal(t, uint(2), refreshed.Children[1].ID)
	assert.Equal(t, 2, refreshed.OverallStats.TotalChildren)
}

func TestInvalidateForcesDirectoryReload(t *testing.T) {
	dir := &fakeDirectory{children: []Dependent{{ID: 1, DisplayName: "Ana"}}}
	agg := aggregatorFunc(func(ctx context.Context, child Dependent) ChildClassroomData {
		return emptyChildData(child)
	})
	svc := NewRollupService(dir, agg, nil, time.Minute)

	_, err := svc.Rollup(context.Background(), 1)
	require.NoError(t, err)

	dir.children = append(dir.children, Dependent{ID: 2, DisplayName: "Luis"})
	svc.Invalidate(context.Background(), 1)

	rollup, err := svc.Rollup(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rollup.Children, 2, "a read after invalidation must see the new relation")
	assert.EqualValues(t, 2, atomic.LoadInt32(&dir.calls))
}

func TestRefreshSupersededGenerationIsDiscarded(t *testing.T) {
	dir := &fakeDirectory{children: []Dependent{{ID: 1, DisplayName: "Ana"}}}
	release := make(chan struct{})
	var runs int32
	agg := aggregatorFunc(func(ctx context.Context, child Dependent) ChildClassroomData {
		run := atomic.AddInt32(&runs, 1)
		if run == 1 {
			// First refresh stalls until a later one has published.
			<-release
		}
		data := emptyChildData(child)
		data.ChildName = fmt.Sprintf("run-%d", run)
		return data
	})
	svc := NewRollupService(dir, agg, nil, time.Minute)

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		svc.LoadAll(context.Background(), 1)
	}()
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&runs) == 1
	}, time.Second, time.Millisecond)

	second, err := svc.LoadAll(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "run-2", second.ChildrenData[0].ChildName)

	close(release)
	<-firstDone

	held, err := svc.Rollup(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "run-2", held.ChildrenData[0].ChildName, "the stale first refresh must not overwrite the newer rollup")
}

func TestRefreshChildReplacesOneEntry(t *testing.T) {
	children := []Dependent{
		{ID: 1, DisplayName: "Ana"},
		{ID: 2, DisplayName: "Luis"},
	}
	var refreshed atomic.Bool
	agg := aggregatorFunc(func(ctx context.Context, child Dependent) ChildClassroomData {
		data := emptyChildData(child)
		if refreshed.Load() && child.ID == 1 {
			data.HasClassroom = true
			data.Stats.TotalCourses = 3
		}
		return data
	})
	svc := NewRollupService(&fakeDirectory{children: children}, agg, nil, time.Minute)

	_, err := svc.LoadAll(context.Background(), 1)
	require.NoError(t, err)

	refreshed.Store(true)
	rollup, err := svc.RefreshChild(context.Background(), 1, 1)
	require.NoError(t, err)

	require.Len(t, rollup.ChildrenData, 2)
	assert.True(t, rollup.ChildrenData[0].HasClassroom)
	assert.Equal(t, 3, rollup.ChildrenData[0].Stats.TotalCourses)
	assert.False(t, rollup.ChildrenData[1].HasClassroom, "the sibling entry must be untouched")
	assert.Equal(t, 3, rollup.OverallStats.TotalCourses, "overall stats are recomputed after a child refresh")
	assert.Equal(t, 1, rollup.OverallStats.ChildrenWithClassroom)
}

func TestRefreshChildUnknownDependent(t *testing.T) {
	agg := aggregatorFunc(func(ctx context.Context, child Dependent) ChildClassroomData {
		return emptyChildData(child)
	})
	svc := NewRollupService(&fakeDirectory{children: []Dependent{{ID: 1}}}, agg, nil, time.Minute)

	_, err := svc.LoadAll(context.Background(), 1)
	require.NoError(t, err)

	_, err = svc.RefreshChild(context.Background(), 1, 99)
	assert.ErrorIs(t, err, util.ErrDependentNotFound)
}

func TestRefreshChildColdStateStillValidatesChild(t *testing.T) {
	agg := aggregatorFunc(func(ctx context.Context, child Dependent) ChildClassroomData {
		return emptyChildData(child)
	})
	svc := NewRollupService(&fakeDirectory{children: []Dependent{{ID: 1, DisplayName: "Ana"}}}, agg, nil, time.Minute)

	_, err := svc.RefreshChild(context.Background(), 1, 99)
	assert.ErrorIs(t, err, util.ErrDependentNotFound, "an unknown child is rejected even before any rollup is held")

	rollup, err := svc.RefreshChild(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, rollup.Children, 1)
	assert.Equal(t, uint(1), rollup.Children[0].ID)
}

func TestComputeOverallStats(t *testing.T) {
	children := []Dependent{{ID: 1}, {ID: 2}, {ID: 3}}
	data := []ChildClassroomData{
		{ChildID: 1, HasClassroom: true, Stats: ChildStats{TotalCourses: 2, CompletedSubmissions: 4, PendingSubmissions: 1, AverageGrade: intPtr(90)}},
		{ChildID: 2, HasClassroom: true, Stats: ChildStats{TotalCourses: 1, CompletedSubmissions: 0, PendingSubmissions: 2, AverageGrade: intPtr(71)}},
		{ChildID: 3, HasClassroom: false},
	}

	stats := ComputeOverallStats(children, data)

	assert.Equal(t, 3, stats.TotalCourses)
	assert.Equal(t, 4, stats.TotalCompleted)
	assert.Equal(t, 3, stats.TotalPending)
	require.NotNil(t, stats.OverallAverage)
	assert.Equal(t, 81, *stats.OverallAverage, "average over children with grades only, rounded")
	assert.Equal(t, 2, stats.ChildrenWithClassroom)
	assert.Equal(t, 3, stats.TotalChildren)
}

func TestComputeOverallStatsNoGrades(t *testing.T) {
	stats := ComputeOverallStats(nil, []ChildClassroomData{{ChildID: 1}})
	assert.Nil(t, stats.OverallAverage)
}
