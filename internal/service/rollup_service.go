package service

import (
	"classlink_backend/internal/util"
	"classlink_backend/pkg/logger"
	"classlink_backend/pkg/monitoring"
	"classlink_backend/pkg/tracing"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type OverallStats struct {
	TotalCourses          int  `json:"totalCourses"`
	TotalCompleted        int  `json:"totalCompleted"`
	TotalPending          int  `json:"totalPending"`
	OverallAverage        *int `json:"overallAverage"`
	ChildrenWithClassroom int  `json:"childrenWithClassroom"`
	TotalChildren         int  `json:"totalChildren"`
}

// GuardianRollup is the consumer-facing aggregate for one guardian. It is
// published wholesale: readers always see either the previous complete rollup
// or the next one, never a half-updated value.
type GuardianRollup struct {
	Children     []Dependent          `json:"children"`
	ChildrenData []ChildClassroomData `json:"childrenData"`
	OverallStats OverallStats         `json:"overallStats"`
	IsLoading    bool                 `json:"isLoading"`
	Error        *string              `json:"error,omitempty"`
	RefreshedAt  time.Time            `json:"refreshedAt"`
}

type DependentDirectory interface {
	ListDependents(ctx context.Context, guardianID uint) ([]Dependent, error)
}

type Aggregator interface {
	Aggregate(ctx context.Context, child Dependent) ChildClassroomData
}

// guardianState holds one guardian's published rollup plus the bookkeeping
// that keeps overlapping refreshes from publishing out of order.
type guardianState struct {
	lastGen   uint64 // newest generation handed out
	published uint64 // generation of the rollup currently held
	inFlight  int
	rollup    *GuardianRollup
}

// RollupService fans the per-child aggregation out across all of a guardian's
// dependents and folds the results into one rollup. Aggregation never fails
// per child; only identity and directory failures are fatal for a refresh.
//
// Every refresh is tagged with a per-guardian generation; a completion whose
// generation has been superseded is discarded, so rapid repeated refreshes
// cannot flicker the published rollup back to stale data.
type RollupService struct {
	Directory  DependentDirectory
	Aggregator Aggregator
	Redis      *redis.Client // optional cross-instance cache
	CacheTTL   time.Duration

	mu        sync.Mutex
	guardians map[uint]*guardianState
}

func NewRollupService(directory DependentDirectory, aggregator Aggregator, rdb *redis.Client, cacheTTL time.Duration) *RollupService {
	return &RollupService{
		Directory:  directory,
		Aggregator: aggregator,
		Redis:      rdb,
		CacheTTL:   cacheTTL,
		guardians:  make(map[uint]*guardianState),
	}
}

// Rollup returns the held rollup for the guardian, falling back to the Redis
// cache and finally to a full load when this instance has nothing yet.
func (s *RollupService) Rollup(ctx context.Context, guardianID uint) (*GuardianRollup, error) {
	if snapshot := s.snapshot(guardianID); snapshot != nil {
		return snapshot, nil
	}

	if cached := s.cachedRollup(ctx, guardianID); cached != nil {
		s.adopt(guardianID, cached)
		return cached, nil
	}

	return s.LoadAll(ctx, guardianID)
}

// LoadAll resolves the dependent list and aggregates every child
// concurrently. A directory failure is the one fatal path; an empty dependent
// list is a valid, empty rollup.
func (s *RollupService) LoadAll(ctx context.Context, guardianID uint) (*GuardianRollup, error) {
	return s.refresh(ctx, guardianID, nil, "all")
}

// RefreshAll re-resolves the dependent list and re-runs the aggregation, so
// relations linked or removed since the last load are picked up.
func (s *RollupService) RefreshAll(ctx context.Context, guardianID uint) (*GuardianRollup, error) {
	return s.refresh(ctx, guardianID, nil, "all")
}

// Invalidate drops the guardian's held rollup and its cache entry and
// supersedes any refresh still in flight. The relation-change paths call this
// so the next read resolves the directory from scratch.
func (s *RollupService) Invalidate(ctx context.Context, guardianID uint) {
	s.mu.Lock()
	if st, ok := s.guardians[guardianID]; ok {
		st.lastGen++
		st.published = st.lastGen
		st.rollup = nil
	}
	s.mu.Unlock()

	if s.Redis != nil {
		if err := s.Redis.Del(ctx, s.cacheKey(guardianID)).Err(); err != nil {
			logger.Log.Debug("rollup cache invalidation failed", zap.Error(err))
		}
	}
}

func (s *RollupService) refresh(ctx context.Context, guardianID uint, children []Dependent, kind string) (*GuardianRollup, error) {
	ctx, span := tracing.Tracer.Start(ctx, "rollup.refresh")
	span.SetAttributes(attribute.Int64("guardian.id", int64(guardianID)))
	defer span.End()

	start := time.Now()
	gen := s.begin(guardianID)
	defer s.end(guardianID)

	if children == nil {
		var err error
		children, err = s.Directory.ListDependents(ctx, guardianID)
		if err != nil {
			monitoring.RollupRefreshCounter.WithLabelValues(kind, "error").Inc()
			s.publishError(guardianID, gen, err)
			return nil, err
		}
	}

	rollup := &GuardianRollup{
		Children:     children,
		ChildrenData: s.fanOut(ctx, children),
		RefreshedAt:  time.Now(),
	}
	rollup.OverallStats = ComputeOverallStats(rollup.Children, rollup.ChildrenData)

	outcome := "success"
	if !s.publish(ctx, guardianID, gen, rollup) {
		outcome = "stale"
	}
	monitoring.RollupRefreshCounter.WithLabelValues(kind, outcome).Inc()
	monitoring.RollupRefreshDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	return rollup, nil
}

// RefreshChild re-aggregates a single dependent and swaps only that entry in
// the held rollup, leaving the others untouched. Without held state it falls
// back to a full load, still rejecting a childID outside the dependent list.
func (s *RollupService) RefreshChild(ctx context.Context, guardianID, childID uint) (*GuardianRollup, error) {
	held := s.snapshot(guardianID)
	if held == nil {
		loaded, err := s.LoadAll(ctx, guardianID)
		if err != nil {
			return nil, err
		}
		for i := range loaded.Children {
			if loaded.Children[i].ID == childID {
				return loaded, nil
			}
		}
		return nil, util.ErrDependentNotFound
	}

	var child *Dependent
	for i := range held.Children {
		if held.Children[i].ID == childID {
			child = &held.Children[i]
			break
		}
	}
	if child == nil {
		return nil, util.ErrDependentNotFound
	}

	start := time.Now()
	gen := s.begin(guardianID)
	defer s.end(guardianID)

	data := s.Aggregator.Aggregate(ctx, *child)

	s.mu.Lock()
	st := s.guardians[guardianID]
	if st == nil || st.rollup == nil || gen < st.lastGen {
		// A newer refresh superseded this one; drop the result.
		s.mu.Unlock()
		monitoring.RollupRefreshCounter.WithLabelValues("child", "stale").Inc()
		return s.snapshot(guardianID), nil
	}

	next := *st.rollup
	next.ChildrenData = make([]ChildClassroomData, len(st.rollup.ChildrenData))
	copy(next.ChildrenData, st.rollup.ChildrenData)
	for i := range next.ChildrenData {
		if next.ChildrenData[i].ChildID == childID {
			next.ChildrenData[i] = data
			break
		}
	}
	next.OverallStats = ComputeOverallStats(next.Children, next.ChildrenData)
	next.RefreshedAt = time.Now()
	st.rollup = &next
	st.published = gen
	s.mu.Unlock()

	s.cacheRollup(ctx, guardianID, &next)
	monitoring.RollupRefreshCounter.WithLabelValues("child", "success").Inc()
	monitoring.RollupRefreshDuration.WithLabelValues("child").Observe(time.Since(start).Seconds())

	return &next, nil
}

// fanOut aggregates all children concurrently. Aggregate never fails, so the
// only coordination needed is waiting for every slot to be filled; total
// latency is bounded by the slowest child, not the sum.
func (s *RollupService) fanOut(ctx context.Context, children []Dependent) []ChildClassroomData {
	results := make([]ChildClassroomData, len(children))

	var wg sync.WaitGroup
	for i, child := range children {
		wg.Add(1)
		go func(i int, child Dependent) {
			defer wg.Done()
			results[i] = s.Aggregator.Aggregate(ctx, child)
		}(i, child)
	}
	wg.Wait()

	return results
}

func (s *RollupService) state(guardianID uint) *guardianState {
	st, ok := s.guardians[guardianID]
	if !ok {
		st = &guardianState{}
		s.guardians[guardianID] = st
	}
	return st
}

func (s *RollupService) begin(guardianID uint) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(guardianID)
	st.lastGen++
	st.inFlight++
	return st.lastGen
}

func (s *RollupService) end(guardianID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.guardians[guardianID]; ok && st.inFlight > 0 {
		st.inFlight--
	}
}

// publish installs the rollup unless a newer generation already did.
func (s *RollupService) publish(ctx context.Context, guardianID uint, gen uint64, rollup *GuardianRollup) bool {
	s.mu.Lock()
	st := s.state(guardianID)
	if gen < st.published {
		s.mu.Unlock()
		logger.Log.Debug("discarding superseded rollup refresh",
			zap.Uint("guardianId", guardianID), zap.Uint64("generation", gen))
		return false
	}
	st.published = gen
	st.rollup = rollup
	s.mu.Unlock()

	s.cacheRollup(ctx, guardianID, rollup)
	return true
}

func (s *RollupService) publishError(guardianID uint, gen uint64, err error) {
	msg := err.Error()
	rollup := &GuardianRollup{
		Children:     []Dependent{},
		ChildrenData: []ChildClassroomData{},
		Error:        &msg,
		RefreshedAt:  time.Now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(guardianID)
	if gen < st.published {
		return
	}
	st.published = gen
	st.rollup = rollup
}

// snapshot copies the held rollup, marking it loading while a refresh is in
// flight.
func (s *RollupService) snapshot(guardianID uint) *GuardianRollup {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.guardians[guardianID]
	if !ok || st.rollup == nil {
		return nil
	}
	out := *st.rollup
	out.IsLoading = st.inFlight > 0
	return &out
}

func (s *RollupService) adopt(guardianID uint, rollup *GuardianRollup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(guardianID)
	if st.rollup == nil {
		st.rollup = rollup
	}
}

func (s *RollupService) cacheKey(guardianID uint) string {
	return fmt.Sprintf("classroom:rollup:%d", guardianID)
}

func (s *RollupService) cacheRollup(ctx context.Context, guardianID uint, rollup *GuardianRollup) {
	if s.Redis == nil {
		return
	}
	payload, err := json.Marshal(rollup)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, s.cacheKey(guardianID), payload, s.CacheTTL).Err(); err != nil {
		logger.Log.Debug("rollup cache write failed", zap.Error(err))
	}
}

func (s *RollupService) cachedRollup(ctx context.Context, guardianID uint) *GuardianRollup {
	if s.Redis == nil {
		return nil
	}
	payload, err := s.Redis.Get(ctx, s.cacheKey(guardianID)).Bytes()
	if err != nil {
		return nil
	}
	var rollup GuardianRollup
	if err := json.Unmarshal(payload, &rollup); err != nil {
		return nil
	}
	return &rollup
}

// ComputeOverallStats folds the per-child stats. The overall average only
// covers children with a non-nil average, mirroring the per-child exclusion
// rule one level up.
func ComputeOverallStats(children []Dependent, data []ChildClassroomData) OverallStats {
	stats := OverallStats{TotalChildren: len(children)}

	var sum float64
	var withGrades int
	for _, child := range data {
		stats.TotalCourses += child.Stats.TotalCourses
		stats.TotalCompleted += child.Stats.CompletedSubmissions
		stats.TotalPending += child.Stats.PendingSubmissions
		if child.HasClassroom {
			stats.ChildrenWithClassroom++
		}
		if child.Stats.AverageGrade != nil {
			sum += float64(*child.Stats.AverageGrade)
			withGrades++
		}
	}

	if withGrades > 0 {
		avg := int(math.Round(sum / float64(withGrades)))
		stats.OverallAverage = &avg
	}

	return stats
}
