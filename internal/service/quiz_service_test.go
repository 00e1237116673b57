package service

import (
	"classlink_backend/internal/model"
	"classlink_backend/internal/util"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeQuizStore struct {
	quizzes map[string]*model.Quiz
	results []*model.QuizResult
}

func newFakeQuizStore() *fakeQuizStore {
	return &fakeQuizStore{quizzes: map[string]*model.Quiz{}}
}

func (f *fakeQuizStore) Create(quiz *model.Quiz) error {
	if quiz.ID == "" {
		quiz.ID = model.GenerateUUID()
	}
	f.quizzes[quiz.ID] = quiz
	return nil
}

func (f *fakeQuizStore) FindVisibleTo(ctx context.Context, userID uint) ([]model.Quiz, error) {
	var out []model.Quiz
	for _, q := range f.quizzes {
		if q.CreatorID == userID || q.IsShared {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *fakeQuizStore) FindByID(ctx context.Context, id string) (*model.Quiz, error) {
	quiz, ok := f.quizzes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return quiz, nil
}

func (f *fakeQuizStore) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Quiz, error) {
	quiz, ok := f.quizzes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if title, ok := updates["title"].(string); ok {
		quiz.Title = title
	}
	if shared, ok := updates["is_shared"].(bool); ok {
		quiz.IsShared = shared
	}
	return quiz, nil
}

func (f *fakeQuizStore) Delete(ctx context.Context, id string) error {
	if _, ok := f.quizzes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.quizzes, id)
	return nil
}

func (f *fakeQuizStore) CreateResult(result *model.QuizResult) error {
	if result.ID == "" {
		result.ID = model.GenerateUUID()
	}
	f.results = append(f.results, result)
	return nil
}

func (f *fakeQuizStore) FindResults(ctx context.Context, userID uint, quizID string) ([]model.QuizResult, error) {
	var out []model.QuizResult
	for _, r := range f.results {
		if r.UserID != userID {
			continue
		}
		if quizID != "" && r.QuizID != quizID {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func sampleQuestions() []model.QuizQuestion {
	return []model.QuizQuestion{
		{ID: "q1", Question: "2+2?", Options: []string{"3", "4", "5"}, CorrectAnswer: 1},
		{ID: "q2", Question: "Capital of France?", Options: []string{"Paris", "Lyon"}, CorrectAnswer: 0},
		{ID: "q3", Question: "Largest planet?", Options: []string{"Mars", "Jupiter"}, CorrectAnswer: 1},
	}
}

func TestSubmitAttemptScoresServerSide(t *testing.T) {
	store := newFakeQuizStore()
	svc := NewQuizService(store)
	svc.nowFunc = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }

	quiz, err := svc.CreateQuiz(1, "Basics", "", sampleQuestions(), false)
	require.NoError(t, err)

	// q1 right, q2 wrong, q3 unanswered, plus an answer for a question
	// that does not exist.
	result, err := svc.SubmitAttempt(context.Background(), 1, quiz.ID, map[string]int{
		"q1":    1,
		"q2":    1,
		"ghost": 0,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 3, result.TotalQuestions)
	assert.Equal(t, quiz.ID, result.QuizID)
	assert.Equal(t, uint(1), result.UserID)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), result.CompletedAt)

	var recorded map[string]int
	require.NoError(t, json.Unmarshal(result.Answers, &recorded))
	assert.Equal(t, 1, recorded["q1"])
}

func TestQuizVisibility(t *testing.T) {
	store := newFakeQuizStore()
	svc := NewQuizService(store)

	private, err := svc.CreateQuiz(1, "Private", "", sampleQuestions(), false)
	require.NoError(t, err)
	shared, err := svc.CreateQuiz(1, "Shared", "", sampleQuestions(), true)
	require.NoError(t, err)

	_, err = svc.Quiz(context.Background(), 2, private.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	got, err := svc.Quiz(context.Background(), 2, shared.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shared", got.Title)

	got, err = svc.Quiz(context.Background(), 1, private.ID)
	require.NoError(t, err)
	assert.Equal(t, "Private", got.Title)
}

func TestUpdateQuizCreatorOnly(t *testing.T) {
	store := newFakeQuizStore()
	svc := NewQuizService(store)

	quiz, err := svc.CreateQuiz(1, "Mine", "", sampleQuestions(), true)
	require.NoError(t, err)

	_, err = svc.UpdateQuiz(context.Background(), 2, quiz.ID, map[string]interface{}{"title": "Hijacked"})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	err = svc.DeleteQuiz(context.Background(), 2, quiz.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	updated, err := svc.UpdateQuiz(context.Background(), 1, quiz.ID, map[string]interface{}{"title": "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
}

func TestQuizUnknownIDSurfacesNotFound(t *testing.T) {
	svc := NewQuizService(newFakeQuizStore())

	_, err := svc.Quiz(context.Background(), 1, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = svc.SubmitAttempt(context.Background(), 1, "missing", map[string]int{})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestResultsForFiltersByQuiz(t *testing.T) {
	store := newFakeQuizStore()
	svc := NewQuizService(store)

	first, err := svc.CreateQuiz(1, "First", "", sampleQuestions(), false)
	require.NoError(t, err)
	second, err := svc.CreateQuiz(1, "Second", "", sampleQuestions(), false)
	require.NoError(t, err)

	_, err = svc.SubmitAttempt(context.Background(), 1, first.ID, map[string]int{"q1": 1})
	require.NoError(t, err)
	_, err = svc.SubmitAttempt(context.Background(), 1, second.ID, map[string]int{"q1": 1})
	require.NoError(t, err)

	all, err := svc.ResultsFor(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := svc.ResultsFor(context.Background(), 1, first.ID)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, first.ID, scoped[0].QuizID)
}
