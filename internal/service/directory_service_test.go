package service

import (
	"classlink_backend/internal/model"
	"classlink_backend/internal/util"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRelationStore struct {
	relations []model.ParentStudentRelation
	err       error
}

func (s *fakeRelationStore) FindByParentID(ctx context.Context, parentID uint) ([]model.ParentStudentRelation, error) {
	return s.relations, s.err
}

type fakeProfileStore struct {
	users []model.User
	err   error
	calls int
}

func (s *fakeProfileStore) FindByIDs(ctx context.Context, ids []uint) ([]model.User, error) {
	s.calls++
	return s.users, s.err
}

func TestListDependents(t *testing.T) {
	relations := &fakeRelationStore{relations: []model.ParentStudentRelation{
		{ParentID: 1, StudentID: 10},
		{ParentID: 1, StudentID: 11},
	}}
	profiles := &fakeProfileStore{users: []model.User{
		{BaseModel: model.BaseModel{ID: 10}, DisplayName: "Ana", Email: "ana@school.test"},
		{BaseModel: model.BaseModel{ID: 11}, DisplayName: "Luis", Email: "luis@school.test"},
	}}
	svc := NewDirectoryService(relations, profiles)

	dependents, err := svc.ListDependents(context.Background(), 1)

	require.NoError(t, err)
	require.Len(t, dependents, 2)
	assert.Equal(t, Dependent{ID: 10, DisplayName: "Ana", Email: "ana@school.test"}, dependents[0])
	assert.Equal(t, Dependent{ID: 11, DisplayName: "Luis", Email: "luis@school.test"}, dependents[1])
}

func TestListDependentsNoRelations(t *testing.T) {
	profiles := &fakeProfileStore{}
	svc := NewDirectoryService(&fakeRelationStore{}, profiles)

	dependents, err := svc.ListDependents(context.Background(), 1)

	require.NoError(t, err)
	assert.NotNil(t, dependents)
	assert.Empty(t, dependents)
	assert.Zero(t, profiles.calls, "no relations means no profile lookup")
}

func TestListDependentsRelationFailure(t *testing.T) {
	svc := NewDirectoryService(&fakeRelationStore{err: errors.New("connection refused")}, &fakeProfileStore{})

	_, err := svc.ListDependents(context.Background(), 1)

	assert.ErrorIs(t, err, util.ErrDirectoryUnavailable)
}

func TestListDependentsProfileFailure(t *testing.T) {
	relations := &fakeRelationStore{relations: []model.ParentStudentRelation{{ParentID: 1, StudentID: 10}}}
	svc := NewDirectoryService(relations, &fakeProfileStore{err: errors.New("connection refused")})

	_, err := svc.ListDependents(context.Background(), 1)

	assert.ErrorIs(t, err, util.ErrDirectoryUnavailable, "either step failing fails the whole call")
}
