package service

import (
	"classlink_backend/internal/config"
	"classlink_backend/internal/model"
	"classlink_backend/internal/util"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCodeStore struct {
	createErrs []error
	created    []*model.StudentLinkingCode
	active     *model.StudentLinkingCode
	findErr    error
	markedID   string
	markedBy   uint
}

func (s *fakeCodeStore) Create(code *model.StudentLinkingCode) error {
	s.created = append(s.created, code)
	if len(s.createErrs) > 0 {
		err := s.createErrs[0]
		s.createErrs = s.createErrs[1:]
		return err
	}
	return nil
}

func (s *fakeCodeStore) FindByStudentID(ctx context.Context, studentID uint) ([]model.StudentLinkingCode, error) {
	return nil, nil
}

func (s *fakeCodeStore) FindUnusedByCode(ctx context.Context, code string) (*model.StudentLinkingCode, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.active, nil
}

func (s *fakeCodeStore) MarkUsed(ctx context.Context, id string, usedBy uint) error {
	s.markedID = id
	s.markedBy = usedBy
	return nil
}

type fakeRelationWriter struct {
	exists    bool
	existsErr error
	created   *model.ParentStudentRelation
	deleteErr error
}

func (w *fakeRelationWriter) Create(relation *model.ParentStudentRelation) error {
	w.created = relation
	return nil
}

func (w *fakeRelationWriter) Exists(ctx context.Context, parentID, studentID uint) (bool, error) {
	return w.exists, w.existsErr
}

func (w *fakeRelationWriter) FindByParentID(ctx context.Context, parentID uint) ([]model.ParentStudentRelation, error) {
	return nil, nil
}

func (w *fakeRelationWriter) Delete(relationID, parentID uint) error {
	return w.deleteErr
}

type fakeInvalidator struct {
	invalidated []uint
}

func (f *fakeInvalidator) Invalidate(ctx context.Context, guardianID uint) {
	f.invalidated = append(f.invalidated, guardianID)
}

func linkingConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Classroom.LinkingCodeTTL = 24 * time.Hour
	return cfg
}

func TestGenerateCode(t *testing.T) {
	store := &fakeCodeStore{}
	svc := NewLinkingService(store, &fakeRelationWriter{}, nil, linkingConfig())
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.nowFunc = func() time.Time { return now }

	code, err := svc.GenerateCode(5, "ana@school.test", "")

	require.NoError(t, err)
	assert.Len(t, code.Code, linkingCodeLength)
	for _, ch := range code.Code {
		assert.Contains(t, linkingCodeAlphabet, string(ch))
	}
	assert.Equal(t, uint(5), code.StudentID)
	assert.Equal(t, now.Add(24*time.Hour), code.ExpiresAt)
	require.NotNil(t, code.InstitutionalEmail)
	assert.Equal(t, "ana@school.test", *code.InstitutionalEmail)
	assert.Nil(t, code.ClassroomEmail)
}

func TestGenerateCodeRetriesOnCollision(t *testing.T) {
	store := &fakeCodeStore{createErrs: []error{errors.New("Error 1062: Duplicate entry")}}
	svc := NewLinkingService(store, &fakeRelationWriter{}, nil, linkingConfig())

	code, err := svc.GenerateCode(5, "", "")

	require.NoError(t, err)
	require.Len(t, store.created, 2)
	assert.Len(t, code.Code, linkingCodeLength)
}

func TestRedeemCode(t *testing.T) {
	store := &fakeCodeStore{active: &model.StudentLinkingCode{
		UUIDBase:  model.UUIDBase{ID: "code-uuid"},
		StudentID: 10,
		Code:      "ABCD2345",
		ExpiresAt: time.Now().Add(time.Hour),
	}}
	relations := &fakeRelationWriter{}
	rollups := &fakeInvalidator{}
	svc := NewLinkingService(store, relations, rollups, linkingConfig())

	relation, err := svc.RedeemCode(context.Background(), 1, "  abcd2345 ")

	require.NoError(t, err)
	assert.Equal(t, uint(1), relation.ParentID)
	assert.Equal(t, uint(10), relation.StudentID)
	require.NotNil(t, relations.created)
	assert.Equal(t, "code-uuid", store.markedID)
	assert.Equal(t, uint(1), store.markedBy)
	assert.Equal(t, []uint{1}, rollups.invalidated, "the new relation must invalidate the parent's rollup")
}

func TestRedeemCodeExpired(t *testing.T) {
	store := &fakeCodeStore{active: &model.StudentLinkingCode{
		StudentID: 10,
		Code:      "ABCD2345",
		ExpiresAt: time.Now().Add(-time.Minute),
	}}
	rollups := &fakeInvalidator{}
	svc := NewLinkingService(store, &fakeRelationWriter{}, rollups, linkingConfig())

	_, err := svc.RedeemCode(context.Background(), 1, "ABCD2345")

	assert.ErrorIs(t, err, util.ErrLinkingCodeExpired)
	assert.Empty(t, store.markedID, "an expired code must not be consumed")
	assert.Empty(t, rollups.invalidated)
}

func TestRedeemCodeInvalid(t *testing.T) {
	store := &fakeCodeStore{findErr: gorm.ErrRecordNotFound}
	svc := NewLinkingService(store, &fakeRelationWriter{}, nil, linkingConfig())

	_, err := svc.RedeemCode(context.Background(), 1, "NOPE0000")

	assert.ErrorIs(t, err, util.ErrInvalidLinkingCode)
}

func TestRedeemCodeExistingRelation(t *testing.T) {
	store := &fakeCodeStore{active: &model.StudentLinkingCode{
		StudentID: 10,
		ExpiresAt: time.Now().Add(time.Hour),
	}}
	svc := NewLinkingService(store, &fakeRelationWriter{exists: true}, nil, linkingConfig())

	_, err := svc.RedeemCode(context.Background(), 1, "ABCD2345")

	assert.ErrorIs(t, err, util.ErrRelationExists)
}

func TestRemoveRelation(t *testing.T) {
	rollups := &fakeInvalidator{}
	svc := NewLinkingService(&fakeCodeStore{}, &fakeRelationWriter{}, rollups, linkingConfig())

	err := svc.RemoveRelation(context.Background(), 7, 1)

	require.NoError(t, err)
	assert.Equal(t, []uint{1}, rollups.invalidated, "removing a relation must invalidate the parent's rollup")
}

func TestRemoveRelationNotFound(t *testing.T) {
	rollups := &fakeInvalidator{}
	svc := NewLinkingService(&fakeCodeStore{}, &fakeRelationWriter{deleteErr: gorm.ErrRecordNotFound}, rollups, linkingConfig())

	err := svc.RemoveRelation(context.Background(), 99, 1)

	assert.ErrorIs(t, err, util.ErrRelationNotFound)
	assert.Empty(t, rollups.invalidated)
}

func TestRandomLinkingCodeAvoidsAmbiguousCharacters(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := randomLinkingCode()
		require.NoError(t, err)
		assert.Len(t, code, linkingCodeLength)
		assert.NotContains(t, code, "O")
		assert.NotContains(t, code, "0")
		assert.NotContains(t, code, "I")
		assert.NotContains(t, code, "1")
		assert.Equal(t, strings.ToUpper(code), code)
	}
}
