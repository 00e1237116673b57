package service

import (
	"classlink_backend/internal/config"
	"classlink_backend/internal/model"
	"classlink_backend/internal/util"
	"context"
	"crypto/rand"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Ambiguous characters are left out so codes survive being read aloud.
const linkingCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const linkingCodeLength = 8

type LinkingCodeStore interface {
	Create(code *model.StudentLinkingCode) error
	FindByStudentID(ctx context.Context, studentID uint) ([]model.StudentLinkingCode, error)
	FindUnusedByCode(ctx context.Context, code string) (*model.StudentLinkingCode, error)
	MarkUsed(ctx context.Context, id string, usedBy uint) error
}

// RollupInvalidator drops a guardian's held rollup so the next read resolves
// the dependent list again.
type RollupInvalidator interface {
	Invalidate(ctx context.Context, guardianID uint)
}

type RelationWriter interface {
	Create(relation *model.ParentStudentRelation) error
	Exists(ctx context.Context, parentID, studentID uint) (bool, error)
	FindByParentID(ctx context.Context, parentID uint) ([]model.ParentStudentRelation, error)
	Delete(relationID, parentID uint) error
}

// LinkingService owns the one-time code exchange that ties a parent account
// to a student account.
type LinkingService struct {
	Codes     LinkingCodeStore
	Relations RelationWriter
	Rollups   RollupInvalidator
	Cfg       *config.Config

	nowFunc func() time.Time
}

func NewLinkingService(codes LinkingCodeStore, relations RelationWriter, rollups RollupInvalidator, cfg *config.Config) *LinkingService {
	return &LinkingService{
		Codes:     codes,
		Relations: relations,
		Rollups:   rollups,
		Cfg:       cfg,
		nowFunc:   time.Now,
	}
}

func (s *LinkingService) GenerateCode(studentID uint, institutionalEmail, classroomEmail string) (*model.StudentLinkingCode, error) {
	raw, err := randomLinkingCode()
	if err != nil {
		return nil, err
	}

	code := &model.StudentLinkingCode{
		StudentID: studentID,
		Code:      raw,
		ExpiresAt: s.nowFunc().Add(s.Cfg.Classroom.LinkingCodeTTL),
	}
	if institutionalEmail != "" {
		code.InstitutionalEmail = &institutionalEmail
	}
	if classroomEmail != "" {
		code.ClassroomEmail = &classroomEmail
	}

	// Collisions are vanishingly rare with 32^8 codes, but the column is
	// unique; one retry covers the unlucky case.
	err = s.Codes.Create(code)
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "duplicate") {
		if code.Code, err = randomLinkingCode(); err != nil {
			return nil, err
		}
		err = s.Codes.Create(code)
	}
	if err != nil {
		return nil, err
	}
	return code, nil
}

func (s *LinkingService) CodesForStudent(ctx context.Context, studentID uint) ([]model.StudentLinkingCode, error) {
	return s.Codes.FindByStudentID(ctx, studentID)
}

// RedeemCode consumes a valid code and creates the parent-student relation.
func (s *LinkingService) RedeemCode(ctx context.Context, parentID uint, rawCode string) (*model.ParentStudentRelation, error) {
	code := strings.ToUpper(strings.TrimSpace(rawCode))

	lc, err := s.Codes.FindUnusedByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidLinkingCode
		}
		return nil, err
	}
	if s.nowFunc().After(lc.ExpiresAt) {
		return nil, util.ErrLinkingCodeExpired
	}

	exists, err := s.Relations.Exists(ctx, parentID, lc.StudentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrRelationExists
	}

	relation := &model.ParentStudentRelation{
		ParentID:  parentID,
		StudentID: lc.StudentID,
	}
	if err := s.Relations.Create(relation); err != nil {
		return nil, err
	}

	if err := s.Codes.MarkUsed(ctx, lc.ID, parentID); err != nil {
		return nil, err
	}

	// The guardian's held rollup predates this relation; force the next read
	// to resolve the dependent list again.
	if s.Rollups != nil {
		s.Rollups.Invalidate(ctx, parentID)
	}

	return relation, nil
}

func (s *LinkingService) RelationsForParent(ctx context.Context, parentID uint) ([]model.ParentStudentRelation, error) {
	return s.Relations.FindByParentID(ctx, parentID)
}

func (s *LinkingService) RemoveRelation(ctx context.Context, relationID, parentID uint) error {
	err := s.Relations.Delete(relationID, parentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrRelationNotFound
	}
	if err == nil && s.Rollups != nil {
		s.Rollups.Invalidate(ctx, parentID)
	}
	return err
}

func randomLinkingCode() (string, error) {
	buf := make([]byte, linkingCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i := range buf {
		buf[i] = linkingCodeAlphabet[int(buf[i])%len(linkingCodeAlphabet)]
	}
	return string(buf), nil
}
