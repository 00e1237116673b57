package service

import (
	"classlink_backend/internal/model"
	"classlink_backend/internal/util"
	"context"
	"fmt"
)

// Dependent is the directory's view of a student a guardian supervises.
type Dependent struct {
	ID          uint   `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

type RelationStore interface {
	FindByParentID(ctx context.Context, parentID uint) ([]model.ParentStudentRelation, error)
}

type ProfileStore interface {
	FindByIDs(ctx context.Context, ids []uint) ([]model.User, error)
}

// DirectoryService resolves which students a guardian may view. The lookup is
// a two-step join: relation rows first, then the profile records they point
// at. Either step failing fails the whole call; there are no partial results.
type DirectoryService struct {
	Relations RelationStore
	Profiles  ProfileStore
}

func NewDirectoryService(relations RelationStore, profiles ProfileStore) *DirectoryService {
	return &DirectoryService{
		Relations: relations,
		Profiles:  profiles,
	}
}

func (s *DirectoryService) ListDependents(ctx context.Context, guardianID uint) ([]Dependent, error) {
	relations, err := s.Relations.FindByParentID(ctx, guardianID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrDirectoryUnavailable, err)
	}

	if len(relations) == 0 {
		return []Dependent{}, nil
	}

	ids := make([]uint, 0, len(relations))
	for _, rel := range relations {
		ids = append(ids, rel.StudentID)
	}

	profiles, err := s.Profiles.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrDirectoryUnavailable, err)
	}

	dependents := make([]Dependent, 0, len(profiles))
	for _, p := range profiles {
		dependents = append(dependents, Dependent{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			Email:       p.Email,
		})
	}

	return dependents, nil
}
