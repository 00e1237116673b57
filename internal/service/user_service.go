package service

import (
	"classlink_backend/internal/model"
	"classlink_backend/internal/repository"
)

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) Profile(userID uint) (*model.User, error) {
	return s.UserRepo.FindByID(userID)
}

func (s *UserService) UpdateProfile(userID uint, displayName, language string) error {
	updates := map[string]interface{}{}
	if displayName != "" {
		updates["display_name"] = displayName
	}
	if language != "" {
		updates["language"] = language
	}
	if len(updates) == 0 {
		return nil
	}
	return s.UserRepo.UpdateProfile(userID, updates)
}

func (s *UserService) SetAvatar(userID uint, avatarURL string) error {
	return s.UserRepo.UpdateAvatar(userID, avatarURL)
}
