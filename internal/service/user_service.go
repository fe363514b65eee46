package service

import (
	"context"
	"fmt"

	"boardhub/internal/model"
	"boardhub/internal/repository"

	"github.com/google/uuid"
)

type UserService struct {
	users repository.UserRepositoryInterface
}

type UserServiceInterface interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

var _ UserServiceInterface = (*UserService)(nil)

func NewUserService(users repository.UserRepositoryInterface) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	return user, nil
}
