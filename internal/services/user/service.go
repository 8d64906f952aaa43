// Package user exposes the administrative user surface: listing accounts and
// toggling their active state. Self-service flows (register, login) live in
// the auth package.
package user

import (
	"context"
	"fmt"
	"log"

	domainerrors "bankcards/internal/errors"
	"bankcards/internal/models"
	"bankcards/internal/repositories"
)

type Service interface {
	List(ctx context.Context, limit, offset int) ([]models.User, int64, error)
	Get(ctx context.Context, userID uint) (*models.User, error)

	// Activate re-enables a deactivated account so it can log in again.
	Activate(ctx context.Context, userID uint) (*models.User, error)
	// Deactivate disables an account and revokes its live sessions.
	Deactivate(ctx context.Context, userID uint) (*models.User, error)
}

type service struct {
	userRepo repositories.UserRepository
}

func NewService(userRepo repositories.UserRepository) Service {
	if userRepo == nil {
		panic("user repository is required")
	}
	return &service{userRepo: userRepo}
}

func (s *service) List(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	return s.userRepo.List(limit, offset)
}

func (s *service) Get(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return nil, domainerrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *service) Activate(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Active {
		return nil, domainerrors.ErrInvalidOperation.WithMessage("user is already active")
	}

	user.Active = true
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to activate user: %w", err)
	}
	log.Printf("user %d activated", user.ID)
	return user, nil
}

func (s *service) Deactivate(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, domainerrors.ErrInvalidOperation.WithMessage("user is already deactivated")
	}

	user.Active = false
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to deactivate user: %w", err)
	}
	// Bumping the token version kills tokens issued before deactivation.
	if err := s.userRepo.IncrementTokenVersion(user.ID); err != nil {
		log.Printf("failed to revoke sessions for user %d: %v", user.ID, err)
	}
	log.Printf("user %d deactivated", user.ID)
	return user, nil
}
