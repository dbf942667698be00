package services

import (
	"context"
	"errors"
	"fmt"

	"todoapp/internal/auth"
	"todoapp/internal/models"
	"todoapp/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// PasswordChange is the body of a password change request.
type PasswordChange struct {
	Password    string `json:"password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=100,maxbytes=72"`
}

type phoneNumberInput struct {
	PhoneNumber string `json:"phone_number" validate:"required,min=10,max=15"`
}

// UserService manages the caller's own profile.
type UserService struct {
	repo     repositories.UserRepository
	hasher   auth.PasswordHasher
	validate *validator.Validate
	log      logrus.FieldLogger
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository, hasher auth.PasswordHasher, log logrus.FieldLogger) *UserService {
	return &UserService{
		repo:     repo,
		hasher:   hasher,
		validate: newValidator(),
		log:      log.WithField("component", "users"),
	}
}

// GetProfile returns the user record of the caller.
func (s *UserService) GetProfile(ctx context.Context, identity auth.Identity) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword replaces the caller's password after checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, identity auth.Identity, change PasswordChange) error {
	if err := validateStruct(s.validate, change); err != nil {
		return err
	}

	user, err := s.GetProfile(ctx, identity)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(change.Password, user.HashedPassword) {
		return ErrInvalidCredentials
	}

	hashedPassword, err := s.hasher.Hash(change.NewPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return mapNotFound(err)
	}
	s.log.WithField("user_id", user.ID).Info("password changed")
	return nil
}

// UpdatePhoneNumber replaces the caller's phone number.
func (s *UserService) UpdatePhoneNumber(ctx context.Context, identity auth.Identity, phoneNumber string) error {
	if err := validateStruct(s.validate, phoneNumberInput{PhoneNumber: phoneNumber}); err != nil {
		return err
	}
	if err := s.repo.UpdatePhoneNumber(ctx, identity.ID, phoneNumber); err != nil {
		return mapNotFound(err)
	}
	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("storage error: %w", err)
}
