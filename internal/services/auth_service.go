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

// RegisterInput is the data accepted when creating an account. It has no role
// field: self-registered accounts always get auth.RoleUser.
type RegisterInput struct {
	Username    string `json:"username" form:"username" validate:"required,min=3,max=50"`
	Email       string `json:"email" form:"email" validate:"required,min=5,max=100,email"`
	FirstName   string `json:"first_name" form:"first_name" validate:"required,min=1,max=50"`
	LastName    string `json:"last_name" form:"last_name" validate:"required,min=1,max=50"`
	Password    string `json:"password" form:"password" validate:"required,min=6,max=100,maxbytes=72"`
	PhoneNumber string `json:"phone_number" form:"phone_number" validate:"omitempty,min=10,max=15"`
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo  repositories.UserRepository
	hasher    auth.PasswordHasher
	tokens    *auth.TokenManager
	publisher EventPublisher
	validate  *validator.Validate
	log       logrus.FieldLogger
}

// NewAuthService creates a new AuthService. publisher may be nil.
func NewAuthService(userRepo repositories.UserRepository, hasher auth.PasswordHasher, tokens *auth.TokenManager, publisher EventPublisher, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		hasher:    hasher,
		tokens:    tokens,
		publisher: publisher,
		validate:  newValidator(),
		log:       log.WithField("component", "auth"),
	}
}

// RegisterUser validates input, hashes the password and stores a new user. It
// does not log the user in.
func (s *AuthService) RegisterUser(ctx context.Context, input RegisterInput) (*models.User, error) {
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByUsername(ctx, input.Username); err == nil {
		return nil, fmt.Errorf("username '%s' %w", input.Username, ErrConflict)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, fmt.Errorf("email '%s' %w", input.Email, ErrConflict)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:       input.Username,
		Email:          input.Email,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		HashedPassword: hashedPassword,
		Role:           auth.RoleUser,
		IsActive:       true,
	}
	if input.PhoneNumber != "" {
		phone := input.PhoneNumber
		user.PhoneNumber = &phone
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("username or email %w", ErrConflict)
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.log.WithField("user_id", user.ID).Info("user registered")
	publishEvent(s.publisher, s.log, Event{Type: EventUserRegistered, UserID: user.ID})
	return user, nil
}

// Authenticate returns the user whose credentials match.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Verify(password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// LoginUser authenticates a user and returns a signed access token.
func (s *AuthService) LoginUser(ctx context.Context, username, password string) (string, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(user.Username, user.ID, user.Role, s.tokens.TTL())
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	s.log.WithField("user_id", user.ID).Debug("access token issued")
	return token, nil
}

// ValidateToken resolves a bearer token into the caller's identity. Every
// failure is reported as auth.ErrUnauthenticated.
func (s *AuthService) ValidateToken(tokenString string) (auth.Identity, error) {
	identity, err := s.tokens.Resolve(tokenString)
	if err != nil {
		s.log.WithError(err).Debug("token rejected")
		return auth.Identity{}, auth.ErrUnauthenticated
	}
	return identity, nil
}
