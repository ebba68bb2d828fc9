package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"deadline_tracker/internal/errdefs"
	"deadline_tracker/internal/model"
	"deadline_tracker/pkg/logging"
)

const minPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type UserRepository interface {
	CreateUser(ctx context.Context, input *model.RepositoryCreateUserInput) (*model.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

type SessionStore interface {
	Create(ctx context.Context, userID uuid.UUID) (string, error)
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
	Delete(ctx context.Context, token string) error
}

type UserService struct {
	userRepository UserRepository
	sessions       SessionStore
}

func NewUserService(userRepository UserRepository, sessions SessionStore) *UserService {
	return &UserService{userRepository: userRepository, sessions: sessions}
}

func (s *UserService) Register(ctx context.Context, input *model.RegisterInput) (*model.User, error) {
	email := normalizeEmail(input.Email)
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", errdefs.ErrValidation)
	}
	if len(input.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters long", errdefs.ErrValidation, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	user, err := s.userRepository.CreateUser(ctx, &model.RepositoryCreateUserInput{
		Id:           id,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
	})
	if err != nil {
		return nil, err
	}

	if logger, ok := logging.GetFromContext(ctx); ok {
		logger.Info(ctx, "user registered", zap.String("user_id", user.Id.String()))
	}
	return user, nil
}

// Login returns the user and a fresh session token.
func (s *UserService) Login(ctx context.Context, input *model.LoginInput) (*model.User, string, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", errdefs.ErrValidation)
	}

	user, err := s.userRepository.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errdefs.ErrNotFound) {
			return nil, "", errdefs.ErrAuthentication
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, "", errdefs.ErrAuthentication
	}

	token, err := s.sessions.Create(ctx, user.Id)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *UserService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

func (s *UserService) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	return s.sessions.Resolve(ctx, token)
}

func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.userRepository.GetUser(ctx, userID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
