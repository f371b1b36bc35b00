package service

import (
	"context"
	"errors"
	"fmt"

	"moodly/internal/common"
	"moodly/internal/common/security"
	"moodly/internal/domain/model"
	"moodly/internal/domain/repository"

	"github.com/google/uuid"
)

const (
	minPasswordLen = 6
	// bcrypt rejects anything longer than 72 bytes, so overlong passwords
	// are turned away at validation instead of surfacing as a server error.
	maxPasswordLen = 72
)

// errInvalidCredentials is shared by the unknown-email and wrong-password
// paths so the two failures are indistinguishable to the client.
var errInvalidCredentials = fmt.Errorf("invalid credentials: %w", common.ErrUnauthorized)

type AuthService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *model.User
	Token string
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) error {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fmt.Errorf("name, email and password are required: %w", common.ErrValidation)
	}
	if len(req.Password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, common.ErrValidation)
	}
	if len(req.Password) > maxPasswordLen {
		return fmt.Errorf("password must be at most %d bytes: %w", maxPasswordLen, common.ErrValidation)
	}

	_, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err == nil {
		return fmt.Errorf("email already registered: %w", common.ErrConflict)
	}
	if !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
	}

	// The unique constraint still backstops a concurrent registration.
	if err := s.userRepo.Create(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required: %w", common.ErrValidation)
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, errInvalidCredentials
	}

	token, err := security.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{User: user.Public(), Token: token}, nil
}
