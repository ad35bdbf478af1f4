package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"blog-service/internal/auth"
	"blog-service/internal/domain"
	"blog-service/internal/repository"
)

// UserService describes account lifecycle operations.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	users  repository.UserRepository
	hasher *auth.Hasher
	opts   options
}

func NewUserService(users repository.UserRepository, hasher *auth.Hasher, opts ...Option) UserService {
	return &userService{
		users:  users,
		hasher: hasher,
		opts:   buildOptions(opts),
	}
}

func (s *userService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.opts.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.opts.logger.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("user registered")
	return sanitizeUser(user), nil
}

// Authenticate resolves the username and checks the password. A missing user
// is verified against the hasher's dummy hash so both failure cases do the
// same work and leave through the same return.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash := s.hasher.DummyHash()
	if user != nil {
		hash = user.PasswordHash
	}
	if !s.hasher.Verify(password, hash) || user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.opts.logger.WithField("user_id", id).Info("user deleted")
	return nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
