package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/shelfnotes/shelfnotes/internal/platform/httpx"
)

// Service wraps signup and login business rules.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SignUp hashes the password and persists a new user.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, name, email, string(hash))
}

// Authenticate validates email/password credentials. An unknown email and a
// wrong password are indistinguishable to the caller so login responses
// cannot be used to enumerate registered addresses.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, httpx.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, httpx.ErrInvalidCredentials
	}
	return user, nil
}
