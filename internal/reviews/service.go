package reviews

import (
	"context"

	"github.com/shelfnotes/shelfnotes/internal/platform/httpx"
)

// RepositoryPort defines data access methods for reviews.
type RepositoryPort interface {
	ListWithAuthors(ctx context.Context) ([]ReviewWithAuthor, error)
	Create(ctx context.Context, userID int64, bookTitle, body string, rating int, mood string) (*Review, error)
	GetByID(ctx context.Context, id int64) (*Review, error)
	Delete(ctx context.Context, id int64) error
}

// Service handles review business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns all reviews with authors, newest first.
func (s *Service) List(ctx context.Context) ([]ReviewWithAuthor, error) {
	return s.repo.ListWithAuthors(ctx)
}

// Create persists a review owned by subjectID.
func (s *Service) Create(ctx context.Context, subjectID int64, bookTitle, body string, rating int, mood string) (*Review, error) {
	return s.repo.Create(ctx, subjectID, bookTitle, body, rating, mood)
}

// Delete removes a review if subjectID owns it. Existence is checked before
// ownership, so a missing id reports not-found even to non-owners and the
// not-found/forbidden outcomes stay distinguishable.
func (s *Service) Delete(ctx context.Context, id, subjectID int64) error {
	review, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if review.UserID != subjectID {
		return httpx.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
