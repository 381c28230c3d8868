package reviews

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelfnotes/shelfnotes/internal/platform/httpx"
)

// Repository provides PostgreSQL backed persistence for reviews.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListWithAuthors returns all reviews joined with the author name, newest
// first. Ties on the timestamp fall back to insertion order via the id.
func (r *Repository) ListWithAuthors(ctx context.Context) ([]ReviewWithAuthor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.book_title, r.review, r.rating, r.mood, r.user_id, r.created_at, u.name
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		ORDER BY r.created_at DESC, r.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []ReviewWithAuthor{}
	for rows.Next() {
		var item ReviewWithAuthor
		if err := rows.Scan(&item.ID, &item.BookTitle, &item.Review.Review, &item.Rating,
			&item.Mood, &item.UserID, &item.CreatedAt, &item.Users.Name); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts a review and returns the stored record.
func (r *Repository) Create(ctx context.Context, userID int64, bookTitle, body string, rating int, mood string) (*Review, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO reviews (user_id, book_title, review, rating, mood)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, book_title, review, rating, mood, user_id, created_at`,
		userID, bookTitle, body, rating, mood)
	var review Review
	if err := row.Scan(&review.ID, &review.BookTitle, &review.Review, &review.Rating,
		&review.Mood, &review.UserID, &review.CreatedAt); err != nil {
		return nil, err
	}
	return &review, nil
}

// GetByID fetches a single review.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Review, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, book_title, review, rating, mood, user_id, created_at
		FROM reviews WHERE id = $1`, id)
	var review Review
	if err := row.Scan(&review.ID, &review.BookTitle, &review.Review, &review.Rating,
		&review.Mood, &review.UserID, &review.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &review, nil
}

// Delete removes a review by id. A concurrent delete that already removed
// the row surfaces as httpx.ErrNotFound, not a failure.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
