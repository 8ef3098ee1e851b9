package rating

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/duma2005/moviedeck/internal/domain"
)

// Querier is the consumer interface over a pgx pool (satisfied by pgxmock).
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repo provides rating storage over Postgres.
type Repo struct {
	db Querier
}

// New creates a rating repository.
func New(db Querier) *Repo {
	return &Repo{db: db}
}

// Upsert writes or overwrites a user's rating for a movie.
func (r *Repo) Upsert(ctx context.Context, userID, movieID int64, value float64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO ratings (user_id, movie_id, rating)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, movie_id) DO UPDATE SET rating = EXCLUDED.rating, updated_at = now()
	`, userID, movieID, value)
	if err != nil {
		return fmt.Errorf("upsert rating: %w", err)
	}
	return nil
}

// Delete removes a user's rating for a movie.
func (r *Repo) Delete(ctx context.Context, userID, movieID int64) error {
	tag, err := r.db.Exec(ctx,
		"DELETE FROM ratings WHERE user_id = $1 AND movie_id = $2", userID, movieID)
	if err != nil {
		return fmt.Errorf("delete rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByUser returns a user's ratings, most recently updated first.
func (r *Repo) ListByUser(ctx context.Context, userID int64) ([]domain.Rating, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, movie_id, rating, created_at, updated_at
		FROM ratings WHERE user_id = $1
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	var ratings []domain.Rating
	for rows.Next() {
		var rt domain.Rating
		if err := rows.Scan(&rt.UserID, &rt.MovieID, &rt.Value, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, rt)
	}
	return ratings, rows.Err()
}

// Aggregate returns the average and count of ratings for a movie.
func (r *Repo) Aggregate(ctx context.Context, movieID int64) (domain.RatingAggregate, error) {
	var agg domain.RatingAggregate
	err := r.db.QueryRow(ctx,
		"SELECT COALESCE(avg(rating), 0), count(*) FROM ratings WHERE movie_id = $1",
		movieID).Scan(&agg.Average, &agg.Count)
	if err != nil {
		return domain.RatingAggregate{}, fmt.Errorf("aggregate ratings: %w", err)
	}
	return agg, nil
}
