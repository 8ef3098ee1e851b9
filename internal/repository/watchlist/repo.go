package watchlist

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

// Repo provides watchlist (favorites) storage over Postgres.
type Repo struct {
	db Querier
}

// New creates a watchlist repository.
func New(db Querier) *Repo {
	return &Repo{db: db}
}

// Add puts a movie on a user's watchlist. Adding twice is a no-op.
func (r *Repo) Add(ctx context.Context, userID, movieID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO favorites (user_id, movie_id) VALUES ($1, $2)
		ON CONFLICT (user_id, movie_id) DO NOTHING
	`, userID, movieID)
	if err != nil {
		return fmt.Errorf("add to watchlist: %w", err)
	}
	return nil
}

// Remove takes a movie off a user's watchlist.
func (r *Repo) Remove(ctx context.Context, userID, movieID int64) error {
	tag, err := r.db.Exec(ctx,
		"DELETE FROM favorites WHERE user_id = $1 AND movie_id = $2", userID, movieID)
	if err != nil {
		return fmt.Errorf("remove from watchlist: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns the movies on a user's watchlist, most recently added first.
func (r *Repo) List(ctx context.Context, userID int64) ([]domain.Movie, error) {
	rows, err := r.db.Query(ctx, `
		SELECT m.movie_id, m.title, m.release_date, m.imdb_score, m.poster_url
		FROM favorites f
		JOIN movies m ON m.movie_id = f.movie_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	defer rows.Close()

	var movies []domain.Movie
	for rows.Next() {
		var m domain.Movie
		var posterURL *string
		if err := rows.Scan(&m.ID, &m.Title, &m.ReleaseDate, &m.IMDbScore, &posterURL); err != nil {
			return nil, fmt.Errorf("scan watchlist movie: %w", err)
		}
		if posterURL != nil {
			m.PosterURL = *posterURL
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}
