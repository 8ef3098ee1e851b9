package genre

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/duma2005/moviedeck/internal/domain"
)

// Querier is the consumer interface over a pgx pool (satisfied by pgxmock).
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repo provides genre reads over Postgres.
type Repo struct {
	db Querier
}

// New creates a genre repository.
func New(db Querier) *Repo {
	return &Repo{db: db}
}

// List returns all genres ordered by name.
func (r *Repo) List(ctx context.Context) ([]domain.Genre, error) {
	rows, err := r.db.Query(ctx, "SELECT genre_id, name FROM genres ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()

	var genres []domain.Genre
	for rows.Next() {
		var g domain.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}
