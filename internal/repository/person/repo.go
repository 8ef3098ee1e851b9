package person

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/duma2005/moviedeck/internal/domain"
)

// Querier is the consumer interface over a pgx pool (satisfied by pgxmock).
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repo provides person reads over Postgres.
type Repo struct {
	db Querier
}

// New creates a person repository.
func New(db Querier) *Repo {
	return &Repo{db: db}
}

// GetByID returns a person or domain.ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, id int64) (domain.Person, error) {
	var p domain.Person
	var avatarURL, bio *string
	err := r.db.QueryRow(ctx, `
		SELECT person_id, full_name, birth_date, avatar_url, bio
		FROM persons WHERE person_id = $1
	`, id).Scan(&p.ID, &p.FullName, &p.BirthDate, &avatarURL, &bio)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Person{}, domain.ErrNotFound
		}
		return domain.Person{}, fmt.Errorf("get person %d: %w", id, err)
	}
	if avatarURL != nil {
		p.AvatarURL = *avatarURL
	}
	if bio != nil {
		p.Bio = *bio
	}
	return p, nil
}

// Credits returns the movies a person appears in, with their role.
func (r *Repo) Credits(ctx context.Context, personID int64) ([]domain.Credit, error) {
	rows, err := r.db.Query(ctx, `
		SELECT mc.movie_id, m.title, mc.role, COALESCE(mc.character_name, '')
		FROM movie_cast mc
		JOIN movies m ON m.movie_id = mc.movie_id
		WHERE mc.person_id = $1
		ORDER BY m.title ASC
	`, personID)
	if err != nil {
		return nil, fmt.Errorf("person %d credits: %w", personID, err)
	}
	defer rows.Close()

	var credits []domain.Credit
	for rows.Next() {
		var c domain.Credit
		if err := rows.Scan(&c.MovieID, &c.Title, &c.Role, &c.CharacterName); err != nil {
			return nil, fmt.Errorf("scan credit: %w", err)
		}
		credits = append(credits, c)
	}
	return credits, rows.Err()
}
