package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema holds idempotent DDL executed at startup, in dependency order.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id       BIGSERIAL PRIMARY KEY,
		username      VARCHAR(50) UNIQUE NOT NULL,
		email         VARCHAR(100) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		full_name     VARCHAR(100),
		role          VARCHAR(10) NOT NULL DEFAULT 'user',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS movies (
		movie_id         BIGSERIAL PRIMARY KEY,
		title            VARCHAR(255) NOT NULL,
		original_title   VARCHAR(255),
		release_date     DATE,
		duration_minutes INTEGER,
		age_rating       VARCHAR(10),
		description      TEXT,
		storyline        TEXT,
		imdb_score       NUMERIC(3,1),
		imdb_vote_count  INTEGER,
		poster_url       VARCHAR(500),
		cover_url        VARCHAR(500),
		trailer_url      VARCHAR(500),
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS genres (
		genre_id BIGSERIAL PRIMARY KEY,
		name     VARCHAR(50) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS persons (
		person_id  BIGSERIAL PRIMARY KEY,
		full_name  VARCHAR(100) NOT NULL,
		birth_date DATE,
		avatar_url VARCHAR(500),
		bio        TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS movie_genres (
		movie_id BIGINT NOT NULL REFERENCES movies(movie_id),
		genre_id BIGINT NOT NULL REFERENCES genres(genre_id),
		PRIMARY KEY (movie_id, genre_id)
	)`,
	`CREATE TABLE IF NOT EXISTS movie_cast (
		movie_id       BIGINT NOT NULL REFERENCES movies(movie_id),
		person_id      BIGINT NOT NULL REFERENCES persons(person_id),
		role           VARCHAR(10) NOT NULL,
		character_name VARCHAR(100),
		PRIMARY KEY (movie_id, person_id, role)
	)`,
	`CREATE TABLE IF NOT EXISTS favorites (
		user_id    BIGINT NOT NULL REFERENCES users(user_id),
		movie_id   BIGINT NOT NULL REFERENCES movies(movie_id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, movie_id)
	)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		user_id    BIGINT NOT NULL REFERENCES users(user_id),
		movie_id   BIGINT NOT NULL REFERENCES movies(movie_id),
		rating     NUMERIC(2,1) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (user_id, movie_id)
	)`,
}

// EnsureSchema creates the tables if they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, ddl := range schema {
		if _, err := pool.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
