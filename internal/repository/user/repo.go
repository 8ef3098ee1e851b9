package user

import (
	"context"
	"errors"
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

// Repo provides account storage over Postgres.
type Repo struct {
	db Querier
}

// New creates a user repository.
func New(db Querier) *Repo {
	return &Repo{db: db}
}

const userColumns = "user_id, username, email, password_hash, full_name, role, created_at"

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	var fullName *string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &fullName, &u.Role, &u.CreatedAt)
	if err != nil {
		return domain.User{}, err
	}
	if fullName != nil {
		u.FullName = *fullName
	}
	return u, nil
}

// GetByEmail returns the user with the given email or domain.ErrNotFound.
func (r *Repo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetByID returns the user with the given id or domain.ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	row := r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE user_id = $1", id)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

// UsernameExists reports whether a username is already taken.
func (r *Repo) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)", username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return exists, nil
}

// Create inserts a new user and returns it with the assigned id.
func (r *Repo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, full_name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		u.Username, u.Email, u.PasswordHash, u.FullName, u.Role)

	created, err := scanUser(row)
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}
