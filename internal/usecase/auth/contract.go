package auth

import (
	"context"

	"github.com/duma2005/moviedeck/internal/domain"
)

// UserRepository is the consumer interface for account storage (ISP).
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, u domain.User) (domain.User, error)
}
