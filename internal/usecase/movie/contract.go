package movie

import (
	"context"

	"github.com/duma2005/moviedeck/internal/domain"
)

// CatalogRepository is the consumer interface for movie storage (ISP).
type CatalogRepository interface {
	List(ctx context.Context, titleQuery string, offset, limit int) ([]domain.Movie, int, error)
	GetByID(ctx context.Context, id int64) (domain.Movie, error)
	Create(ctx context.Context, m domain.Movie) (int64, error)
	Update(ctx context.Context, m domain.Movie) error
	Delete(ctx context.Context, id int64) error
	Genres(ctx context.Context, movieID int64) ([]domain.Genre, error)
	ReplaceGenres(ctx context.Context, movieID int64, names []string) error
	Cast(ctx context.Context, movieID int64) ([]domain.CastMember, error)
	AddCast(ctx context.Context, movieID, personID int64, role domain.CastRole, characterName string) error
	RemoveCast(ctx context.Context, movieID, personID int64, role domain.CastRole) error
}

// RatingAggregator supplies community rating stats for a movie.
type RatingAggregator interface {
	Aggregate(ctx context.Context, movieID int64) (domain.RatingAggregate, error)
}
