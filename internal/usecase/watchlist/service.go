package watchlist

import (
	"context"

	"go.uber.org/zap"

	"github.com/duma2005/moviedeck/internal/domain"
)

// Repository is the consumer interface for watchlist storage (ISP).
type Repository interface {
	Add(ctx context.Context, userID, movieID int64) error
	Remove(ctx context.Context, userID, movieID int64) error
	List(ctx context.Context, userID int64) ([]domain.Movie, error)
}

// MovieGetter checks that a movie exists before it can be listed.
type MovieGetter interface {
	GetByID(ctx context.Context, id int64) (domain.Movie, error)
}

// Service implements per-user watchlists.
type Service struct {
	watchlist Repository
	movies    MovieGetter
	logger    *zap.Logger
}

// New creates a Service.
func New(watchlist Repository, movies MovieGetter, logger *zap.Logger) *Service {
	return &Service{watchlist: watchlist, movies: movies, logger: logger}
}

// Add puts a movie on the caller's watchlist. Idempotent.
func (s *Service) Add(ctx context.Context, userID, movieID int64) error {
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return err
	}
	if err := s.watchlist.Add(ctx, userID, movieID); err != nil {
		return err
	}
	s.logger.Info("Watchlist add",
		zap.Int64("user_id", userID),
		zap.Int64("movie_id", movieID))
	return nil
}

// Remove takes a movie off the caller's watchlist.
func (s *Service) Remove(ctx context.Context, userID, movieID int64) error {
	return s.watchlist.Remove(ctx, userID, movieID)
}

// List returns the caller's watchlist.
func (s *Service) List(ctx context.Context, userID int64) ([]domain.Movie, error) {
	return s.watchlist.List(ctx, userID)
}
