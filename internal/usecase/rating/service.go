package rating

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/duma2005/moviedeck/internal/domain"
)

// Repository is the consumer interface for rating storage (ISP).
type Repository interface {
	Upsert(ctx context.Context, userID, movieID int64, value float64) error
	Delete(ctx context.Context, userID, movieID int64) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Rating, error)
	Aggregate(ctx context.Context, movieID int64) (domain.RatingAggregate, error)
}

// MovieGetter checks that a movie exists before it can be rated.
type MovieGetter interface {
	GetByID(ctx context.Context, id int64) (domain.Movie, error)
}

// Service implements user ratings.
type Service struct {
	ratings Repository
	movies  MovieGetter
	logger  *zap.Logger
}

// New creates a Service.
func New(ratings Repository, movies MovieGetter, logger *zap.Logger) *Service {
	return &Service{ratings: ratings, movies: movies, logger: logger}
}

// Rate writes or overwrites a user's score for a movie.
// Scores run 0.5 to 5.0 in half-point steps.
func (s *Service) Rate(ctx context.Context, userID, movieID int64, value float64) (domain.RatingAggregate, error) {
	if !validScore(value) {
		return domain.RatingAggregate{}, fmt.Errorf(
			"%w: rating must be between 0.5 and 5.0 in steps of 0.5", domain.ErrValidation)
	}
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return domain.RatingAggregate{}, err
	}
	if err := s.ratings.Upsert(ctx, userID, movieID, value); err != nil {
		return domain.RatingAggregate{}, err
	}

	s.logger.Info("Rating saved",
		zap.Int64("user_id", userID),
		zap.Int64("movie_id", movieID),
		zap.Float64("rating", value))

	return s.ratings.Aggregate(ctx, movieID)
}

// Unrate removes a user's score for a movie.
func (s *Service) Unrate(ctx context.Context, userID, movieID int64) error {
	return s.ratings.Delete(ctx, userID, movieID)
}

// ListMine returns the caller's ratings.
func (s *Service) ListMine(ctx context.Context, userID int64) ([]domain.Rating, error) {
	return s.ratings.ListByUser(ctx, userID)
}

// ForMovie returns the community aggregate for a movie.
func (s *Service) ForMovie(ctx context.Context, movieID int64) (domain.RatingAggregate, error) {
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return domain.RatingAggregate{}, err
	}
	return s.ratings.Aggregate(ctx, movieID)
}

func validScore(v float64) bool {
	if v < 0.5 || v > 5.0 {
		return false
	}
	steps := v * 2
	return steps == math.Trunc(steps)
}
