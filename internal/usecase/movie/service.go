package movie

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/duma2005/moviedeck/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

// Page is one page of catalog listing results.
type Page struct {
	Movies []domain.Movie
	Total  int
	Offset int
	Limit  int
}

// Details is a movie with its genres, cast and community rating.
type Details struct {
	Movie  domain.Movie
	Genres []domain.Genre
	Cast   []domain.CastMember
	Rating domain.RatingAggregate
}

// Service implements catalog management.
type Service struct {
	catalog CatalogRepository
	ratings RatingAggregator
	logger  *zap.Logger
}

// New creates a Service.
func New(catalog CatalogRepository, ratings RatingAggregator, logger *zap.Logger) *Service {
	return &Service{catalog: catalog, ratings: ratings, logger: logger}
}

// List returns a page of movies, optionally filtered by a title substring.
func (s *Service) List(ctx context.Context, titleQuery string, offset, limit int) (Page, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	movies, total, err := s.catalog.List(ctx, strings.TrimSpace(titleQuery), offset, limit)
	if err != nil {
		return Page{}, err
	}
	return Page{Movies: movies, Total: total, Offset: offset, Limit: limit}, nil
}

// Get returns a movie with its genres, cast and rating aggregate.
func (s *Service) Get(ctx context.Context, id int64) (Details, error) {
	m, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return Details{}, err
	}
	genres, err := s.catalog.Genres(ctx, id)
	if err != nil {
		return Details{}, err
	}
	cast, err := s.catalog.Cast(ctx, id)
	if err != nil {
		return Details{}, err
	}
	agg, err := s.ratings.Aggregate(ctx, id)
	if err != nil {
		return Details{}, err
	}
	return Details{Movie: m, Genres: genres, Cast: cast, Rating: agg}, nil
}

// Create validates and stores a new movie with its genres.
func (s *Service) Create(ctx context.Context, m domain.Movie, genreNames []string) (Details, error) {
	if err := validate(m); err != nil {
		return Details{}, err
	}

	id, err := s.catalog.Create(ctx, m)
	if err != nil {
		return Details{}, err
	}
	if err := s.catalog.ReplaceGenres(ctx, id, NormalizeGenreNames(genreNames)); err != nil {
		return Details{}, err
	}

	s.logger.Info("Movie created", zap.Int64("movie_id", id), zap.String("title", m.Title))
	return s.Get(ctx, id)
}

// Update validates and overwrites an existing movie. A nil genreNames
// leaves the genre links untouched.
func (s *Service) Update(ctx context.Context, m domain.Movie, genreNames []string) (Details, error) {
	if err := validate(m); err != nil {
		return Details{}, err
	}

	if err := s.catalog.Update(ctx, m); err != nil {
		return Details{}, err
	}
	if genreNames != nil {
		if err := s.catalog.ReplaceGenres(ctx, m.ID, NormalizeGenreNames(genreNames)); err != nil {
			return Details{}, err
		}
	}
	return s.Get(ctx, m.ID)
}

// Delete removes a movie and everything linked to it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.catalog.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Movie deleted", zap.Int64("movie_id", id))
	return nil
}

// Cast returns the cast list for a movie.
func (s *Service) Cast(ctx context.Context, movieID int64) ([]domain.CastMember, error) {
	if _, err := s.catalog.GetByID(ctx, movieID); err != nil {
		return nil, err
	}
	return s.catalog.Cast(ctx, movieID)
}

// AddCast links a person to a movie in a role.
func (s *Service) AddCast(ctx context.Context, movieID, personID int64, role domain.CastRole, characterName string) error {
	if !validRole(role) {
		return fmt.Errorf("%w: unknown cast role %q", domain.ErrValidation, role)
	}
	if _, err := s.catalog.GetByID(ctx, movieID); err != nil {
		return err
	}
	return s.catalog.AddCast(ctx, movieID, personID, role, strings.TrimSpace(characterName))
}

// RemoveCast unlinks a person from a movie for a role.
func (s *Service) RemoveCast(ctx context.Context, movieID, personID int64, role domain.CastRole) error {
	if !validRole(role) {
		return fmt.Errorf("%w: unknown cast role %q", domain.ErrValidation, role)
	}
	return s.catalog.RemoveCast(ctx, movieID, personID, role)
}

// NormalizeGenreNames trims names, drops empties and removes
// case-insensitive duplicates, keeping first-seen casing and order.
func NormalizeGenreNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

func validate(m domain.Movie) error {
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if m.IMDbScore != nil && (*m.IMDbScore < 0 || *m.IMDbScore > 10) {
		return fmt.Errorf("%w: imdb_score must be between 0 and 10", domain.ErrValidation)
	}
	if m.DurationMinutes != nil && *m.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration_minutes must be positive", domain.ErrValidation)
	}
	return nil
}

func validRole(role domain.CastRole) bool {
	switch role {
	case domain.RoleDirector, domain.RoleWriter, domain.RoleActor:
		return true
	}
	return false
}
