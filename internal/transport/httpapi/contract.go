package httpapi

import (
	"context"
	"net/url"

	"github.com/duma2005/moviedeck/internal/domain"
	healthuc "github.com/duma2005/moviedeck/internal/usecase/health"
	movieuc "github.com/duma2005/moviedeck/internal/usecase/movie"
)

// ChatService answers catalog questions.
type ChatService interface {
	Chat(ctx context.Context, question string) (domain.Answer, error)
}

// AuthService manages accounts and access tokens.
type AuthService interface {
	Register(ctx context.Context, email, password, fullName string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Identify(ctx context.Context, token string) (domain.User, error)
}

// MovieService manages the catalog.
type MovieService interface {
	List(ctx context.Context, titleQuery string, offset, limit int) (movieuc.Page, error)
	Get(ctx context.Context, id int64) (movieuc.Details, error)
	Create(ctx context.Context, m domain.Movie, genreNames []string) (movieuc.Details, error)
	Update(ctx context.Context, m domain.Movie, genreNames []string) (movieuc.Details, error)
	Delete(ctx context.Context, id int64) error
	Cast(ctx context.Context, movieID int64) ([]domain.CastMember, error)
	AddCast(ctx context.Context, movieID, personID int64, role domain.CastRole, characterName string) error
	RemoveCast(ctx context.Context, movieID, personID int64, role domain.CastRole) error
}

// RatingService manages user ratings.
type RatingService interface {
	Rate(ctx context.Context, userID, movieID int64, value float64) (domain.RatingAggregate, error)
	Unrate(ctx context.Context, userID, movieID int64) error
	ListMine(ctx context.Context, userID int64) ([]domain.Rating, error)
	ForMovie(ctx context.Context, movieID int64) (domain.RatingAggregate, error)
}

// WatchlistService manages per-user watchlists.
type WatchlistService interface {
	Add(ctx context.Context, userID, movieID int64) error
	Remove(ctx context.Context, userID, movieID int64) error
	List(ctx context.Context, userID int64) ([]domain.Movie, error)
}

// GenreLister reads the genre catalog.
type GenreLister interface {
	List(ctx context.Context) ([]domain.Genre, error)
}

// PersonReader reads people and their filmographies.
type PersonReader interface {
	GetByID(ctx context.Context, id int64) (domain.Person, error)
	Credits(ctx context.Context, personID int64) ([]domain.Credit, error)
}

// ExternalService proxies upstream movie APIs.
type ExternalService interface {
	OMDb(ctx context.Context, query url.Values) ([]byte, error)
	Trakt(ctx context.Context, path string, query url.Values) ([]byte, error)
}

// HealthService reports component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}
