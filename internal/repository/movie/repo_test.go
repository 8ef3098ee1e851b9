package movie

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duma2005/moviedeck/internal/domain"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return mockPool
}

func movieRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"movie_id", "title", "original_title", "release_date", "duration_minutes",
		"age_rating", "description", "storyline", "imdb_score", "imdb_vote_count",
		"poster_url", "cover_url", "trailer_url", "created_at",
	})
}

func addMovieRow(rows *pgxmock.Rows, id int64, title string, year int, score float64) *pgxmock.Rows {
	release := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return rows.AddRow(
		id, title, (*string)(nil), &release, (*int)(nil),
		(*string)(nil), (*string)(nil), (*string)(nil), &score, (*int)(nil),
		(*string)(nil), (*string)(nil), (*string)(nil), time.Now(),
	)
}

func TestSearch_AllFiltersCombined(t *testing.T) {
	mockPool := newMock(t)
	repo := New(mockPool)

	year := 2010
	filters := domain.FilterSet{
		Year:   &year,
		Rating: &domain.RatingFilter{Op: domain.CmpGTE, Threshold: 8},
		Tokens: []string{"inception"},
	}

	mockPool.ExpectQuery(`(?s)SELECT .+ FROM movies WHERE EXTRACT\(YEAR FROM release_date\) = \$1 AND imdb_score >= \$2 AND \(title ILIKE \$3 OR description ILIKE \$3 OR storyline ILIKE \$3\) LIMIT \$4`).
		WithArgs(2010, 8.0, "%inception%", 25).
		WillReturnRows(addMovieRow(movieRows(), 1, "Inception", 2010, 8.8))

	movies, err := repo.Search(context.Background(), filters, 25)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Inception", movies[0].Title)
	require.NotNil(t, movies[0].ReleaseYear())
	assert.Equal(t, 2010, *movies[0].ReleaseYear())
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSearch_NoTokensOmitsTextFilter(t *testing.T) {
	mockPool := newMock(t)
	repo := New(mockPool)

	year := 1999
	filters := domain.FilterSet{Year: &year}

	mockPool.ExpectQuery(`(?s)SELECT .+ FROM movies WHERE EXTRACT\(YEAR FROM release_date\) = \$1 LIMIT \$2`).
		WithArgs(1999, 25).
		WillReturnRows(addMovieRow(movieRows(), 2, "The Matrix", 1999, 8.7))

	movies, err := repo.Search(context.Background(), filters, 25)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSearch_EmptyFilterSetHasNoWhere(t *testing.T) {
	mockPool := newMock(t)
	repo := New(mockPool)

	mockPool.ExpectQuery(`(?s)SELECT .+ FROM movies LIMIT \$1`).
		WithArgs(25).
		WillReturnRows(movieRows())

	movies, err := repo.Search(context.Background(), domain.FilterSet{}, 25)
	require.NoError(t, err)
	assert.Empty(t, movies)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSearch_MultipleTokensShareOneOrGroup(t *testing.T) {
	mockPool := newMock(t)
	repo := New(mockPool)

	filters := domain.FilterSet{Tokens: []string{"dark", "knight"}}

	mockPool.ExpectQuery(`(?s)WHERE \(title ILIKE \$1 OR description ILIKE \$1 OR storyline ILIKE \$1 OR title ILIKE \$2 OR description ILIKE \$2 OR storyline ILIKE \$2\)`).
		WithArgs("%dark%", "%knight%", 25).
		WillReturnRows(addMovieRow(movieRows(), 3, "The Dark Knight", 2008, 9.0))

	movies, err := repo.Search(context.Background(), filters, 25)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestSearch_RejectsUnknownComparator(t *testing.T) {
	repo := New(newMock(t))

	filters := domain.FilterSet{Rating: &domain.RatingFilter{Op: "=", Threshold: 8}}
	_, err := repo.Search(context.Background(), filters, 25)
	assert.Error(t, err)
}

func TestGetByID_NotFound(t *testing.T) {
	mockPool := newMock(t)
	repo := New(mockPool)

	mockPool.ExpectQuery(`(?s)SELECT .+ FROM movies WHERE movie_id = \$1`).
		WithArgs(int64(42)).
		WillReturnRows(movieRows())

	_, err := repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_RemovesLinksFirst(t *testing.T) {
	mockPool := newMock(t)
	repo := New(mockPool)

	for _, table := range []string{"movie_genres", "movie_cast", "ratings", "favorites"} {
		mockPool.ExpectExec(`DELETE FROM ` + table + ` WHERE movie_id = \$1`).
			WithArgs(int64(7)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
	}
	mockPool.ExpectExec(`DELETE FROM movies WHERE movie_id = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), 7)
	require.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}
