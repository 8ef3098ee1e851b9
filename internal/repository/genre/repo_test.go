package genre

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT genre_id, name FROM genres ORDER BY name ASC`).
		WillReturnRows(pgxmock.NewRows([]string{"genre_id", "name"}).
			AddRow(int64(3), "Crime").
			AddRow(int64(1), "Drama"))

	repo := New(mock)
	genres, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, genres, 2)
	require.Equal(t, int64(3), genres[0].ID)
	require.Equal(t, "Crime", genres[0].Name)
	require.Equal(t, "Drama", genres[1].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListQueryError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT genre_id, name FROM genres`).
		WillReturnError(errors.New("connection lost"))

	repo := New(mock)
	_, err = repo.List(context.Background())
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
