package movie

import (
	"context"
	"errors"
	"fmt"
	"strings"

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

// Repo provides catalog reads and writes over Postgres.
type Repo struct {
	db Querier
}

// New creates a movie repository.
func New(db Querier) *Repo {
	return &Repo{db: db}
}

const movieColumns = `movie_id, title, original_title, release_date, duration_minutes,
	age_rating, description, storyline, imdb_score, imdb_vote_count,
	poster_url, cover_url, trailer_url, created_at`

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var m domain.Movie
	var originalTitle, ageRating, description, storyline, posterURL, coverURL, trailerURL *string
	err := row.Scan(
		&m.ID, &m.Title, &originalTitle, &m.ReleaseDate, &m.DurationMinutes,
		&ageRating, &description, &storyline, &m.IMDbScore, &m.IMDbVoteCount,
		&posterURL, &coverURL, &trailerURL, &m.CreatedAt,
	)
	if err != nil {
		return domain.Movie{}, err
	}
	m.OriginalTitle = deref(originalTitle)
	m.AgeRating = deref(ageRating)
	m.Description = deref(description)
	m.Storyline = deref(storyline)
	m.PosterURL = deref(posterURL)
	m.CoverURL = deref(coverURL)
	m.TrailerURL = deref(trailerURL)
	return m, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Search implements the chatbot catalog contract: all extracted filters are
// combined with AND; the token filter is a single OR across title,
// description and storyline for every token, and is omitted entirely when no
// tokens were extracted.
func (r *Repo) Search(ctx context.Context, filters domain.FilterSet, limit int) ([]domain.Movie, error) {
	var conds []string
	var args []any

	if filters.Year != nil {
		args = append(args, *filters.Year)
		conds = append(conds, fmt.Sprintf("EXTRACT(YEAR FROM release_date) = $%d", len(args)))
	}
	if filters.Rating != nil {
		op, err := sqlComparator(filters.Rating.Op)
		if err != nil {
			return nil, err
		}
		args = append(args, filters.Rating.Threshold)
		conds = append(conds, fmt.Sprintf("imdb_score %s $%d", op, len(args)))
	}
	if len(filters.Tokens) > 0 {
		var ors []string
		for _, token := range filters.Tokens {
			args = append(args, "%"+token+"%")
			p := len(args)
			ors = append(ors,
				fmt.Sprintf("title ILIKE $%d", p),
				fmt.Sprintf("description ILIKE $%d", p),
				fmt.Sprintf("storyline ILIKE $%d", p),
			)
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	sql := "SELECT " + movieColumns + " FROM movies"
	if len(conds) > 0 {
		sql += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, limit)
	sql += fmt.Sprintf(" LIMIT $%d", len(args))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	defer rows.Close()

	return collectMovies(rows)
}

// sqlComparator whitelists the rating operator before it reaches the query text.
func sqlComparator(op domain.Comparator) (string, error) {
	switch op {
	case domain.CmpGTE, domain.CmpGT, domain.CmpLTE, domain.CmpLT:
		return string(op), nil
	}
	return "", fmt.Errorf("unsupported rating comparator %q", op)
}

func collectMovies(rows pgx.Rows) ([]domain.Movie, error) {
	var movies []domain.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return movies, nil
}

// List returns a page of movies ordered by title, optionally filtered by a
// title substring, plus the total match count.
func (r *Repo) List(ctx context.Context, titleQuery string, offset, limit int) ([]domain.Movie, int, error) {
	where := ""
	countArgs := []any{}
	if titleQuery != "" {
		where = " WHERE title ILIKE $1"
		countArgs = append(countArgs, "%"+titleQuery+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT count(*) FROM movies"+where, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movies: %w", err)
	}

	args := append([]any{}, countArgs...)
	args = append(args, limit, offset)
	sql := fmt.Sprintf("SELECT %s FROM movies%s ORDER BY title ASC LIMIT $%d OFFSET $%d",
		movieColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	movies, err := collectMovies(rows)
	if err != nil {
		return nil, 0, err
	}
	return movies, total, nil
}

// GetByID returns a single movie or domain.ErrNotFound.
func (r *Repo) GetByID(ctx context.Context, id int64) (domain.Movie, error) {
	row := r.db.QueryRow(ctx, "SELECT "+movieColumns+" FROM movies WHERE movie_id = $1", id)
	m, err := scanMovie(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Movie{}, domain.ErrNotFound
		}
		return domain.Movie{}, fmt.Errorf("get movie %d: %w", id, err)
	}
	return m, nil
}

// Create inserts a movie and returns its id.
func (r *Repo) Create(ctx context.Context, m domain.Movie) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO movies
			(title, original_title, release_date, duration_minutes, age_rating,
			 description, storyline, imdb_score, imdb_vote_count,
			 poster_url, cover_url, trailer_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING movie_id
	`, m.Title, m.OriginalTitle, m.ReleaseDate, m.DurationMinutes, m.AgeRating,
		m.Description, m.Storyline, m.IMDbScore, m.IMDbVoteCount,
		m.PosterURL, m.CoverURL, m.TrailerURL).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create movie: %w", err)
	}
	return id, nil
}

// Update overwrites a movie's fields.
func (r *Repo) Update(ctx context.Context, m domain.Movie) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE movies SET
			title = $1, original_title = $2, release_date = $3, duration_minutes = $4,
			age_rating = $5, description = $6, storyline = $7, imdb_score = $8,
			imdb_vote_count = $9, poster_url = $10, cover_url = $11, trailer_url = $12
		WHERE movie_id = $13
	`, m.Title, m.OriginalTitle, m.ReleaseDate, m.DurationMinutes, m.AgeRating,
		m.Description, m.Storyline, m.IMDbScore, m.IMDbVoteCount,
		m.PosterURL, m.CoverURL, m.TrailerURL, m.ID)
	if err != nil {
		return fmt.Errorf("update movie %d: %w", m.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a movie and its genre/cast/rating/favorite links.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	for _, sql := range []string{
		"DELETE FROM movie_genres WHERE movie_id = $1",
		"DELETE FROM movie_cast WHERE movie_id = $1",
		"DELETE FROM ratings WHERE movie_id = $1",
		"DELETE FROM favorites WHERE movie_id = $1",
	} {
		if _, err := r.db.Exec(ctx, sql, id); err != nil {
			return fmt.Errorf("delete movie %d links: %w", id, err)
		}
	}

	tag, err := r.db.Exec(ctx, "DELETE FROM movies WHERE movie_id = $1", id)
	if err != nil {
		return fmt.Errorf("delete movie %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Genres returns a movie's genres ordered by name.
func (r *Repo) Genres(ctx context.Context, movieID int64) ([]domain.Genre, error) {
	rows, err := r.db.Query(ctx, `
		SELECT g.genre_id, g.name
		FROM genres g
		JOIN movie_genres mg ON mg.genre_id = g.genre_id
		WHERE mg.movie_id = $1
		ORDER BY g.name ASC
	`, movieID)
	if err != nil {
		return nil, fmt.Errorf("movie %d genres: %w", movieID, err)
	}
	defer rows.Close()

	var genres []domain.Genre
	for rows.Next() {
		var g domain.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scan genre: %w", err)
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

// ReplaceGenres rewrites a movie's genre links, creating genres by name as needed.
func (r *Repo) ReplaceGenres(ctx context.Context, movieID int64, names []string) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM movie_genres WHERE movie_id = $1", movieID); err != nil {
		return fmt.Errorf("clear movie %d genres: %w", movieID, err)
	}

	for _, name := range names {
		var genreID int64
		err := r.db.QueryRow(ctx, "SELECT genre_id FROM genres WHERE lower(name) = lower($1)", name).Scan(&genreID)
		if errors.Is(err, pgx.ErrNoRows) {
			err = r.db.QueryRow(ctx, "INSERT INTO genres (name) VALUES ($1) RETURNING genre_id", name).Scan(&genreID)
		}
		if err != nil {
			return fmt.Errorf("resolve genre %q: %w", name, err)
		}

		if _, err := r.db.Exec(ctx,
			"INSERT INTO movie_genres (movie_id, genre_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			movieID, genreID); err != nil {
			return fmt.Errorf("link genre %q: %w", name, err)
		}
	}
	return nil
}

// Cast returns a movie's cast with person names.
func (r *Repo) Cast(ctx context.Context, movieID int64) ([]domain.CastMember, error) {
	rows, err := r.db.Query(ctx, `
		SELECT mc.person_id, p.full_name, mc.role, COALESCE(mc.character_name, '')
		FROM movie_cast mc
		JOIN persons p ON p.person_id = mc.person_id
		WHERE mc.movie_id = $1
		ORDER BY p.full_name ASC
	`, movieID)
	if err != nil {
		return nil, fmt.Errorf("movie %d cast: %w", movieID, err)
	}
	defer rows.Close()

	var cast []domain.CastMember
	for rows.Next() {
		var c domain.CastMember
		if err := rows.Scan(&c.PersonID, &c.FullName, &c.Role, &c.CharacterName); err != nil {
			return nil, fmt.Errorf("scan cast member: %w", err)
		}
		cast = append(cast, c)
	}
	return cast, rows.Err()
}

// AddCast links a person to a movie in a role.
func (r *Repo) AddCast(ctx context.Context, movieID, personID int64, role domain.CastRole, characterName string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO movie_cast (movie_id, person_id, role, character_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (movie_id, person_id, role) DO UPDATE SET character_name = EXCLUDED.character_name
	`, movieID, personID, role, characterName)
	if err != nil {
		return fmt.Errorf("add cast to movie %d: %w", movieID, err)
	}
	return nil
}

// RemoveCast unlinks a person+role from a movie.
func (r *Repo) RemoveCast(ctx context.Context, movieID, personID int64, role domain.CastRole) error {
	tag, err := r.db.Exec(ctx,
		"DELETE FROM movie_cast WHERE movie_id = $1 AND person_id = $2 AND role = $3",
		movieID, personID, role)
	if err != nil {
		return fmt.Errorf("remove cast from movie %d: %w", movieID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
