// Command moviedeck-import loads a movie catalog CSV into Postgres.
//
// The CSV carries one movie per row with ";"-separated cast columns and
// ","-separated genres. Rows whose title already exists update the
// existing movie(s) in place; everything else is inserted.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/duma2005/moviedeck/internal/config"
	dbPostgres "github.com/duma2005/moviedeck/internal/db/postgres"
	"github.com/duma2005/moviedeck/internal/domain"
	logpkg "github.com/duma2005/moviedeck/internal/logger"
)

var expectedColumns = []string{
	"title", "original_title", "release_date", "duration_minutes",
	"age_rating", "imdb_score", "imdb_vote_count", "genres",
	"poster_url", "cover_url", "trailer_url", "description", "storyline",
	"cast_directors", "cast_writers", "cast_actors",
}

var dateLayouts = []string{"2006-01-02", "1/2/2006", "1/2/06", "2006"}

func main() {
	path := flag.String("csv", "", "path to the catalog CSV file")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: moviedeck-import -csv <file>")
		os.Exit(2)
	}

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	pool, err := dbPostgres.New(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := dbPostgres.WaitForReady(ctx, pool, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	if err := dbPostgres.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("Failed to apply schema", zap.Error(err))
	}

	created, updated, err := importCSV(ctx, pool, *path, logger)
	if err != nil {
		logger.Fatal("Import failed", zap.Error(err))
	}

	logger.Info("Import finished",
		zap.String("file", *path),
		zap.Int("created", created),
		zap.Int("updated", updated),
	)
}

func importCSV(ctx context.Context, pool *pgxpool.Pool, path string, logger *zap.Logger) (created, updated int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("read header: %w", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return 0, 0, err
	}

	imp := &importer{pool: pool, cols: cols, logger: logger}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return created, updated, fmt.Errorf("line %d: %w", line, err)
		}

		wasCreated, err := imp.importRow(ctx, record)
		if err != nil {
			return created, updated, fmt.Errorf("line %d: %w", line, err)
		}
		if wasCreated {
			created++
		} else {
			updated++
		}
	}
	return created, updated, nil
}

// columnIndex validates the header against the expected columns and maps
// each name to its position. A UTF-8 BOM on the first cell is stripped.
func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		cols[name] = i
	}

	var missing []string
	for _, want := range expectedColumns {
		if _, ok := cols[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("csv missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

type importer struct {
	pool   *pgxpool.Pool
	cols   map[string]int
	logger *zap.Logger
}

func (im *importer) field(record []string, name string) string {
	i := im.cols[name]
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// importRow upserts one CSV row inside a transaction. Rows with an empty
// title are skipped and counted as updates of zero movies.
func (im *importer) importRow(ctx context.Context, record []string) (bool, error) {
	title := im.field(record, "title")
	if title == "" {
		return false, nil
	}

	m := domain.Movie{
		Title:           title,
		OriginalTitle:   im.field(record, "original_title"),
		ReleaseDate:     parseDate(im.field(record, "release_date")),
		DurationMinutes: parseInt(im.field(record, "duration_minutes")),
		AgeRating:       im.field(record, "age_rating"),
		IMDbScore:       parseFloat(im.field(record, "imdb_score")),
		IMDbVoteCount:   parseInt(im.field(record, "imdb_vote_count")),
		PosterURL:       im.field(record, "poster_url"),
		CoverURL:        im.field(record, "cover_url"),
		TrailerURL:      im.field(record, "trailer_url"),
		Description:     im.field(record, "description"),
		Storyline:       im.field(record, "storyline"),
	}

	genres := splitList(im.field(record, "genres"), ",")
	directors := namesOnly(splitList(im.field(record, "cast_directors"), ";"))
	writers := namesOnly(splitList(im.field(record, "cast_writers"), ";"))
	actors := parseActors(im.field(record, "cast_actors"))

	tx, err := im.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ids, err := findMovieIDs(ctx, tx, title)
	if err != nil {
		return false, err
	}

	wasCreated := false
	if len(ids) == 0 {
		id, err := insertMovie(ctx, tx, m)
		if err != nil {
			return false, err
		}
		ids = []int64{id}
		wasCreated = true
	}

	for _, id := range ids {
		if !wasCreated {
			if err := updateMovie(ctx, tx, id, m); err != nil {
				return false, err
			}
		}
		if len(genres) > 0 {
			if err := replaceGenres(ctx, tx, id, genres); err != nil {
				return false, err
			}
		}
		for _, rc := range []struct {
			role    domain.CastRole
			entries []castEntry
		}{
			{domain.RoleDirector, directors},
			{domain.RoleWriter, writers},
			{domain.RoleActor, actors},
		} {
			if len(rc.entries) == 0 {
				continue
			}
			if err := replaceCast(ctx, tx, id, rc.role, rc.entries); err != nil {
				return false, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}

	im.logger.Debug("Imported row", zap.String("title", title), zap.Bool("created", wasCreated))
	return wasCreated, nil
}

type castEntry struct {
	name      string
	character string
}

func namesOnly(names []string) []castEntry {
	entries := make([]castEntry, 0, len(names))
	for _, n := range names {
		entries = append(entries, castEntry{name: n})
	}
	return entries
}

// parseActors splits a ";"-separated actor list where each entry may carry
// a character in trailing parentheses: "Keanu Reeves (Neo)".
func parseActors(value string) []castEntry {
	var entries []castEntry
	for _, raw := range splitList(value, ";") {
		name, character := raw, ""
		if strings.HasSuffix(raw, ")") {
			if i := strings.LastIndex(raw, "("); i >= 0 {
				name = strings.TrimSpace(raw[:i])
				character = strings.TrimSpace(raw[i+1 : len(raw)-1])
			}
		}
		if name == "" {
			continue
		}
		entries = append(entries, castEntry{name: name, character: character})
	}
	return entries
}

func splitList(value, sep string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

func parseInt(value string) *int {
	if value == "" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}

func parseFloat(value string) *float64 {
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}

func findMovieIDs(ctx context.Context, tx pgx.Tx, title string) ([]int64, error) {
	rows, err := tx.Query(ctx, "SELECT movie_id FROM movies WHERE lower(title) = lower($1)", title)
	if err != nil {
		return nil, fmt.Errorf("find movies by title: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan movie id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func insertMovie(ctx context.Context, tx pgx.Tx, m domain.Movie) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, `
		INSERT INTO movies
			(title, original_title, release_date, duration_minutes, age_rating,
			 description, storyline, imdb_score, imdb_vote_count,
			 poster_url, cover_url, trailer_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING movie_id
	`, m.Title, nullable(m.OriginalTitle), m.ReleaseDate, m.DurationMinutes, nullable(m.AgeRating),
		nullable(m.Description), nullable(m.Storyline), m.IMDbScore, m.IMDbVoteCount,
		nullable(m.PosterURL), nullable(m.CoverURL), nullable(m.TrailerURL)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert movie: %w", err)
	}
	return id, nil
}

// updateMovie overwrites only the fields the CSV actually provides,
// leaving existing values in place for empty cells.
func updateMovie(ctx context.Context, tx pgx.Tx, id int64, m domain.Movie) error {
	var sets []string
	var args []any

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	for _, c := range []struct {
		column string
		value  string
	}{
		{"original_title", m.OriginalTitle},
		{"age_rating", m.AgeRating},
		{"description", m.Description},
		{"storyline", m.Storyline},
		{"poster_url", m.PosterURL},
		{"cover_url", m.CoverURL},
		{"trailer_url", m.TrailerURL},
	} {
		if c.value != "" {
			set(c.column, c.value)
		}
	}
	if m.ReleaseDate != nil {
		set("release_date", m.ReleaseDate)
	}
	if m.DurationMinutes != nil {
		set("duration_minutes", m.DurationMinutes)
	}
	if m.IMDbScore != nil {
		set("imdb_score", m.IMDbScore)
	}
	if m.IMDbVoteCount != nil {
		set("imdb_vote_count", m.IMDbVoteCount)
	}

	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	sql := fmt.Sprintf("UPDATE movies SET %s WHERE movie_id = $%d", strings.Join(sets, ", "), len(args))
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update movie %d: %w", id, err)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func replaceGenres(ctx context.Context, tx pgx.Tx, movieID int64, names []string) error {
	if _, err := tx.Exec(ctx, "DELETE FROM movie_genres WHERE movie_id = $1", movieID); err != nil {
		return fmt.Errorf("clear genres: %w", err)
	}
	for _, name := range names {
		genreID, err := getOrCreate(ctx, tx,
			"SELECT genre_id FROM genres WHERE lower(name) = lower($1)",
			"INSERT INTO genres (name) VALUES ($1) RETURNING genre_id", name)
		if err != nil {
			return fmt.Errorf("resolve genre %q: %w", name, err)
		}
		if _, err := tx.Exec(ctx,
			"INSERT INTO movie_genres (movie_id, genre_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			movieID, genreID); err != nil {
			return fmt.Errorf("link genre %q: %w", name, err)
		}
	}
	return nil
}

func replaceCast(ctx context.Context, tx pgx.Tx, movieID int64, role domain.CastRole, entries []castEntry) error {
	if _, err := tx.Exec(ctx,
		"DELETE FROM movie_cast WHERE movie_id = $1 AND role = $2", movieID, role); err != nil {
		return fmt.Errorf("clear %s cast: %w", role, err)
	}
	for _, e := range entries {
		personID, err := getOrCreate(ctx, tx,
			"SELECT person_id FROM persons WHERE lower(full_name) = lower($1)",
			"INSERT INTO persons (full_name) VALUES ($1) RETURNING person_id", e.name)
		if err != nil {
			return fmt.Errorf("resolve person %q: %w", e.name, err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO movie_cast (movie_id, person_id, role, character_name)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (movie_id, person_id, role) DO UPDATE SET character_name = EXCLUDED.character_name
		`, movieID, personID, role, nullable(e.character)); err != nil {
			return fmt.Errorf("link person %q: %w", e.name, err)
		}
	}
	return nil
}

// getOrCreate looks a row up by a case-insensitive name and inserts it when
// absent, returning its id either way.
func getOrCreate(ctx context.Context, tx pgx.Tx, selectSQL, insertSQL, name string) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx, selectSQL, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		err = tx.QueryRow(ctx, insertSQL, name).Scan(&id)
	}
	return id, err
}
