package movie

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/duma2005/moviedeck/internal/domain"
)

// --- Mocks ---

type mockCatalog struct {
	movies        map[int64]domain.Movie
	genres        map[int64][]domain.Genre
	cast          map[int64][]domain.CastMember
	nextID        int64
	replacedWith  []string
	replaceCalled bool
	listTotal     int
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		movies: map[int64]domain.Movie{},
		genres: map[int64][]domain.Genre{},
		cast:   map[int64][]domain.CastMember{},
		nextID: 1,
	}
}

func (m *mockCatalog) List(_ context.Context, _ string, _, limit int) ([]domain.Movie, int, error) {
	var out []domain.Movie
	for _, mv := range m.movies {
		out = append(out, mv)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, m.listTotal, nil
}

func (m *mockCatalog) GetByID(_ context.Context, id int64) (domain.Movie, error) {
	mv, ok := m.movies[id]
	if !ok {
		return domain.Movie{}, domain.ErrNotFound
	}
	return mv, nil
}

func (m *mockCatalog) Create(_ context.Context, mv domain.Movie) (int64, error) {
	mv.ID = m.nextID
	m.nextID++
	m.movies[mv.ID] = mv
	return mv.ID, nil
}

func (m *mockCatalog) Update(_ context.Context, mv domain.Movie) error {
	if _, ok := m.movies[mv.ID]; !ok {
		return domain.ErrNotFound
	}
	m.movies[mv.ID] = mv
	return nil
}

func (m *mockCatalog) Delete(_ context.Context, id int64) error {
	if _, ok := m.movies[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.movies, id)
	return nil
}

func (m *mockCatalog) Genres(_ context.Context, id int64) ([]domain.Genre, error) {
	return m.genres[id], nil
}

func (m *mockCatalog) ReplaceGenres(_ context.Context, _ int64, names []string) error {
	m.replaceCalled = true
	m.replacedWith = names
	return nil
}

func (m *mockCatalog) Cast(_ context.Context, id int64) ([]domain.CastMember, error) {
	return m.cast[id], nil
}

func (m *mockCatalog) AddCast(_ context.Context, movieID, personID int64, role domain.CastRole, characterName string) error {
	m.cast[movieID] = append(m.cast[movieID], domain.CastMember{
		PersonID: personID, Role: role, CharacterName: characterName,
	})
	return nil
}

func (m *mockCatalog) RemoveCast(_ context.Context, _, _ int64, _ domain.CastRole) error {
	return nil
}

type mockAggregator struct {
	agg domain.RatingAggregate
}

func (m *mockAggregator) Aggregate(_ context.Context, _ int64) (domain.RatingAggregate, error) {
	return m.agg, nil
}

func newTestService(catalog *mockCatalog) *Service {
	return New(catalog, &mockAggregator{agg: domain.RatingAggregate{Average: 4.0, Count: 2}}, zap.NewNop())
}

// --- Tests ---

func TestNormalizeGenreNames(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"trims and drops empties", []string{" Drama ", "", "  "}, []string{"Drama"}},
		{"case-insensitive dedup keeps first casing", []string{"Drama", "drama", "DRAMA", "Crime"}, []string{"Drama", "Crime"}},
		{"preserves order", []string{"Crime", "Drama", "crime"}, []string{"Crime", "Drama"}},
		{"nil input", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeGenreNames(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreate(t *testing.T) {
	catalog := newMockCatalog()
	svc := newTestService(catalog)

	d, err := svc.Create(context.Background(), domain.Movie{Title: "Heat"}, []string{" Crime ", "crime", "Drama"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Movie.ID == 0 {
		t.Fatal("expected an assigned id")
	}
	if d.Rating.Count != 2 {
		t.Errorf("expected rating aggregate, got %+v", d.Rating)
	}
	if !reflect.DeepEqual(catalog.replacedWith, []string{"Crime", "Drama"}) {
		t.Errorf("expected normalized genres, got %v", catalog.replacedWith)
	}
}

func TestCreate_EmptyTitle(t *testing.T) {
	svc := newTestService(newMockCatalog())
	_, err := svc.Create(context.Background(), domain.Movie{Title: "  "}, nil)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreate_ScoreOutOfRange(t *testing.T) {
	svc := newTestService(newMockCatalog())
	score := 11.0
	_, err := svc.Create(context.Background(), domain.Movie{Title: "X", IMDbScore: &score}, nil)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUpdate_NilGenresLeavesLinks(t *testing.T) {
	catalog := newMockCatalog()
	catalog.movies[1] = domain.Movie{ID: 1, Title: "Heat"}
	svc := newTestService(catalog)

	if _, err := svc.Update(context.Background(), domain.Movie{ID: 1, Title: "Heat 2"}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if catalog.replaceCalled {
		t.Error("nil genre list must not touch genre links")
	}
	if catalog.movies[1].Title != "Heat 2" {
		t.Errorf("expected updated title, got %q", catalog.movies[1].Title)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := newTestService(newMockCatalog())
	_, err := svc.Update(context.Background(), domain.Movie{ID: 99, Title: "X"}, nil)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := newTestService(newMockCatalog())
	_, err := svc.Get(context.Background(), 99)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddCast_UnknownRole(t *testing.T) {
	catalog := newMockCatalog()
	catalog.movies[1] = domain.Movie{ID: 1, Title: "Heat"}
	svc := newTestService(catalog)

	err := svc.AddCast(context.Background(), 1, 2, domain.CastRole("Producer"), "")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestList_ClampsLimit(t *testing.T) {
	catalog := newMockCatalog()
	svc := newTestService(catalog)

	page, err := svc.List(context.Background(), "", -5, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Offset != 0 {
		t.Errorf("expected offset clamped to 0, got %d", page.Offset)
	}
	if page.Limit != maxPageSize {
		t.Errorf("expected limit clamped to %d, got %d", maxPageSize, page.Limit)
	}
}
