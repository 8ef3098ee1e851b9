package chatbot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/duma2005/moviedeck/internal/domain"
)

// --- Mocks ---

type mockRepo struct {
	movies      []domain.Movie
	err         error
	called      bool
	lastFilters domain.FilterSet
	lastLimit   int
}

func (m *mockRepo) Search(_ context.Context, filters domain.FilterSet, limit int) ([]domain.Movie, error) {
	m.called = true
	m.lastFilters = filters
	m.lastLimit = limit
	return m.movies, m.err
}

type mockGenerator struct {
	text       string
	err        error
	called     bool
	lastSystem string
	lastUser   string
}

func (m *mockGenerator) Generate(_ context.Context, system, user string) (string, error) {
	m.called = true
	m.lastSystem = system
	m.lastUser = user
	return m.text, m.err
}

func testMovie(title string, year int, score float64) domain.Movie {
	release := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return domain.Movie{Title: title, ReleaseDate: &release, IMDbScore: &score}
}

func newTestService(repo *mockRepo, gen Generator) *Service {
	return New(repo, gen, zap.NewNop())
}

// --- Tests ---

func TestChat_EmptyQuestion(t *testing.T) {
	svc := newTestService(&mockRepo{}, &mockGenerator{})

	for _, q := range []string{"", "   ", "\t"} {
		_, err := svc.Chat(context.Background(), q)
		if !errors.Is(err, domain.ErrEmptyQuestion) {
			t.Errorf("Chat(%q): expected ErrEmptyQuestion, got %v", q, err)
		}
	}
}

func TestChat_MovieIntent_ModelAnswer(t *testing.T) {
	repo := &mockRepo{movies: []domain.Movie{testMovie("Inception", 2010, 8.8)}}
	gen := &mockGenerator{text: "  Inception is a great pick.  "}
	svc := newTestService(repo, gen)

	ans, err := svc.Chat(context.Background(), "inception")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ans.Text != "Inception is a great pick." {
		t.Errorf("expected trimmed model text, got %q", ans.Text)
	}
	if ans.Source != domain.AnswerFromModel {
		t.Errorf("expected model source, got %q", ans.Source)
	}
	if ans.Intent != domain.IntentMovie {
		t.Errorf("expected movie intent, got %q", ans.Intent)
	}
	if !repo.called || repo.lastLimit != 25 {
		t.Errorf("expected catalog search with limit 25, got called=%v limit=%d", repo.called, repo.lastLimit)
	}
	if !strings.Contains(gen.lastUser, "Inception") {
		t.Errorf("prompt should be grounded on the catalog: %q", gen.lastUser)
	}
}

func TestChat_MovieIntent_GeneratorFailureFallsBack(t *testing.T) {
	repo := &mockRepo{movies: []domain.Movie{testMovie("Inception", 2010, 8.8)}}
	gen := &mockGenerator{err: domain.ErrGeneratorUnavailable}
	svc := newTestService(repo, gen)

	ans, err := svc.Chat(context.Background(), "inception")
	if err != nil {
		t.Fatalf("generator failure must not surface: %v", err)
	}
	if ans.Source != domain.AnswerFromFallback {
		t.Errorf("expected fallback source, got %q", ans.Source)
	}
	if !strings.Contains(ans.Text, "Inception") || !strings.Contains(ans.Text, "IMDb") {
		t.Errorf("fallback should list the match: %q", ans.Text)
	}
}

func TestChat_MovieIntent_EmptyModelOutputFallsBack(t *testing.T) {
	repo := &mockRepo{movies: []domain.Movie{testMovie("Heat", 1995, 8.3)}}
	gen := &mockGenerator{text: "   "}
	svc := newTestService(repo, gen)

	ans, err := svc.Chat(context.Background(), "heat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ans.Source != domain.AnswerFromFallback {
		t.Errorf("whitespace-only model output should fall back, got %q", ans.Source)
	}
}

func TestChat_MovieIntent_FallbackListsBeyondPromptCap(t *testing.T) {
	var movies []domain.Movie
	for i := 0; i < 25; i++ {
		movies = append(movies, testMovie("Movie", 1990+i, 7))
	}
	repo := &mockRepo{movies: movies}
	gen := &mockGenerator{err: errors.New("boom")}
	svc := newTestService(repo, gen)

	ans, err := svc.Chat(context.Background(), "movie marathon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Count(ans.Text, "🎬"); got != 25 {
		t.Errorf("fallback must list all 25 matches, got %d", got)
	}
	// The prompt, in contrast, is capped.
	if got := strings.Count(gen.lastUser, "- Movie ("); got != maxPromptMovies {
		t.Errorf("prompt should carry %d rows, got %d", maxPromptMovies, got)
	}
}

func TestChat_MovieIntent_NoMatches(t *testing.T) {
	repo := &mockRepo{}
	gen := &mockGenerator{err: errors.New("down")}
	svc := newTestService(repo, gen)

	ans, err := svc.Chat(context.Background(), "some unknown film")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ans.Text != "🤖 Sorry, I could not find any matching movies." {
		t.Errorf("unexpected no-matches fallback: %q", ans.Text)
	}
}

func TestChat_MovieIntent_SearchErrorPropagates(t *testing.T) {
	repo := &mockRepo{err: errors.New("db down")}
	svc := newTestService(repo, &mockGenerator{})

	if _, err := svc.Chat(context.Background(), "inception"); err == nil {
		t.Fatal("catalog store errors must propagate")
	}
}

func TestChat_MovieIntent_PassesExtractedFilters(t *testing.T) {
	repo := &mockRepo{}
	gen := &mockGenerator{text: "ok"}
	svc := newTestService(repo, gen)

	if _, err := svc.Chat(context.Background(), "Inception 2010 rating >= 8"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastFilters.Year == nil || *repo.lastFilters.Year != 2010 {
		t.Errorf("expected year filter 2010, got %v", repo.lastFilters.Year)
	}
	if repo.lastFilters.Rating == nil || repo.lastFilters.Rating.Op != domain.CmpGTE {
		t.Errorf("expected rating filter >=, got %+v", repo.lastFilters.Rating)
	}
}

func TestChat_GeneralIntent_ModelAnswer(t *testing.T) {
	repo := &mockRepo{}
	gen := &mockGenerator{text: "Hello! How can I help?"}
	svc := newTestService(repo, gen)

	ans, err := svc.Chat(context.Background(), "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ans.Intent != domain.IntentGeneral {
		t.Errorf("expected general intent, got %q", ans.Intent)
	}
	if ans.Text != "Hello! How can I help?" {
		t.Errorf("unexpected answer: %q", ans.Text)
	}
	if repo.called {
		t.Error("general questions must not hit the catalog")
	}
	if gen.lastUser != "hi" {
		t.Errorf("general prompt should carry the raw question, got %q", gen.lastUser)
	}
}

func TestChat_GeneralIntent_FailureFallsBackExactly(t *testing.T) {
	gen := &mockGenerator{err: errors.New("timeout")}
	svc := newTestService(&mockRepo{}, gen)

	ans, err := svc.Chat(context.Background(), "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ans.Text != "Sorry, I'm having trouble right now." {
		t.Errorf("expected the exact general fallback, got %q", ans.Text)
	}
	if ans.Source != domain.AnswerFromFallback {
		t.Errorf("expected fallback source, got %q", ans.Source)
	}
}

func TestChat_NilGeneratorUsesFallback(t *testing.T) {
	repo := &mockRepo{movies: []domain.Movie{testMovie("Inception", 2010, 8.8)}}
	svc := New(repo, nil, zap.NewNop())

	ans, err := svc.Chat(context.Background(), "inception")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ans.Source != domain.AnswerFromFallback {
		t.Errorf("nil generator should resolve via fallback, got %q", ans.Source)
	}
}
