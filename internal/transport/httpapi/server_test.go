package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/duma2005/moviedeck/internal/domain"
	externaluc "github.com/duma2005/moviedeck/internal/usecase/external"
	healthuc "github.com/duma2005/moviedeck/internal/usecase/health"
	movieuc "github.com/duma2005/moviedeck/internal/usecase/movie"
)

// --- Mocks ---

type mockChat struct {
	lastQuestion string
	answer       domain.Answer
	err          error
}

func (m *mockChat) Chat(_ context.Context, question string) (domain.Answer, error) {
	m.lastQuestion = question
	if strings.TrimSpace(question) == "" {
		return domain.Answer{}, domain.ErrEmptyQuestion
	}
	return m.answer, m.err
}

type mockAuth struct {
	users map[string]domain.User
}

func (m *mockAuth) Register(_ context.Context, email, _, _ string) (string, error) {
	if email == "taken@example.com" {
		return "", domain.ErrAlreadyExists
	}
	return "token-" + email, nil
}

func (m *mockAuth) Login(_ context.Context, email, password string) (string, error) {
	if password != "pw" {
		return "", domain.ErrInvalidCredentials
	}
	return "token-" + email, nil
}

func (m *mockAuth) Identify(_ context.Context, token string) (domain.User, error) {
	u, ok := m.users[token]
	if !ok {
		return domain.User{}, domain.ErrUnauthorized
	}
	return u, nil
}

type mockMovies struct {
	details movieuc.Details
	err     error
}

func (m *mockMovies) List(_ context.Context, q string, offset, limit int) (movieuc.Page, error) {
	return movieuc.Page{Offset: offset, Limit: limit}, m.err
}
func (m *mockMovies) Get(_ context.Context, _ int64) (movieuc.Details, error) {
	return m.details, m.err
}
func (m *mockMovies) Create(_ context.Context, _ domain.Movie, _ []string) (movieuc.Details, error) {
	return m.details, m.err
}
func (m *mockMovies) Update(_ context.Context, _ domain.Movie, _ []string) (movieuc.Details, error) {
	return m.details, m.err
}
func (m *mockMovies) Delete(_ context.Context, _ int64) error { return m.err }
func (m *mockMovies) Cast(_ context.Context, _ int64) ([]domain.CastMember, error) {
	return nil, m.err
}
func (m *mockMovies) AddCast(_ context.Context, _, _ int64, _ domain.CastRole, _ string) error {
	return m.err
}
func (m *mockMovies) RemoveCast(_ context.Context, _, _ int64, _ domain.CastRole) error {
	return m.err
}

type mockRatings struct{}

func (mockRatings) Rate(_ context.Context, _, _ int64, _ float64) (domain.RatingAggregate, error) {
	return domain.RatingAggregate{Average: 4, Count: 1}, nil
}
func (mockRatings) Unrate(_ context.Context, _, _ int64) error { return nil }
func (mockRatings) ListMine(_ context.Context, _ int64) ([]domain.Rating, error) {
	return nil, nil
}
func (mockRatings) ForMovie(_ context.Context, _ int64) (domain.RatingAggregate, error) {
	return domain.RatingAggregate{}, nil
}

type mockWatchlist struct{}

func (mockWatchlist) Add(_ context.Context, _, _ int64) error    { return nil }
func (mockWatchlist) Remove(_ context.Context, _, _ int64) error { return nil }
func (mockWatchlist) List(_ context.Context, _ int64) ([]domain.Movie, error) {
	return nil, nil
}

type mockGenres struct{}

func (mockGenres) List(_ context.Context) ([]domain.Genre, error) {
	return []domain.Genre{{ID: 1, Name: "Drama"}}, nil
}

type mockPeople struct{}

func (mockPeople) GetByID(_ context.Context, _ int64) (domain.Person, error) {
	return domain.Person{}, domain.ErrNotFound
}
func (mockPeople) Credits(_ context.Context, _ int64) ([]domain.Credit, error) {
	return nil, nil
}

type mockExternal struct {
	err error
}

func (m *mockExternal) OMDb(_ context.Context, _ url.Values) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []byte(`{"Title":"Heat"}`), nil
}

func (m *mockExternal) Trakt(_ context.Context, _ string, _ url.Values) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []byte("[]"), nil
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

func newTestRouter(t *testing.T, opts ...func(*testDeps)) http.Handler {
	t.Helper()
	deps := &testDeps{
		chat: &mockChat{answer: domain.Answer{Text: "hello", Source: domain.AnswerFromModel}},
		auth: &mockAuth{users: map[string]domain.User{
			"user-token":  {ID: 1, Username: "jane", Email: "jane@example.com", Role: domain.RoleUser},
			"admin-token": {ID: 2, Username: "root", Email: "root@example.com", Role: domain.RoleAdmin},
		}},
		movies:   &mockMovies{},
		external: &mockExternal{},
		health:   &mockHealth{report: healthuc.Report{Status: healthuc.Healthy}},
	}
	for _, opt := range opts {
		opt(deps)
	}

	s := NewServer(deps.chat, deps.auth, deps.movies, mockRatings{}, mockWatchlist{},
		mockGenres{}, mockPeople{}, deps.external, deps.health, zap.NewNop())
	r := chi.NewRouter()
	s.Routes(r)
	return r
}

type testDeps struct {
	chat     *mockChat
	auth     *mockAuth
	movies   *mockMovies
	external *mockExternal
	health   *mockHealth
}

func doRequest(t *testing.T, h http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// --- Chatbot ---

func TestChat_BodyWinsOverQuery(t *testing.T) {
	chat := &mockChat{answer: domain.Answer{Text: "from body"}}
	h := newTestRouter(t, func(d *testDeps) { d.chat = chat })

	w := doRequest(t, h, http.MethodPost, "/chatbot/chat?question=from+query",
		`{"question":"best movies 2010"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if chat.lastQuestion != "best movies 2010" {
		t.Errorf("expected body question to win, got %q", chat.lastQuestion)
	}
}

func TestChat_QueryFallback(t *testing.T) {
	chat := &mockChat{answer: domain.Answer{Text: "ok"}}
	h := newTestRouter(t, func(d *testDeps) { d.chat = chat })

	w := doRequest(t, h, http.MethodPost, "/chatbot/chat?question=hi", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if chat.lastQuestion != "hi" {
		t.Errorf("expected query question, got %q", chat.lastQuestion)
	}
}

func TestChat_EmptyQuestion(t *testing.T) {
	h := newTestRouter(t)

	w := doRequest(t, h, http.MethodPost, "/chatbot/chat", `{"question":"   "}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if resp.Message != "Vui lòng nhập câu hỏi" {
		t.Errorf("unexpected message: %q", resp.Message)
	}
}

func TestChat_Answer(t *testing.T) {
	h := newTestRouter(t)

	w := doRequest(t, h, http.MethodPost, "/chatbot/chat", `{"question":"hi"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp chatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if resp.Answer != "hello" {
		t.Errorf("unexpected answer: %q", resp.Answer)
	}
}

// --- Auth ---

func TestAuth_MissingHeader(t *testing.T) {
	h := newTestRouter(t)
	w := doRequest(t, h, http.MethodGet, "/auth/me", "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestAuth_Me(t *testing.T) {
	h := newTestRouter(t)
	w := doRequest(t, h, http.MethodGet, "/auth/me", "", "user-token")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp userResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if resp.Username != "jane" {
		t.Errorf("unexpected user: %+v", resp)
	}
}

func TestAuth_RegisterConflict(t *testing.T) {
	h := newTestRouter(t)
	w := doRequest(t, h, http.MethodPost, "/auth/register",
		`{"email":"taken@example.com","password":"pw"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAuth_LoginWrongPassword(t *testing.T) {
	h := newTestRouter(t)
	w := doRequest(t, h, http.MethodPost, "/auth/login",
		`{"email":"jane@example.com","password":"nope"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

// --- Admin gating ---

func TestMovies_ListRequiresAdmin(t *testing.T) {
	h := newTestRouter(t)

	w := doRequest(t, h, http.MethodGet, "/movies/", "", "user-token")
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}

	w = doRequest(t, h, http.MethodGet, "/movies/", "", "admin-token")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMovies_SearchIsPublic(t *testing.T) {
	h := newTestRouter(t)
	w := doRequest(t, h, http.MethodGet, "/movies/search?query=heat", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestMovies_NotFound(t *testing.T) {
	h := newTestRouter(t, func(d *testDeps) {
		d.movies = &mockMovies{err: domain.ErrNotFound}
	})
	w := doRequest(t, h, http.MethodGet, "/movies/42", "", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

// --- External ---

func TestExternal_OMDb(t *testing.T) {
	h := newTestRouter(t)
	w := doRequest(t, h, http.MethodGet, "/external/omdb?t=heat", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Heat") {
		t.Errorf("expected proxied body, got %q", w.Body.String())
	}
}

func TestExternal_UpstreamStatusForwarded(t *testing.T) {
	h := newTestRouter(t, func(d *testDeps) {
		d.external = &mockExternal{err: &externaluc.UpstreamError{Status: 404, Body: "no such movie"}}
	})
	w := doRequest(t, h, http.MethodGet, "/external/omdb?t=nope", "", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected upstream 404 forwarded, got %d", w.Code)
	}
}

func TestExternal_NotConfigured(t *testing.T) {
	h := newTestRouter(t, func(d *testDeps) {
		d.external = &mockExternal{err: domain.ErrUpstreamNotConfigured}
	})
	w := doRequest(t, h, http.MethodGet, "/external/omdb?t=heat", "", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

// --- Health ---

func TestHealth_Degraded(t *testing.T) {
	h := newTestRouter(t, func(d *testDeps) {
		d.health = &mockHealth{report: healthuc.Report{
			Status: healthuc.Degraded,
			Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckError},
		}}
	})
	w := doRequest(t, h, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestHealth_OK(t *testing.T) {
	h := newTestRouter(t)
	w := doRequest(t, h, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

// --- Ratings ---

func TestRatings_RequireAuth(t *testing.T) {
	h := newTestRouter(t)
	w := doRequest(t, h, http.MethodPut, "/ratings/1", `{"rating":4.5}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	w = doRequest(t, h, http.MethodPut, "/ratings/1", `{"rating":4.5}`, "user-token")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp ratingResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if resp.Average != 4 || resp.Count != 1 {
		t.Errorf("unexpected aggregate: %+v", resp)
	}
}
