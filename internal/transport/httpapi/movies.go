package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/duma2005/moviedeck/internal/domain"
	movieuc "github.com/duma2005/moviedeck/internal/usecase/movie"
)

const dateLayout = "2006-01-02"

type movieListItem struct {
	MovieID     int64    `json:"movie_id"`
	Title       string   `json:"title"`
	ReleaseDate *string  `json:"release_date"`
	IMDbScore   *float64 `json:"imdb_score"`
	PosterURL   string   `json:"poster_url,omitempty"`
}

type movieListResponse struct {
	Query        string          `json:"query"`
	Page         int             `json:"page"`
	Limit        int             `json:"limit"`
	TotalResults int             `json:"total_results"`
	Results      []movieListItem `json:"results"`
}

type movieDetailResponse struct {
	MovieID         int64        `json:"movie_id"`
	Title           string       `json:"title"`
	OriginalTitle   string       `json:"original_title,omitempty"`
	ReleaseDate     *string      `json:"release_date"`
	DurationMinutes *int         `json:"duration_minutes"`
	AgeRating       string       `json:"age_rating,omitempty"`
	Description     string       `json:"description,omitempty"`
	Storyline       string       `json:"storyline,omitempty"`
	IMDbScore       *float64     `json:"imdb_score"`
	IMDbVoteCount   *int         `json:"imdb_vote_count"`
	PosterURL       string       `json:"poster_url,omitempty"`
	CoverURL        string       `json:"cover_url,omitempty"`
	TrailerURL      string       `json:"trailer_url,omitempty"`
	Genres          []string     `json:"genres"`
	Cast            []castMember `json:"cast"`
	Rating          ratingStats  `json:"rating"`
}

type castMember struct {
	PersonID      int64  `json:"person_id"`
	FullName      string `json:"full_name"`
	Role          string `json:"role"`
	CharacterName string `json:"character_name,omitempty"`
}

type ratingStats struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type movieRequest struct {
	Title           string   `json:"title"`
	OriginalTitle   string   `json:"original_title"`
	ReleaseDate     *string  `json:"release_date"`
	DurationMinutes *int     `json:"duration_minutes"`
	AgeRating       string   `json:"age_rating"`
	Description     string   `json:"description"`
	Storyline       string   `json:"storyline"`
	IMDbScore       *float64 `json:"imdb_score"`
	IMDbVoteCount   *int     `json:"imdb_vote_count"`
	PosterURL       string   `json:"poster_url"`
	CoverURL        string   `json:"cover_url"`
	TrailerURL      string   `json:"trailer_url"`
	Genres          []string `json:"genres"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func movieToListItem(m domain.Movie, includePoster bool) movieListItem {
	item := movieListItem{
		MovieID:     m.ID,
		Title:       m.Title,
		ReleaseDate: formatDate(m.ReleaseDate),
		IMDbScore:   m.IMDbScore,
	}
	if includePoster {
		item.PosterURL = m.PosterURL
	}
	return item
}

func detailsToResponse(d movieuc.Details) movieDetailResponse {
	genres := make([]string, len(d.Genres))
	for i, g := range d.Genres {
		genres[i] = g.Name
	}
	cast := make([]castMember, len(d.Cast))
	for i, c := range d.Cast {
		cast[i] = castMember{
			PersonID:      c.PersonID,
			FullName:      c.FullName,
			Role:          string(c.Role),
			CharacterName: c.CharacterName,
		}
	}
	m := d.Movie
	return movieDetailResponse{
		MovieID:         m.ID,
		Title:           m.Title,
		OriginalTitle:   m.OriginalTitle,
		ReleaseDate:     formatDate(m.ReleaseDate),
		DurationMinutes: m.DurationMinutes,
		AgeRating:       m.AgeRating,
		Description:     m.Description,
		Storyline:       m.Storyline,
		IMDbScore:       m.IMDbScore,
		IMDbVoteCount:   m.IMDbVoteCount,
		PosterURL:       m.PosterURL,
		CoverURL:        m.CoverURL,
		TrailerURL:      m.TrailerURL,
		Genres:          genres,
		Cast:            cast,
		Rating:          ratingStats{Average: d.Rating.Average, Count: d.Rating.Count},
	}
}

func movieFromRequest(id int64, req movieRequest) (domain.Movie, error) {
	m := domain.Movie{
		ID:              id,
		Title:           req.Title,
		OriginalTitle:   req.OriginalTitle,
		DurationMinutes: req.DurationMinutes,
		AgeRating:       req.AgeRating,
		Description:     req.Description,
		Storyline:       req.Storyline,
		IMDbScore:       req.IMDbScore,
		IMDbVoteCount:   req.IMDbVoteCount,
		PosterURL:       req.PosterURL,
		CoverURL:        req.CoverURL,
		TrailerURL:      req.TrailerURL,
	}
	if req.ReleaseDate != nil && *req.ReleaseDate != "" {
		t, err := time.Parse(dateLayout, *req.ReleaseDate)
		if err != nil {
			return domain.Movie{}, err
		}
		m.ReleaseDate = &t
	}
	return m, nil
}

// pageParams reads page/limit query parameters (1-based page).
func pageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}
	return page, limit
}

func (s *Server) listMovies(w http.ResponseWriter, r *http.Request, includePoster bool) {
	query := r.URL.Query().Get("query")
	page, limit := pageParams(r)

	result, err := s.movies.List(r.Context(), query, (page-1)*limit, limit)
	if err != nil {
		s.handleError(w, err)
		return
	}

	items := make([]movieListItem, len(result.Movies))
	for i, m := range result.Movies {
		items[i] = movieToListItem(m, includePoster)
	}
	writeJSON(w, http.StatusOK, movieListResponse{
		Query:        query,
		Page:         page,
		Limit:        limit,
		TotalResults: result.Total,
		Results:      items,
	})
}

// handleListMovies handles GET /movies (admin listing).
func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	s.listMovies(w, r, false)
}

// handleSearchMovies handles GET /movies/search (public title search).
func (s *Server) handleSearchMovies(w http.ResponseWriter, r *http.Request) {
	s.listMovies(w, r, true)
}

// handleGetMovie handles GET /movies/{movieID}.
func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "movieID")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid movie id")
		return
	}
	d, err := s.movies.Get(r.Context(), id)
	if err != nil {
		s.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detailsToResponse(d))
}

// handleCreateMovie handles POST /movies.
func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	var req movieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	m, err := movieFromRequest(0, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "invalid release_date: "+err.Error())
		return
	}
	d, err := s.movies.Create(r.Context(), m, req.Genres)
	if err != nil {
		s.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, detailsToResponse(d))
}

// handleUpdateMovie handles PUT /movies/{movieID}.
func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "movieID")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid movie id")
		return
	}
	var req movieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	m, err := movieFromRequest(id, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "invalid release_date: "+err.Error())
		return
	}
	d, err := s.movies.Update(r.Context(), m, req.Genres)
	if err != nil {
		s.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detailsToResponse(d))
}

// handleDeleteMovie handles DELETE /movies/{movieID}.
func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "movieID")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid movie id")
		return
	}
	if err := s.movies.Delete(r.Context(), id); err != nil {
		s.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleMovieCast handles GET /movies/{movieID}/cast.
func (s *Server) handleMovieCast(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "movieID")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid movie id")
		return
	}
	members, err := s.movies.Cast(r.Context(), id)
	if err != nil {
		s.handleError(w, err)
		return
	}
	out := make([]castMember, len(members))
	for i, c := range members {
		out[i] = castMember{
			PersonID:      c.PersonID,
			FullName:      c.FullName,
			Role:          string(c.Role),
			CharacterName: c.CharacterName,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type castRequest struct {
	PersonID      int64  `json:"person_id"`
	Role          string `json:"role"`
	CharacterName string `json:"character_name"`
}

// handleAddCast handles POST /movies/{movieID}/cast.
func (s *Server) handleAddCast(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "movieID")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid movie id")
		return
	}
	var req castRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.movies.AddCast(r.Context(), id, req.PersonID, domain.CastRole(req.Role), req.CharacterName); err != nil {
		s.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"ok": true})
}

// handleRemoveCast handles DELETE /movies/{movieID}/cast.
func (s *Server) handleRemoveCast(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "movieID")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid movie id")
		return
	}
	var req castRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.movies.RemoveCast(r.Context(), id, req.PersonID, domain.CastRole(req.Role)); err != nil {
		s.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
