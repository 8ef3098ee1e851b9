package httpapi

import (
	"encoding/json"
	"net/http"
	"time"
)

type rateRequest struct {
	Rating float64 `json:"rating"`
}

type ratingResponse struct {
	MovieID int64   `json:"movie_id"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type myRating struct {
	MovieID   int64     `json:"movie_id"`
	Rating    float64   `json:"rating"`
	UpdatedAt time.Time `json:"updated_at"`
}

// handleRate handles PUT /ratings/{movieID}.
func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())
	movieID, err := pathID(r, "movieID")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid movie id")
		return
	}
	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	agg, err := s.ratings.Rate(r.Context(), u.ID, movieID, req.Rating)
	if err != nil {
		s.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ratingResponse{MovieID: movieID, Average: agg.Average, Count: agg.Count})
}

// handleUnrate handles DELETE /ratings/{movieID}.
func (s *Server) handleUnrate(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())
	movieID, err := pathID(r, "movieID")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid movie id")
		return
	}
	if err := s.ratings.Unrate(r.Context(), u.ID, movieID); err != nil {
		s.handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleMyRatings handles GET /ratings/me.
func (s *Server) handleMyRatings(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())
	ratings, err := s.ratings.ListMine(r.Context(), u.ID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	out := make([]myRating, len(ratings))
	for i, rt := range ratings {
		out[i] = myRating{MovieID: rt.MovieID, Rating: rt.Value, UpdatedAt: rt.UpdatedAt}
	}
	writeJSON(w, http.StatusOK, out)
}

// handleMovieRating handles GET /ratings/{movieID}.
func (s *Server) handleMovieRating(w http.ResponseWriter, r *http.Request) {
	movieID, err := pathID(r, "movieID")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid movie id")
		return
	}
	agg, err := s.ratings.ForMovie(r.Context(), movieID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ratingResponse{MovieID: movieID, Average: agg.Average, Count: agg.Count})
}

// handleWatchlistAdd handles POST /watchlist/{movieID}.
func (s *Server) handleWatchlistAdd(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())
	movieID, err := pathID(r, "movieID")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid movie id")
		return
	}
	if err := s.watchlist.Add(r.Context(), u.ID, movieID); err != nil {
		s.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]bool{"ok": true})
}

// handleWatchlistRemove handles DELETE /watchlist/{movieID}.
func (s *Server) handleWatchlistRemove(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())
	movieID, err := pathID(r, "movieID")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid movie id")
		return
	}
	if err := s.watchlist.Remove(r.Context(), u.ID, movieID); err != nil {
		s.handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleWatchlist handles GET /watchlist.
func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	u, _ := userFrom(r.Context())
	movies, err := s.watchlist.List(r.Context(), u.ID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	items := make([]movieListItem, len(movies))
	for i, m := range movies {
		items[i] = movieToListItem(m, true)
	}
	writeJSON(w, http.StatusOK, items)
}
