package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleOMDb handles GET /external/omdb.
func (s *Server) handleOMDb(w http.ResponseWriter, r *http.Request) {
	body, err := s.external.OMDb(r.Context(), r.URL.Query())
	if err != nil {
		s.handleError(w, err)
		return
	}
	writeRawJSON(w, body)
}

// handleTrakt handles GET /external/trakt/*.
func (s *Server) handleTrakt(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	body, err := s.external.Trakt(r.Context(), path, r.URL.Query())
	if err != nil {
		s.handleError(w, err)
		return
	}
	writeRawJSON(w, body)
}

func writeRawJSON(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
