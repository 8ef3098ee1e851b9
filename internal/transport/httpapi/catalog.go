package httpapi

import "net/http"

type genreItem struct {
	GenreID int64  `json:"genre_id"`
	Name    string `json:"name"`
}

// handleGenres handles GET /genres.
func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := s.genres.List(r.Context())
	if err != nil {
		s.handleError(w, err)
		return
	}
	out := make([]genreItem, len(genres))
	for i, g := range genres {
		out[i] = genreItem{GenreID: g.ID, Name: g.Name}
	}
	writeJSON(w, http.StatusOK, out)
}

type creditItem struct {
	MovieID       int64  `json:"movie_id"`
	Title         string `json:"title"`
	Role          string `json:"role"`
	CharacterName string `json:"character_name,omitempty"`
}

type personResponse struct {
	PersonID  int64        `json:"person_id"`
	FullName  string       `json:"full_name"`
	BirthDate *string      `json:"birth_date"`
	AvatarURL string       `json:"avatar_url,omitempty"`
	Bio       string       `json:"bio,omitempty"`
	Credits   []creditItem `json:"credits"`
}

// handleGetPerson handles GET /people/{personID}.
func (s *Server) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "personID")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid person id")
		return
	}
	p, err := s.people.GetByID(r.Context(), id)
	if err != nil {
		s.handleError(w, err)
		return
	}
	credits, err := s.people.Credits(r.Context(), id)
	if err != nil {
		s.handleError(w, err)
		return
	}

	out := personResponse{
		PersonID:  p.ID,
		FullName:  p.FullName,
		BirthDate: formatDate(p.BirthDate),
		AvatarURL: p.AvatarURL,
		Bio:       p.Bio,
		Credits:   make([]creditItem, len(credits)),
	}
	for i, c := range credits {
		out.Credits[i] = creditItem{
			MovieID:       c.MovieID,
			Title:         c.Title,
			Role:          string(c.Role),
			CharacterName: c.CharacterName,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
