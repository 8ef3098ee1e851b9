package domain

import "time"

// Movie is a catalog entry.
type Movie struct {
	ID              int64
	Title           string
	OriginalTitle   string
	ReleaseDate     *time.Time
	DurationMinutes *int
	AgeRating       string
	Description     string
	Storyline       string
	IMDbScore       *float64
	IMDbVoteCount   *int
	PosterURL       string
	CoverURL        string
	TrailerURL      string
	CreatedAt       time.Time
}

// ReleaseYear returns the year of the release date, or nil when unknown.
func (m Movie) ReleaseYear() *int {
	if m.ReleaseDate == nil {
		return nil
	}
	y := m.ReleaseDate.Year()
	return &y
}

// Summary projects the movie onto the fields used for display and grounding.
func (m Movie) Summary() MovieSummary {
	return MovieSummary{
		Title:       m.Title,
		ReleaseYear: m.ReleaseYear(),
		IMDbScore:   m.IMDbScore,
	}
}

// MovieSummary is the read-only projection shown in chatbot answers.
type MovieSummary struct {
	Title       string
	ReleaseYear *int
	IMDbScore   *float64
}

// Genre is a movie category.
type Genre struct {
	ID   int64
	Name string
}

// Person is a cast or crew member.
type Person struct {
	ID        int64
	FullName  string
	BirthDate *time.Time
	AvatarURL string
	Bio       string
}

// CastRole enumerates the roles a person can hold on a movie.
type CastRole string

const (
	RoleDirector CastRole = "Director"
	RoleWriter   CastRole = "Writer"
	RoleActor    CastRole = "Actor"
)

// CastMember links a person to a movie in a given role.
type CastMember struct {
	PersonID      int64
	FullName      string
	Role          CastRole
	CharacterName string
}

// Credit is a movie appearance as seen from a person's filmography.
type Credit struct {
	MovieID       int64
	Title         string
	Role          CastRole
	CharacterName string
}
