package chatbot

import (
	"strconv"
	"strings"

	"github.com/duma2005/moviedeck/internal/domain"
)

// maxPromptMovies caps the catalog listing embedded in the model prompt.
// The fallback listing is NOT capped; only the prompt is.
const maxPromptMovies = 10

// Prompt is the two-message instruction set sent to the generative model.
type Prompt struct {
	System string
	User   string
}

const moviePersona = "You are a helpful movie assistant. Answer in English. " +
	"Only use the provided movie list. Do not invent titles."

const generalPersona = "You are a helpful assistant for general conversation. " +
	"Answer in English."

// BuildMoviePrompt grounds the model on at most maxPromptMovies catalog rows.
func BuildMoviePrompt(question string, movies []domain.MovieSummary) Prompt {
	if len(movies) > maxPromptMovies {
		movies = movies[:maxPromptMovies]
	}

	var lines []string
	for _, m := range movies {
		lines = append(lines, "- "+m.Title+" ("+yearOrDash(m.ReleaseYear)+") | IMDb: "+scoreOrDash(m.IMDbScore))
	}

	catalog := "(no matches)"
	if len(lines) > 0 {
		catalog = strings.Join(lines, "\n")
	}

	return Prompt{
		System: moviePersona,
		User: "Question: " + question + "\n\n" +
			"Movie list:\n" + catalog + "\n\n" +
			"Respond with a concise, friendly answer.",
	}
}

// BuildGeneralPrompt passes the question through verbatim.
func BuildGeneralPrompt(question string) Prompt {
	return Prompt{System: generalPersona, User: question}
}

func yearOrDash(year *int) string {
	if year == nil {
		return "—"
	}
	return strconv.Itoa(*year)
}

// scoreOrDash renders a score with at least one decimal ("8.0", "8.8").
// A zero score means "not scored" and renders as a dash.
func scoreOrDash(score *float64) string {
	if score == nil || *score == 0 {
		return "—"
	}
	s := strconv.FormatFloat(*score, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
