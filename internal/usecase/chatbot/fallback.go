package chatbot

import (
	"strings"

	"github.com/duma2005/moviedeck/internal/domain"
)

// GeneralFallback is returned verbatim when the model cannot answer a
// general-conversation question.
const GeneralFallback = "Sorry, I'm having trouble right now."

const noMatchesFallback = "🤖 Sorry, I could not find any matching movies."

// FormatMovieFallback renders a deterministic listing of every matched movie.
// Unlike the prompt, this listing is never truncated.
func FormatMovieFallback(movies []domain.MovieSummary) string {
	if len(movies) == 0 {
		return noMatchesFallback
	}

	var lines []string
	for _, m := range movies {
		lines = append(lines, "🎬 **"+m.Title+"** ("+yearOrDash(m.ReleaseYear)+") • IMDb: "+scoreOrDash(m.IMDbScore))
	}
	return "🤖 Found these movies:\n\n" + strings.Join(lines, "\n")
}
