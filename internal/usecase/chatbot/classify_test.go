package chatbot

import (
	"testing"

	"github.com/duma2005/moviedeck/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		question string
		want     domain.Intent
	}{
		{"greeting", "hi", domain.IntentGeneral},
		{"greeting with punctuation", "Hello!", domain.IntentGeneral},
		{"joke request", "tell me a joke", domain.IntentGeneral},
		{"weather", "what's the weather like", domain.IntentGeneral},
		{"movie keyword", "suggest something to watch, any movie", domain.IntentMovie},
		{"vietnamese movie keyword", "phim hay", domain.IntentMovie},
		{"year pattern wins over general words", "tell me something from 1999", domain.IntentMovie},
		{"year pattern with movie keyword", "recommend a movie from 1999", domain.IntentMovie},
		// Normalization strips ">=", so the comparator never reaches the rule
		// chain; "anything" then matches the "hi" keyword as a substring.
		{"comparator stripped before matching", "anything >= 8.5", domain.IntentGeneral},
		{"bare comparator defaults to movie", "score >= 8.5", domain.IntentMovie},
		{"imdb keyword", "top imdb picks", domain.IntentMovie},
		{"ambiguous defaults to movie", "qwerty asdf zxcv", domain.IntentMovie},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.question); got != tc.want {
				t.Errorf("Classify(%q) = %q, want %q", tc.question, got, tc.want)
			}
		})
	}
}

func TestClassify_RulePriority(t *testing.T) {
	// "date" is a general keyword, but a year in the text forces movie intent.
	if got := Classify("date night picks from 2010"); got != domain.IntentMovie {
		t.Errorf("year pattern should outrank general keywords, got %q", got)
	}
	// "rating" is a movie keyword; it outranks the general keyword "help".
	if got := Classify("help me find a good rating"); got != domain.IntentMovie {
		t.Errorf("movie keywords should outrank general keywords, got %q", got)
	}
}
