package chatbot

import (
	"regexp"
	"strings"

	"github.com/duma2005/moviedeck/internal/domain"
)

// keywordCategory tags a keyword with the intent it signals.
type keywordCategory int

const (
	categoryMovie keywordCategory = iota
	categoryGeneral
	categoryRating
)

// keywordEntry maps a keyword to its category. The tables are data: adding a
// localized variant never touches the classification algorithm.
type keywordEntry struct {
	keyword  string
	category keywordCategory
}

// keywordTable lists every classification keyword, English and Vietnamese.
var keywordTable = []keywordEntry{
	// movie-domain signals
	{"movie", categoryMovie},
	{"movies", categoryMovie},
	{"phim", categoryMovie},
	{"recommend", categoryMovie},
	{"suggest", categoryMovie},
	{"gợi ý", categoryMovie},
	{"goi y", categoryMovie},
	{"rating", categoryMovie},
	{"imdb", categoryMovie},
	{"genre", categoryMovie},
	{"actor", categoryMovie},
	{"director", categoryMovie},
	{"cast", categoryMovie},
	// general-conversation signals
	{"hi", categoryGeneral},
	{"hello", categoryGeneral},
	{"hey", categoryGeneral},
	{"xin chao", categoryGeneral},
	{"chao", categoryGeneral},
	{"how are you", categoryGeneral},
	{"what's up", categoryGeneral},
	{"tell me", categoryGeneral},
	{"joke", categoryGeneral},
	{"weather", categoryGeneral},
	{"time", categoryGeneral},
	{"date", categoryGeneral},
	{"help", categoryGeneral},
	// rating keywords consumed by filter extraction
	{"rating", categoryRating},
	{"diem", categoryRating},
	{"điểm", categoryRating},
	{"sao", categoryRating},
}

func keywordsFor(cat keywordCategory) []string {
	var out []string
	for _, e := range keywordTable {
		if e.category == cat {
			out = append(out, e.keyword)
		}
	}
	return out
}

var (
	movieKeywords   = keywordsFor(categoryMovie)
	generalKeywords = keywordsFor(categoryGeneral)
	ratingKeywords  = keywordsFor(categoryRating)
)

var (
	yearRe       = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	comparatorRe = regexp.MustCompile(`(>=|>|<=|<)\s*\d+(\.\d+)?`)
)

// classifierRule is one predicate in the fixed-priority rule chain.
type classifierRule struct {
	name    string
	matches func(normalized string) bool
	intent  domain.Intent
}

// classifierRules run in order; the first match decides. The final
// default-to-movie rule treats ambiguous text as a catalog query.
var classifierRules = []classifierRule{
	{"year-pattern", yearRe.MatchString, domain.IntentMovie},
	{"comparator-pattern", comparatorRe.MatchString, domain.IntentMovie},
	{"movie-keyword", containsAnyOf(movieKeywords), domain.IntentMovie},
	{"general-keyword", containsAnyOf(generalKeywords), domain.IntentGeneral},
	{"default", func(string) bool { return true }, domain.IntentMovie},
}

func containsAnyOf(keywords []string) func(string) bool {
	return func(normalized string) bool {
		for _, kw := range keywords {
			if strings.Contains(normalized, kw) {
				return true
			}
		}
		return false
	}
}

// Classify decides whether a question is general conversation or a catalog
// query by running the rule chain over the normalized text.
func Classify(question string) domain.Intent {
	normalized := Normalize(question)
	for _, rule := range classifierRules {
		if rule.matches(normalized) {
			return rule.intent
		}
	}
	return domain.IntentMovie
}
