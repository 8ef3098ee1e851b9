package chatbot

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/duma2005/moviedeck/internal/domain"
)

// The rating keyword may appear before or after the value. Both orders are
// tried in this exact sequence; the first match wins, so a question that
// contains both orderings resolves to the keyword-first reading.
var (
	ratingKeywordAlt   = "(?:" + strings.Join(ratingKeywords, "|") + ")"
	ratingKeywordFirst = regexp.MustCompile(ratingKeywordAlt + `\s*(>=|>|<=|<)?\s*(\d+(?:\.\d+)?)`)
	ratingValueFirst   = regexp.MustCompile(`(>=|>|<=|<)?\s*(\d+(?:\.\d+)?)\s*` + ratingKeywordAlt)
)

// ExtractFilters parses the structured filters out of a question: the first
// in-range year, at most one rating comparator+threshold, and the residual
// search tokens. Numeric tokens and rating keywords never reach the token
// list; they are consumed by the year and rating extraction.
func ExtractFilters(question string) domain.FilterSet {
	normalized := Normalize(question)

	var year *int
	if m := yearRe.FindString(normalized); m != "" {
		if y, err := strconv.Atoi(m); err == nil {
			year = &y
		}
	}

	// Rating runs on the lowered raw text, not the punctuation-stripped
	// normalization: comparators would not survive normalization.
	rating := extractRating(strings.ToLower(question))

	var tokens []string
	for _, token := range strings.Fields(normalized) {
		if isAllDigits(token) || isRatingKeyword(token) {
			continue
		}
		tokens = append(tokens, token)
	}

	return domain.FilterSet{Year: year, Rating: rating, Tokens: tokens}
}

func extractRating(raw string) *domain.RatingFilter {
	m := ratingKeywordFirst.FindStringSubmatch(raw)
	if m == nil {
		m = ratingValueFirst.FindStringSubmatch(raw)
	}
	if m == nil {
		return nil
	}

	op := domain.Comparator(m[1])
	if op == "" {
		op = domain.CmpGTE
	}
	val, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil
	}
	return &domain.RatingFilter{Op: op, Threshold: val}
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isRatingKeyword(token string) bool {
	for _, kw := range ratingKeywords {
		if token == kw {
			return true
		}
	}
	return false
}
