package domain

// Comparator is a rating comparison operator extracted from a question.
type Comparator string

const (
	CmpGTE Comparator = ">="
	CmpGT  Comparator = ">"
	CmpLTE Comparator = "<="
	CmpLT  Comparator = "<"
)

// RatingFilter constrains the IMDb score of catalog matches.
type RatingFilter struct {
	Op        Comparator
	Threshold float64
}

// FilterSet holds the structured filters extracted from one question.
// Tokens never contain purely numeric tokens or rating keywords; those are
// consumed by the year and rating extraction.
type FilterSet struct {
	Year   *int
	Rating *RatingFilter
	Tokens []string
}

// IsEmpty reports whether no filter was extracted at all.
func (f FilterSet) IsEmpty() bool {
	return f.Year == nil && f.Rating == nil && len(f.Tokens) == 0
}

// Intent is the classified branch of a chat question.
type Intent string

const (
	IntentGeneral Intent = "general"
	IntentMovie   Intent = "movie"
)

// AnswerSource records which stage produced the final answer.
type AnswerSource string

const (
	// AnswerFromModel marks text returned by the generative model.
	AnswerFromModel AnswerSource = "model"
	// AnswerFromFallback marks a deterministically formatted answer.
	AnswerFromFallback AnswerSource = "fallback"
)

// Answer is the chatbot's resolved reply.
type Answer struct {
	Text   string
	Source AnswerSource
	Intent Intent
}
