package chatbot

import (
	"context"

	"github.com/duma2005/moviedeck/internal/domain"
)

// Repository defines the read-only catalog contract for grounded search.
type Repository interface {
	Search(ctx context.Context, filters domain.FilterSet, limit int) ([]domain.Movie, error)
}

// Generator is the generative-model collaborator. A nil text with nil error
// means the model produced no usable output (the fallback path handles it).
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}
