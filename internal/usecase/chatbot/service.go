package chatbot

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/duma2005/moviedeck/internal/domain"
	"github.com/duma2005/moviedeck/internal/metrics"
)

// searchLimit is the hard ceiling on catalog rows considered per question.
const searchLimit = 25

// Service runs the question pipeline: normalize, classify, extract filters,
// search the catalog, prompt the model, and resolve the answer with a
// deterministic fallback when the model is unavailable or unhelpful.
type Service struct {
	repo   Repository
	gen    Generator
	logger *zap.Logger
}

// New creates a chatbot service. gen may be nil when no generator is
// configured; every question then resolves through the fallback path.
func New(repo Repository, gen Generator, logger *zap.Logger) *Service {
	return &Service{repo: repo, gen: gen, logger: logger}
}

// Chat answers a question. It fails only when the question is empty after
// trimming; generator failures degrade to a deterministic answer.
func (s *Service) Chat(ctx context.Context, question string) (domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Answer{}, domain.ErrEmptyQuestion
	}

	intent := Classify(question)
	metrics.ChatQuestionsTotal.WithLabelValues(string(intent)).Inc()

	var answer domain.Answer
	var err error
	if intent == domain.IntentGeneral {
		answer = s.answerGeneral(ctx, question)
	} else {
		answer, err = s.answerMovie(ctx, question)
		if err != nil {
			return domain.Answer{}, err
		}
	}

	metrics.ChatAnswersTotal.WithLabelValues(string(answer.Intent), string(answer.Source)).Inc()
	return answer, nil
}

func (s *Service) answerGeneral(ctx context.Context, question string) domain.Answer {
	prompt := BuildGeneralPrompt(question)

	if text := s.generate(ctx, prompt); text != "" {
		return domain.Answer{Text: text, Source: domain.AnswerFromModel, Intent: domain.IntentGeneral}
	}
	return domain.Answer{Text: GeneralFallback, Source: domain.AnswerFromFallback, Intent: domain.IntentGeneral}
}

func (s *Service) answerMovie(ctx context.Context, question string) (domain.Answer, error) {
	filters := ExtractFilters(question)

	movies, err := s.repo.Search(ctx, filters, searchLimit)
	if err != nil {
		return domain.Answer{}, err
	}

	summaries := make([]domain.MovieSummary, len(movies))
	for i, m := range movies {
		summaries[i] = m.Summary()
	}

	prompt := BuildMoviePrompt(question, summaries)

	if text := s.generate(ctx, prompt); text != "" {
		return domain.Answer{Text: text, Source: domain.AnswerFromModel, Intent: domain.IntentMovie}, nil
	}
	return domain.Answer{
		Text:   FormatMovieFallback(summaries),
		Source: domain.AnswerFromFallback,
		Intent: domain.IntentMovie,
	}, nil
}

// generate invokes the model and swallows every failure: the caller treats an
// empty string as "use the fallback". No retries; the fallback already
// guarantees a usable answer.
func (s *Service) generate(ctx context.Context, prompt Prompt) string {
	if s.gen == nil {
		return ""
	}

	text, err := s.gen.Generate(ctx, prompt.System, prompt.User)
	if err != nil {
		s.logger.Warn("generator failed, using fallback", zap.Error(err))
		return ""
	}
	return strings.TrimSpace(text)
}
