package service

import (
	"context"
	"errors"

	"unrot/internal/adapter/quizgen"
	"unrot/internal/config"
	"unrot/internal/domain"
	"unrot/internal/dto"
	"unrot/internal/logger"
	"unrot/internal/taskpool"

	"go.uber.org/zap"
)

// QuizService assembles a personalized quiz for a resolved caller.
type QuizService interface {
	GenerateQuiz(ctx context.Context, profile *domain.Profile) (*dto.QuizResponse, error)
}

type quizService struct {
	news      domain.NewsProvider
	generator domain.QuizGenerator
	pool      *taskpool.Pool
	cfg       *config.Config
}

// NewQuizService creates a new instance of quizService.
func NewQuizService(news domain.NewsProvider, generator domain.QuizGenerator, pool *taskpool.Pool, cfg *config.Config) QuizService {
	return &quizService{
		news:      news,
		generator: generator,
		pool:      pool,
		cfg:       cfg,
	}
}

// GenerateQuiz runs the pipeline: bounded news retrieval, bounded synthesis,
// parse and repair, image backfill. Retrieval always finishes (or is
// abandoned) before synthesis starts, because the prompt depends on its
// output. A news timeout degrades grounding but never fails the quiz; a
// synthesis timeout or provider error is fatal for this attempt.
func (s *quizService) GenerateQuiz(ctx context.Context, profile *domain.Profile) (*dto.QuizResponse, error) {
	l := logger.Get()
	l.Info("Generating quiz",
		zap.String("profile_id", profile.ID),
		zap.Strings("interests", profile.Interests))

	articles, err := taskpool.Do(ctx, s.pool, s.cfg.Quiz.NewsTimeout, func() ([]domain.Article, error) {
		return s.news.FetchArticles(ctx, profile.Interests, s.cfg.Quiz.ArticlesPerTopic), nil
	})
	if err != nil {
		if !errors.Is(err, taskpool.ErrDeadlineExceeded) {
			return nil, domain.NewInternalError("Failed to fetch news", err)
		}
		l.Warn("News fetch timed out, generating quiz without news")
		articles = nil
	} else {
		l.Info("Fetched news items", zap.Int("count", len(articles)))
	}

	raw, err := taskpool.Do(ctx, s.pool, s.cfg.Quiz.GenerationTimeout, func() (string, error) {
		return s.generator.Generate(ctx, articles, profile.Interests, profile.GeminiAPIKey)
	})
	if err != nil {
		if errors.Is(err, taskpool.ErrDeadlineExceeded) {
			l.Error("Quiz generation timed out")
			return nil, domain.NewGenerationTimeoutError()
		}
		l.Error("Quiz generation failed", zap.Error(err))
		return nil, domain.NewProviderError(err)
	}

	cards, err := quizgen.ParseCards(raw)
	if err != nil {
		l.Error("Could not parse quiz response", zap.Error(err))
		return nil, domain.NewUnparseableResponseError(err)
	}
	if len(cards) == 0 {
		return nil, domain.NewNoCardsProducedError()
	}

	backfillImages(cards, articles)

	l.Info("Quiz ready", zap.Int("cards", len(cards)))
	return &dto.QuizResponse{Cards: cards}, nil
}

// backfillImages assigns article images round-robin to cards missing one.
// Cards that already carry an image are never overwritten and do not advance
// the counter. With no images available the cards are left as they are.
func backfillImages(cards []domain.QuizCard, articles []domain.Article) {
	var images []string
	for _, a := range articles {
		if a.Image != "" {
			images = append(images, a.Image)
		}
	}
	if len(images) == 0 {
		return
	}

	assigned := 0
	for i := range cards {
		if cards[i].ImageURL == "" {
			cards[i].ImageURL = images[assigned%len(images)]
			assigned++
		}
	}
}
