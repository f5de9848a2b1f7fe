package service

import (
	"context"
	"os"
	"testing"
	"time"

	"unrot/internal/config"
	"unrot/internal/domain"
	"unrot/internal/logger"
	"unrot/internal/taskpool"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// TestMain initializes the logger for all tests in this package.
func TestMain(m *testing.M) {
	if err := logger.Initialize(config.LoggerConfig{Level: "info"}); err != nil {
		panic("Failed to initialize logger for tests: " + err.Error())
	}
	exitVal := m.Run()
	_ = logger.Sync()
	os.Exit(exitVal)
}

// --- Mocks ---

type MockNewsProvider struct {
	mock.Mock
	delay time.Duration
}

func (m *MockNewsProvider) FetchArticles(ctx context.Context, topics []string, perTopicLimit int) []domain.Article {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	args := m.Called(ctx, topics, perTopicLimit)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Article)
}

type MockQuizGenerator struct {
	mock.Mock
	delay time.Duration
}

func (m *MockQuizGenerator) Generate(ctx context.Context, articles []domain.Article, topics []string, apiKey string) (string, error) {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	args := m.Called(ctx, articles, topics, apiKey)
	return args.String(0), args.Error(1)
}

func testConfig() *config.Config {
	return &config.Config{
		Quiz: config.QuizConfig{
			Model:             "gemini-2.5-flash",
			NewsTimeout:       200 * time.Millisecond,
			GenerationTimeout: 500 * time.Millisecond,
			ArticlesPerTopic:  3,
			WorkerPoolSize:    4,
		},
	}
}

func testProfile() *domain.Profile {
	return &domain.Profile{
		ID:           "01HTEST",
		Name:         "Ada",
		Email:        "ada@example.com",
		Interests:    []string{"golang", "space"},
		GeminiAPIKey: "test-api-key",
	}
}

const eightCardResponse = "```json\n" + `[
	{"topic":"TECHNOLOGY","question":"Q1?","options":["a","b","c","d"],"correct_answer":0,"explanation":"e1","source_name":"Go Blog","source_url":"https://go.dev"},
	{"topic":"TECHNOLOGY","question":"Q2?","options":["a","b","c","d"],"correct_answer":1,"explanation":"e2","source_name":"","source_url":""},
	{"topic":"SPACE","question":"Q3?","options":["a","b","c","d"],"correct_answer":2,"explanation":"e3","source_name":"NASA","source_url":"https://nasa.gov"},
	{"topic":"SPACE","question":"Q4?","options":["a","b","c","d"],"correct_answer":3,"explanation":"e4","source_name":"","source_url":""},
	{"topic":"GENERAL","question":"Q5?","options":["a","b","c","d"],"correct_answer":0,"explanation":"e5","source_name":"","source_url":""},
	{"topic":"GENERAL","question":"Q6?","options":["a","b","c","d"],"correct_answer":1,"explanation":"e6","source_name":"","source_url":""},
	{"topic":"TECHNOLOGY","question":"Q7?","options":["a","b","c","d"],"correct_answer":2,"explanation":"e7","source_name":"","source_url":""},
	{"topic":"SPACE","question":"Q8?","options":["a","b","c","d"],"correct_answer":3,"explanation":"e8","source_name":"","source_url":""}
]` + "\n```"

func TestGenerateQuizHappyPath(t *testing.T) {
	news := new(MockNewsProvider)
	generator := new(MockQuizGenerator)
	cfg := testConfig()
	svc := NewQuizService(news, generator, taskpool.New(4), cfg)
	profile := testProfile()

	articles := []domain.Article{
		{Title: "Go 1.25 released", Topic: "golang", Image: "https://img.example/go.png"},
		{Title: "Generics in practice", Topic: "golang"},
		{Title: "New lunar mission", Topic: "space"},
	}
	news.On("FetchArticles", mock.Anything, profile.Interests, 3).Return(articles)
	generator.On("Generate", mock.Anything, articles, profile.Interests, "test-api-key").
		Return(eightCardResponse, nil)

	resp, err := svc.GenerateQuiz(context.Background(), profile)

	require.NoError(t, err)
	require.Len(t, resp.Cards, 8)
	for i, card := range resp.Cards {
		assert.Equal(t, i, card.ID)
		assert.Len(t, card.Options, 4)
		assert.GreaterOrEqual(t, card.CorrectAnswer, 0)
		assert.LessOrEqual(t, card.CorrectAnswer, 3)
		// The single available article image backfills every card.
		assert.Equal(t, "https://img.example/go.png", card.ImageURL)
	}
	news.AssertExpectations(t)
	generator.AssertExpectations(t)
}

func TestGenerateQuizNewsTimeoutFallsBackToEmptyArticles(t *testing.T) {
	news := &MockNewsProvider{delay: 400 * time.Millisecond}
	generator := new(MockQuizGenerator)
	cfg := testConfig()
	svc := NewQuizService(news, generator, taskpool.New(4), cfg)
	profile := testProfile()

	news.On("FetchArticles", mock.Anything, profile.Interests, 3).Return([]domain.Article{{Title: "too late"}})
	// Synthesis still runs, fed an empty article list.
	generator.On("Generate", mock.Anything, []domain.Article(nil), profile.Interests, "test-api-key").
		Return(eightCardResponse, nil)

	resp, err := svc.GenerateQuiz(context.Background(), profile)

	require.NoError(t, err)
	assert.Len(t, resp.Cards, 8)
	generator.AssertExpectations(t)
}

func TestGenerateQuizGenerationTimeoutIsFatal(t *testing.T) {
	news := new(MockNewsProvider)
	generator := &MockQuizGenerator{delay: time.Second}
	cfg := testConfig()
	svc := NewQuizService(news, generator, taskpool.New(4), cfg)
	profile := testProfile()

	news.On("FetchArticles", mock.Anything, profile.Interests, 3).Return(nil)
	generator.On("Generate", mock.Anything, []domain.Article(nil), profile.Interests, "test-api-key").
		Return("", nil)

	_, err := svc.GenerateQuiz(context.Background(), profile)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrGenerationTimeout, domainErr.Code)
}

func TestGenerateQuizProviderErrorIsFatal(t *testing.T) {
	news := new(MockNewsProvider)
	generator := new(MockQuizGenerator)
	cfg := testConfig()
	svc := NewQuizService(news, generator, taskpool.New(4), cfg)
	profile := testProfile()

	news.On("FetchArticles", mock.Anything, profile.Interests, 3).Return(nil)
	generator.On("Generate", mock.Anything, []domain.Article(nil), profile.Interests, "test-api-key").
		Return("", assert.AnError)

	_, err := svc.GenerateQuiz(context.Background(), profile)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrProviderError, domainErr.Code)
}

func TestGenerateQuizLetterAnswerIsRepairedNotFatal(t *testing.T) {
	news := new(MockNewsProvider)
	generator := new(MockQuizGenerator)
	cfg := testConfig()
	svc := NewQuizService(news, generator, taskpool.New(4), cfg)
	profile := testProfile()

	news.On("FetchArticles", mock.Anything, profile.Interests, 3).Return(nil)
	generator.On("Generate", mock.Anything, []domain.Article(nil), profile.Interests, "test-api-key").
		Return(`[{"topic":"T","question":"Q?","options":["a","b","c","d"],"correct_answer":"B"}]`, nil)

	resp, err := svc.GenerateQuiz(context.Background(), profile)

	require.NoError(t, err)
	require.Len(t, resp.Cards, 1)
	assert.Equal(t, 0, resp.Cards[0].CorrectAnswer)
}

func TestGenerateQuizProseResponseIsUnparseable(t *testing.T) {
	news := new(MockNewsProvider)
	generator := new(MockQuizGenerator)
	cfg := testConfig()
	svc := NewQuizService(news, generator, taskpool.New(4), cfg)
	profile := testProfile()

	news.On("FetchArticles", mock.Anything, profile.Interests, 3).Return(nil)
	generator.On("Generate", mock.Anything, []domain.Article(nil), profile.Interests, "test-api-key").
		Return("I cannot generate a quiz right now, sorry.", nil)

	_, err := svc.GenerateQuiz(context.Background(), profile)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrUnparseableResponse, domainErr.Code)
}

func TestGenerateQuizEmptyArrayMeansNoCards(t *testing.T) {
	news := new(MockNewsProvider)
	generator := new(MockQuizGenerator)
	cfg := testConfig()
	svc := NewQuizService(news, generator, taskpool.New(4), cfg)
	profile := testProfile()

	news.On("FetchArticles", mock.Anything, profile.Interests, 3).Return(nil)
	generator.On("Generate", mock.Anything, []domain.Article(nil), profile.Interests, "test-api-key").
		Return("[]", nil)

	_, err := svc.GenerateQuiz(context.Background(), profile)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrNoCardsProduced, domainErr.Code)
}

// --- backfillImages ---

func TestBackfillImagesRoundRobin(t *testing.T) {
	cards := []domain.QuizCard{
		{ID: 0}, {ID: 1}, {ID: 2, ImageURL: "https://img.example/own.png"}, {ID: 3}, {ID: 4},
	}
	articles := []domain.Article{
		{Image: "https://img.example/a.png"},
		{Image: ""},
		{Image: "https://img.example/b.png"},
	}

	backfillImages(cards, articles)

	assert.Equal(t, "https://img.example/a.png", cards[0].ImageURL)
	assert.Equal(t, "https://img.example/b.png", cards[1].ImageURL)
	// Pre-imaged card keeps its image and does not advance the counter.
	assert.Equal(t, "https://img.example/own.png", cards[2].ImageURL)
	assert.Equal(t, "https://img.example/a.png", cards[3].ImageURL)
	assert.Equal(t, "https://img.example/b.png", cards[4].ImageURL)
}

func TestBackfillImagesNoImagesIsNoOp(t *testing.T) {
	cards := []domain.QuizCard{{ID: 0}, {ID: 1, ImageURL: "keep"}}
	articles := []domain.Article{{Image: ""}, {Title: "no image"}}

	backfillImages(cards, articles)

	assert.Equal(t, "", cards[0].ImageURL)
	assert.Equal(t, "keep", cards[1].ImageURL)
}
