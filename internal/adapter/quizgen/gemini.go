package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"go.uber.org/zap"

	"unrot/internal/domain"
	"unrot/internal/logger"
)

// maxPromptArticles caps how many retrieved articles are embedded in the
// generation prompt.
const maxPromptArticles = 12

const quizPrompt = `You are a quiz generator for a news app called "Unrot". Generate multiple-choice quiz questions based on the provided news articles and the user's interests.

Each question should have:
1. A topic label (e.g., "TECHNOLOGY", "POLITICS", "SCIENCE")
2. A clear question
3. Exactly 4 answer options (A, B, C, D)
4. The index of the correct answer (0 for A, 1 for B, 2 for C, 3 for D)
5. A brief explanation of why the correct answer is right (1-2 sentences)
6. Source name and URL if based on a specific article

Generate a MIX of:
- Current affairs questions based on the provided news articles
- General knowledge questions related to the user's topics of interest

Here are the news articles:
%s

The user is interested in: %s

Return a JSON array of exactly 8 quiz questions. Each must have this EXACT structure:
{
  "topic": "TOPIC_LABEL",
  "question": "What is the question?",
  "options": ["Option A", "Option B", "Option C", "Option D"],
  "correct_answer": 0,
  "explanation": "Brief explanation of the correct answer.",
  "source_name": "Source Name",
  "source_url": "https://example.com"
}

IMPORTANT:
- "options" must always have exactly 4 items
- "correct_answer" must be an integer 0-3
- "source_name" and "source_url" must be strings (use "" if unknown)
- Make questions challenging but fair
- Vary the position of the correct answer (don't always use 0)
- Return ONLY the JSON array, no other text
`

// GeminiGenerator implements domain.QuizGenerator against the Gemini API via
// langchaingo. The API credential belongs to the caller, so the client is
// created per request rather than held on the struct.
type GeminiGenerator struct {
	model string
}

// NewGeminiGenerator creates a new GeminiGenerator for the given model.
func NewGeminiGenerator(model string) *GeminiGenerator {
	return &GeminiGenerator{model: model}
}

// Generate builds the quiz prompt and returns the provider's raw textual
// response. No retry is attempted; a provider error propagates to the caller.
func (g *GeminiGenerator) Generate(ctx context.Context, articles []domain.Article, topics []string, apiKey string) (string, error) {
	l := logger.Get()

	if apiKey == "" {
		return "", fmt.Errorf("gemini api key is empty")
	}

	prompt, err := buildPrompt(articles, topics)
	if err != nil {
		return "", err
	}

	llm, err := googleai.New(ctx, googleai.WithAPIKey(apiKey), googleai.WithDefaultModel(g.model))
	if err != nil {
		return "", fmt.Errorf("create gemini client: %w", err)
	}

	l.Info("Sending generation request to Gemini",
		zap.String("model", g.model),
		zap.Strings("topics", topics),
		zap.Int("articles", len(articles)))

	response, err := llms.GenerateFromSinglePrompt(ctx, llm, prompt)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	l.Info("Received generation response", zap.Int("length", len(response)))
	return response, nil
}

func buildPrompt(articles []domain.Article, topics []string) (string, error) {
	if len(articles) > maxPromptArticles {
		articles = articles[:maxPromptArticles]
	}
	if articles == nil {
		articles = []domain.Article{}
	}
	newsJSON, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize articles: %w", err)
	}
	return fmt.Sprintf(quizPrompt, newsJSON, strings.Join(topics, ", ")), nil
}

var _ domain.QuizGenerator = (*GeminiGenerator)(nil)
