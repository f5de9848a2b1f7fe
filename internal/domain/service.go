package domain

import "context"

// NewsProvider fetches recent articles for a set of topics. A failure for one
// topic must not abort retrieval for the others; an empty result is a valid
// outcome, not an error.
type NewsProvider interface {
	FetchArticles(ctx context.Context, topics []string, perTopicLimit int) []Article
}

// QuizGenerator invokes the generative-text provider and returns its raw,
// unmodified textual response. The response is not guaranteed to be valid
// JSON; parsing and repair happen downstream.
type QuizGenerator interface {
	Generate(ctx context.Context, articles []Article, topics []string, apiKey string) (string, error)
}
