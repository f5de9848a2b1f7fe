package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"unrot/internal/domain"
	"unrot/internal/logger"

	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://duckduckgo.com"
	userAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

	// wt-wt is the region-free locale; p=-1 is moderate safesearch.
	region     = "wt-wt"
	safeSearch = "-1"
)

// vqd is a per-query token DuckDuckGo requires on its news endpoint.
var vqdPattern = regexp.MustCompile(`vqd=['"]?([\d-]+)`)

// Client retrieves news articles from DuckDuckGo. It implements
// domain.NewsProvider.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new DuckDuckGo news client. If httpClient is nil a
// default client with a 15s timeout is used.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
	}
}

// FetchArticles issues one news query per topic and concatenates the results
// in topic order. A failure for one topic is logged and skipped so the
// remaining topics are unaffected; an empty overall result is valid.
func (c *Client) FetchArticles(ctx context.Context, topics []string, perTopicLimit int) []domain.Article {
	l := logger.Get()
	var all []domain.Article

	for _, topic := range topics {
		articles, err := c.fetchTopic(ctx, topic, perTopicLimit)
		if err != nil {
			l.Error("Failed to fetch news for topic", zap.String("topic", topic), zap.Error(err))
			continue
		}
		l.Info("Fetched news for topic", zap.String("topic", topic), zap.Int("count", len(articles)))
		all = append(all, articles...)
	}

	l.Info("Total news items fetched", zap.Int("count", len(all)))
	return all
}

type newsResult struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Source  string `json:"source"`
	URL     string `json:"url"`
	Image   string `json:"image"`
}

func (c *Client) fetchTopic(ctx context.Context, topic string, limit int) ([]domain.Article, error) {
	query := topic + " latest news"

	vqd, err := c.lookupVQD(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vqd lookup: %w", err)
	}

	endpoint := fmt.Sprintf("%s/news.js?l=%s&o=json&noamp=1&p=%s&q=%s&vqd=%s",
		c.baseURL, region, safeSearch, url.QueryEscape(query), url.QueryEscape(vqd))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news endpoint returned status %d", resp.StatusCode)
	}

	var payload struct {
		Results []newsResult `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode news response: %w", err)
	}

	results := payload.Results
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	articles := make([]domain.Article, 0, len(results))
	for _, r := range results {
		articles = append(articles, domain.Article{
			Title:  r.Title,
			Body:   r.Excerpt,
			Source: r.Source,
			URL:    r.URL,
			Image:  r.Image,
			Topic:  topic,
		})
	}
	return articles, nil
}

// lookupVQD fetches the search page for the query and extracts the vqd token
// the news endpoint requires.
func (c *Client) lookupVQD(ctx context.Context, query string) (string, error) {
	endpoint := fmt.Sprintf("%s/?q=%s&iar=news&ia=news", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return "", err
	}
	match := vqdPattern.FindSubmatch(body)
	if match == nil {
		return "", fmt.Errorf("vqd token not found in search page")
	}
	return string(match[1]), nil
}
