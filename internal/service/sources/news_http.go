package sources

import (
	"context"
	"fmt"
	"time"

	"CryptoPulse/internal/domain/models"
	drepo "CryptoPulse/internal/domain/repository"
	xhttp "CryptoPulse/pkg/http"
	"CryptoPulse/pkg/util"
)

// NewsAdapter pulls curated crypto news articles from an HTTP feed.
type NewsAdapter struct {
	url    string
	apiKey string
	client *xhttp.Client
}

func NewNewsAdapter(url, apiKey string, timeout time.Duration) *NewsAdapter {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NewsAdapter{
		url:    url,
		apiKey: apiKey,
		client: xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (a *NewsAdapter) Kind() models.SourceKind { return models.SourceNews }

// Feed-native article shape.
type newsArticle struct {
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
	Severity    string `json:"severity"`
	Categories  []struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
		Trend string `json:"trend"`
	} `json:"categories"`
	Tickers []struct {
		Symbol    string `json:"symbol"`
		Sentiment string `json:"sentiment"`
	} `json:"tickers"`
}

type newsFeedResponse struct {
	Articles []newsArticle `json:"articles"`
}

func (a *NewsAdapter) Fetch(ctx context.Context) ([]*models.RawItem, error) {
	var feed newsFeedResponse
	err := a.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    a.url,
		Headers: map[string]string{
			"Accept":    "application/json",
			"X-Api-Key": a.apiKey,
		},
	}, &feed)
	if err != nil {
		return nil, fmt.Errorf("news fetch: %w", err)
	}

	now := time.Now()
	items := make([]*models.RawItem, 0, len(feed.Articles))
	for _, art := range feed.Articles {
		it := &models.RawItem{
			SourceKind: models.SourceNews,
			SourceName: art.Source,
			Title:      art.Title,
			Body:       art.Summary,
			Timestamp:  util.ParseTimeDefault(art.PublishedAt, now),
			Severity:   models.Severity(art.Severity),
		}
		for _, c := range art.Categories {
			it.Mentions = append(it.Mentions, models.Mention{
				Kind:  models.KindNarrative,
				Name:  c.Name,
				Count: c.Count,
				Trend: c.Trend,
			})
		}
		for _, t := range art.Tickers {
			it.Mentions = append(it.Mentions, models.Mention{
				Kind:      models.KindToken,
				Name:      t.Symbol,
				Sentiment: models.SentimentLabel(t.Sentiment),
			})
		}
		items = append(items, it)
	}
	return items, nil
}

var _ drepo.SourceAdapter = (*NewsAdapter)(nil)
