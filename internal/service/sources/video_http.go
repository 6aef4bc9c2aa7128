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

// VideoAdapter pulls transcript analyses from the video analysis service.
// Transcription itself happens upstream; this adapter only sees the
// already-extracted structure.
type VideoAdapter struct {
	url    string
	client *xhttp.Client
}

func NewVideoAdapter(url string, timeout time.Duration) *VideoAdapter {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &VideoAdapter{url: url, client: xhttp.NewClient(xhttp.WithTimeout(timeout))}
}

func (a *VideoAdapter) Kind() models.SourceKind { return models.SourceVideo }

type videoAnalysis struct {
	Title         string   `json:"title"`
	Summary       string   `json:"summary"`
	Channel       string   `json:"channel"`
	AnalyzedAt    string   `json:"analyzed_at"`
	Sentiment     string   `json:"sentiment"`
	Narratives    []string `json:"narratives"`
	Tokens        []string `json:"tokens"`
	Opportunities []struct {
		Type        string `json:"type"`
		Description string `json:"description"`
		Timeframe   string `json:"timeframe"`
		Conviction  string `json:"conviction"`
	} `json:"opportunities"`
}

type videoFeedResponse struct {
	Analyses []videoAnalysis `json:"analyses"`
}

func (a *VideoAdapter) Fetch(ctx context.Context) ([]*models.RawItem, error) {
	var feed videoFeedResponse
	err := a.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodGet,
		URL:     a.url,
		Headers: map[string]string{"Accept": "application/json"},
	}, &feed)
	if err != nil {
		return nil, fmt.Errorf("video fetch: %w", err)
	}

	now := time.Now()
	items := make([]*models.RawItem, 0, len(feed.Analyses))
	for _, an := range feed.Analyses {
		it := &models.RawItem{
			SourceKind: models.SourceVideo,
			SourceName: an.Channel,
			Title:      an.Title,
			Body:       an.Summary,
			Timestamp:  util.ParseTimeDefault(an.AnalyzedAt, now),
			Sentiment:  models.SentimentLabel(an.Sentiment),
		}
		for _, n := range an.Narratives {
			it.Mentions = append(it.Mentions, models.Mention{Kind: models.KindNarrative, Name: n})
		}
		for _, t := range an.Tokens {
			it.Mentions = append(it.Mentions, models.Mention{Kind: models.KindToken, Name: t})
		}
		for _, o := range an.Opportunities {
			it.Opportunities = append(it.Opportunities, models.Opportunity{
				Type:        o.Type,
				Description: o.Description,
				Timeframe:   o.Timeframe,
				Conviction:  o.Conviction,
			})
		}
		items = append(items, it)
	}
	return items, nil
}

var _ drepo.SourceAdapter = (*VideoAdapter)(nil)
