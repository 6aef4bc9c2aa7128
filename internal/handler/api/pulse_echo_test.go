package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"CryptoPulse/internal/domain/models"
	drepo "CryptoPulse/internal/domain/repository"
	"CryptoPulse/internal/services/curation"
	"CryptoPulse/internal/services/normalize"
	"CryptoPulse/internal/services/sentiment"
	"CryptoPulse/internal/services/synthesis"
	"CryptoPulse/internal/usecase"
	pkgcache "CryptoPulse/pkg/cache"
	xlogger "CryptoPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

type noopMetrics struct{}

func (noopMetrics) RecordItemsFetched(string, int) {}
func (noopMetrics) RecordAdapterFailure(string)    {}
func (noopMetrics) RecordCycleDuration(float64)    {}
func (noopMetrics) RecordInsightsEmitted(int)      {}
func (noopMetrics) RecordCacheLookup(bool)         {}

type fixedAdapter struct {
	kind  models.SourceKind
	items []*models.RawItem
}

func (a *fixedAdapter) Kind() models.SourceKind { return a.kind }
func (a *fixedAdapter) Fetch(context.Context) ([]*models.RawItem, error) {
	return a.items, nil
}

func testHandler(t *testing.T) *PulseEchoHandler {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	adapters := []drepo.SourceAdapter{
		&fixedAdapter{kind: models.SourceNews, items: []*models.RawItem{{
			SourceKind: models.SourceNews,
			SourceName: "coindesk",
			Title:      "steady markets",
			Timestamp:  time.Now(),
			Sentiment:  models.SentimentNeutral,
		}}},
	}
	agg := usecase.NewPulseAggregator(
		adapters,
		sentiment.NewLexicalClassifier(sentiment.DefaultPhraseTables),
		sentiment.NewHistorySmoother(sentiment.NewHistoryStore(100)),
		curation.New(nil, nil, 10),
		normalize.New(),
		synthesis.New(),
		pkgcache.NewMemoryCache(), 5*time.Minute, 2*time.Second,
		noopMetrics{}, l,
	)
	return NewPulseEchoHandler(l, agg, 1)
}

func TestPulseEndpoint(t *testing.T) {
	h := testHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/pulse", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Pulse(c); err != nil {
		t.Fatalf("pulse: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Data models.PulseResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.MarketSentiment != models.MarketNeutral {
		t.Fatalf("expected neutral market, got %s", body.Data.MarketSentiment)
	}
	if len(body.Data.CuratedNews) != 1 {
		t.Fatalf("expected 1 curated item, got %d", len(body.Data.CuratedNews))
	}
}

func TestPulseEndpointRejectsBadLimit(t *testing.T) {
	h := testHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/pulse?limit=999", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Pulse(c); err != nil {
		t.Fatalf("pulse: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("handler writes envelope with 200 transport status, got %d", rec.Code)
	}
	var body struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 envelope status, got %d", body.Status)
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := testHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Health(c); err != nil {
		t.Fatalf("health: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestNewsEndpointLimits(t *testing.T) {
	h := testHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/news?limit=1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.News(c); err != nil {
		t.Fatalf("news: %v", err)
	}
	var body struct {
		Data []*models.RawItem `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) > 1 {
		t.Fatalf("limit must cap the feed, got %d", len(body.Data))
	}
}
