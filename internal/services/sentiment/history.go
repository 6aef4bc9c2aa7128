package sentiment

import (
	"sync"
	"time"

	"CryptoPulse/internal/domain/models"
	domsvc "CryptoPulse/internal/domain/service"
	"CryptoPulse/internal/services/features"
)

const (
	// DefaultHistoryCapacity bounds the rolling window of past classifications.
	DefaultHistoryCapacity = 100

	// similarTokenThreshold is how many meaningful title tokens two items
	// must share to count as neighbors.
	similarTokenThreshold = 3

	seedWeight    = 0.7
	historyWeight = 0.3
)

// HistoryStore is the bounded FIFO of past classifications. Explicitly owned
// and injected so smoothing stays testable; guarded by a mutex because the
// aggregator is the only writer today but the HTTP layer runs concurrent
// requests.
type HistoryStore struct {
	mu      sync.Mutex
	cap     int
	records []models.SentimentHistoryRecord
}

func NewHistoryStore(capacity int) *HistoryStore {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &HistoryStore{cap: capacity, records: make([]models.SentimentHistoryRecord, 0, capacity)}
}

// Append adds a record, evicting the oldest when at capacity.
func (s *HistoryStore) Append(rec models.SentimentHistoryRecord) {
	s.mu.Lock()
	if len(s.records) >= s.cap {
		drop := len(s.records) - s.cap + 1
		s.records = append(s.records[:0], s.records[drop:]...)
	}
	s.records = append(s.records, rec)
	s.mu.Unlock()
}

// Similar returns records whose titles share enough meaningful tokens with title.
func (s *HistoryStore) Similar(title string) []models.SentimentHistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.SentimentHistoryRecord
	for _, rec := range s.records {
		if features.SharedTokens(title, rec.Title) >= similarTokenThreshold {
			out = append(out, rec)
		}
	}
	return out
}

// Len returns the current number of records.
func (s *HistoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Records returns a copy of the buffer, oldest first.
func (s *HistoryStore) Records() []models.SentimentHistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SentimentHistoryRecord, len(s.records))
	copy(out, s.records)
	return out
}

// HistorySmoother blends a fresh label with the average of textually similar
// past items to dampen single-item noise. Smoothing is path-dependent on call
// order; callers must feed items chronologically to keep runs reproducible.
type HistorySmoother struct {
	store *HistoryStore
}

func NewHistorySmoother(store *HistoryStore) *HistorySmoother {
	return &HistorySmoother{store: store}
}

// Store exposes the underlying buffer for lifecycle wiring.
func (h *HistorySmoother) Store() *HistoryStore { return h.store }

func (h *HistorySmoother) Smooth(title string, label models.SentimentLabel, source string) models.SentimentLabel {
	seed := labelSeed(label)
	final := seed

	if similar := h.store.Similar(title); len(similar) > 0 {
		sum := 0.0
		for _, rec := range similar {
			sum += rec.Score
		}
		final = seedWeight*seed + historyWeight*(sum/float64(len(similar)))
	}

	finalLabel := bucketScore(final)
	h.store.Append(models.SentimentHistoryRecord{
		Title:      title,
		Timestamp:  time.Now(),
		Label:      finalLabel,
		Score:      final,
		SourceName: source,
	})
	return finalLabel
}

func labelSeed(label models.SentimentLabel) float64 {
	switch label {
	case models.SentimentPositive:
		return 1
	case models.SentimentNegative:
		return -1
	case models.SentimentMixed:
		return 0.2
	default:
		return 0
	}
}

func bucketScore(score float64) models.SentimentLabel {
	switch {
	case score >= 0.6:
		return models.SentimentPositive
	case score <= -0.6:
		return models.SentimentNegative
	case score > -0.2 && score < 0.2:
		return models.SentimentNeutral
	default:
		return models.SentimentMixed
	}
}

var _ domsvc.Smoother = (*HistorySmoother)(nil)
