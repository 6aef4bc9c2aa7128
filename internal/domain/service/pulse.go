package service

import (
	"CryptoPulse/internal/domain/models"
)

// Classifier maps free text to a sentiment label and raw score. Must be a
// deterministic, pure function of its input.
type Classifier interface {
	Classify(text string) models.SentimentClassification
}

// Smoother blends a fresh classification with textually similar history and
// returns the final label. Appends the post-blend record as a side effect.
type Smoother interface {
	Smooth(title string, label models.SentimentLabel, source string) models.SentimentLabel
}

// Curator ranks raw items for the top-N feed by recency-dominant score.
type Curator interface {
	Curate(items []*models.RawItem) []*models.RawItem
}

// Normalizer folds raw mentions into canonical entities, one per key per run.
type Normalizer interface {
	Normalize(items []*models.RawItem) []*models.NormalizedEntity
}

// Synthesizer turns cross-source entities into ordered insights. Video
// opportunities ride along separately because the opportunity rule reads
// them verbatim rather than through the entity fold.
type Synthesizer interface {
	Synthesize(entities []*models.NormalizedEntity, videoOpps []models.Opportunity) []models.Insight
}
