package sentiment

import (
	"github.com/jonreiter/govader"

	"CryptoPulse/internal/domain/models"
	domsvc "CryptoPulse/internal/domain/service"
)

// Compound score cutoffs for the VADER engine.
const (
	vaderPositiveCutoff = 0.2
	vaderNegativeCutoff = -0.2
)

// VaderClassifier is the statistical alternative to the lexical engine,
// selectable via sentiment.engine config. It never emits "mixed"; the
// smoother can still produce mixed downstream.
type VaderClassifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderClassifier() *VaderClassifier {
	return &VaderClassifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (c *VaderClassifier) Classify(text string) models.SentimentClassification {
	if text == "" {
		return models.SentimentClassification{Label: models.SentimentNeutral}
	}
	compound := c.analyzer.PolarityScores(text).Compound

	label := models.SentimentNeutral
	if compound >= vaderPositiveCutoff {
		label = models.SentimentPositive
	} else if compound <= vaderNegativeCutoff {
		label = models.SentimentNegative
	}
	return models.SentimentClassification{Label: label, RawScore: compound, SmoothedScore: compound}
}

var _ domsvc.Classifier = (*VaderClassifier)(nil)
