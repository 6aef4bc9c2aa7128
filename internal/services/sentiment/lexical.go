package sentiment

import (
	"strings"

	"CryptoPulse/internal/domain/models"
	domsvc "CryptoPulse/internal/domain/service"
)

// PhraseTables holds the classifier's phrase lists. Kept as data so the
// lexical engine is a pure function over (text, tables) and can be swapped
// for a statistical engine without touching the pipeline.
type PhraseTables struct {
	Positive []string
	Negative []string
	Neutral  []string
}

// DefaultPhraseTables is the built-in table set used when config supplies none.
var DefaultPhraseTables = PhraseTables{
	Positive: []string{
		"bullish", "surge", "rally", "breakout", "adoption", "all-time high",
		"upgrade", "partnership", "institutional", "accumulation", "inflow",
		"approval", "integration", "milestone", "record",
	},
	Negative: []string{
		"bearish", "crash", "dump", "hack", "exploit", "rug pull", "sell-off",
		"liquidation", "lawsuit", "ban", "outflow", "fud", "scam", "downturn",
		"capitulation",
	},
	Neutral: []string{
		"announce", "report", "update", "launch", "release", "statement",
	},
}

// Per-hit weights and label-selection thresholds. The selection order below
// is the contract: zero total -> neutral, both sides above the mixed share ->
// mixed, one side above the dominance share -> that side, strictly larger
// side wins, exact tie -> neutral.
const (
	positiveHitWeight = 2.0
	negativeHitWeight = 2.0
	neutralHitWeight  = 1.0
	mixedShare        = 0.25
	dominantShare     = 0.60
)

// LexicalClassifier scores text by weighted phrase matching with contextual
// overrides for domain-specific combinations.
type LexicalClassifier struct {
	tables PhraseTables
}

func NewLexicalClassifier(tables PhraseTables) *LexicalClassifier {
	if len(tables.Positive) == 0 && len(tables.Negative) == 0 {
		tables = DefaultPhraseTables
	}
	return &LexicalClassifier{tables: tables}
}

func (c *LexicalClassifier) Classify(text string) models.SentimentClassification {
	lower := strings.ToLower(text)

	var pos, neg, neu float64
	for _, p := range c.tables.Positive {
		if strings.Contains(lower, strings.ToLower(p)) {
			pos += positiveHitWeight
		}
	}
	for _, p := range c.tables.Negative {
		if strings.Contains(lower, strings.ToLower(p)) {
			neg += negativeHitWeight
		}
	}
	for _, p := range c.tables.Neutral {
		if strings.Contains(lower, strings.ToLower(p)) {
			neu += neutralHitWeight
		}
	}

	pos, neg = applyContextRules(lower, pos, neg)

	total := pos + neg + neu
	cls := models.SentimentClassification{Label: models.SentimentNeutral}
	if total == 0 {
		return cls
	}
	cls.RawScore = (pos - neg) / total
	cls.SmoothedScore = cls.RawScore

	switch {
	case pos > mixedShare*total && neg > mixedShare*total:
		cls.Label = models.SentimentMixed
	case pos > dominantShare*total:
		cls.Label = models.SentimentPositive
	case neg > dominantShare*total:
		cls.Label = models.SentimentNegative
	case pos > neg:
		cls.Label = models.SentimentPositive
	case neg > pos:
		cls.Label = models.SentimentNegative
	default:
		cls.Label = models.SentimentNeutral
	}
	return cls
}

// applyContextRules adds extra weight for domain combinations that the flat
// phrase lists cannot express on their own.
func applyContextRules(lower string, pos, neg float64) (float64, float64) {
	if strings.Contains(lower, "etf") &&
		!strings.Contains(lower, "reject") && !strings.Contains(lower, "delay") {
		pos += 3
	}
	if strings.Contains(lower, "sec") && strings.Contains(lower, "approv") {
		pos += 4
	}
	if strings.Contains(lower, "regulation") {
		if strings.Contains(lower, "clarity") || strings.Contains(lower, "framework") {
			pos += 3
		} else {
			neg += 2
		}
	}
	return pos, neg
}

var _ domsvc.Classifier = (*LexicalClassifier)(nil)
