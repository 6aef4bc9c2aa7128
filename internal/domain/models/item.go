package models

import "time"

// SourceKind identifies which adapter produced a raw item.
type SourceKind string

const (
	SourceSocial  SourceKind = "social"
	SourceNews    SourceKind = "news"
	SourceVideo   SourceKind = "video"
	SourceOnchain SourceKind = "onchain"
)

// SourceKinds lists all kinds in a fixed order. Iteration over this slice,
// never over maps, keeps per-source folds deterministic.
var SourceKinds = []SourceKind{SourceSocial, SourceNews, SourceVideo, SourceOnchain}

// Severity is the importance a news/onchain source declared for an item.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityVeryHigh Severity = "very-high"
)

// SentimentLabel classifies a piece of text. The classifier emits the first
// four values; sources may additionally declare market-flavored
// bullish/bearish, which tally alongside positive/negative.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentMixed    SentimentLabel = "mixed"
	SentimentBullish  SentimentLabel = "bullish"
	SentimentBearish  SentimentLabel = "bearish"
)

// SentimentTallyOrder defines the vote tie-break precedence: when two labels
// draw the same count the earlier one in this list wins. An explicit total
// order, never map iteration order.
var SentimentTallyOrder = []SentimentLabel{
	SentimentBullish, SentimentPositive,
	SentimentBearish, SentimentNegative,
	SentimentNeutral, SentimentMixed,
}

// IsPositiveLabel groups the upbeat labels for synthesis checks.
func IsPositiveLabel(l SentimentLabel) bool {
	return l == SentimentPositive || l == SentimentBullish
}

// IsNegativeLabel groups the downbeat labels for synthesis checks.
func IsNegativeLabel(l SentimentLabel) bool {
	return l == SentimentNegative || l == SentimentBearish
}

// EntityKind distinguishes thematic narratives from tradable tokens.
type EntityKind string

const (
	KindNarrative EntityKind = "narrative"
	KindToken     EntityKind = "token"
)

// Mention is one raw, pre-normalization entity reference inside an item.
type Mention struct {
	Kind      EntityKind     `json:"kind"`
	Name      string         `json:"name"`
	Count     int            `json:"count,omitempty"`     // defaults to 1 when the source gives none
	Trend     string         `json:"trend,omitempty"`     // "up" | "down" | "" (narratives only)
	Sentiment SentimentLabel `json:"sentiment,omitempty"` // source-declared; pipeline fills when empty
}

// Opportunity is a trade idea extracted from a video transcript analysis.
type Opportunity struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Timeframe   string `json:"timeframe"`
	Conviction  string `json:"conviction"`
}

// RawItem is one signal from one source. Immutable once an adapter hands it
// over; the pipeline folds it into entities and curated output, then drops it.
type RawItem struct {
	SourceKind    SourceKind     `json:"source_kind"`
	SourceName    string         `json:"source_name"`
	Title         string         `json:"title"`
	Body          string         `json:"body,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
	Severity      Severity       `json:"severity,omitempty"` // news/onchain only
	Mentions      []Mention      `json:"mentions,omitempty"`
	Opportunities []Opportunity  `json:"opportunities,omitempty"` // video only
	Sentiment     SentimentLabel `json:"sentiment,omitempty"`     // source-declared hint, may be empty
}

// SentimentClassification is the classifier output for one item's text.
type SentimentClassification struct {
	Label         SentimentLabel `json:"label"`
	RawScore      float64        `json:"raw_score"`
	SmoothedScore float64        `json:"smoothed_score"`
}

// SentimentHistoryRecord is one entry in the bounded smoothing window.
type SentimentHistoryRecord struct {
	Title      string
	Timestamp  time.Time
	Label      SentimentLabel
	Score      float64
	SourceName string
}

// SourceResults is the per-cycle adapter fan-in. Any kind may be absent or
// empty; a failed adapter contributes nothing rather than an error.
type SourceResults map[SourceKind][]*RawItem
