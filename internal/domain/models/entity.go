package models

import "time"

// Strength is a qualitative tag for narrative momentum.
type Strength string

const (
	StrengthEmerging    Strength = "emerging"
	StrengthGrowing     Strength = "growing"
	StrengthMedium      Strength = "medium"
	StrengthEstablished Strength = "established"
	StrengthFading      Strength = "fading"
)

// NormalizedEntity is one canonical narrative or token folded from raw
// mentions. At most one entity exists per key per aggregation run. Mutated
// only during the normalization pass; read-only once synthesis begins.
type NormalizedEntity struct {
	Kind        EntityKind                    `json:"kind"`
	Key         string                        `json:"key"` // lower-cased name (narrative) or upper-cased ticker (token)
	DisplayName string                        `json:"display_name"`
	Occurrences int                           `json:"occurrences"`
	Sources     map[SourceKind]bool           `json:"sources"`
	PerSource   map[SourceKind]SentimentLabel `json:"per_source_sentiment"`
	Overall     SentimentLabel                `json:"overall_sentiment"`
	Strength    Strength                      `json:"strength,omitempty"` // narratives only

	// TrendSeen records that explicit trend metadata set Strength, so
	// count-derived buckets must not override it.
	TrendSeen bool `json:"-"`
}

// SourceCount returns how many distinct source kinds observed the entity.
func (e *NormalizedEntity) SourceCount() int {
	n := 0
	for _, k := range SourceKinds {
		if e.Sources[k] {
			n++
		}
	}
	return n
}

// Insight is one synthesized, human-readable finding. Produced only by the
// synthesizer, one per satisfied rule, kept in rule order.
type Insight struct {
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	RelatedNarratives []string       `json:"related_narratives,omitempty"`
	RelatedTokens     []string       `json:"related_tokens,omitempty"`
	Sentiment         SentimentLabel `json:"sentiment"`
	Timeframe         string         `json:"timeframe,omitempty"`
	Conviction        string         `json:"conviction,omitempty"`
}

// MarketSentiment is the whole-market fold across all classified items.
type MarketSentiment string

const (
	MarketBullish MarketSentiment = "bullish"
	MarketBearish MarketSentiment = "bearish"
	MarketNeutral MarketSentiment = "neutral"
	MarketMixed   MarketSentiment = "mixed"
)

// PulseResult is the full output of one aggregation cycle.
type PulseResult struct {
	Narratives      []*NormalizedEntity `json:"narratives"`
	Tokens          []*NormalizedEntity `json:"tokens"`
	Insights        []Insight           `json:"insights"`
	CuratedNews     []*RawItem          `json:"curated_news"`
	MarketSentiment MarketSentiment     `json:"market_sentiment"`
	GeneratedAt     time.Time           `json:"generated_at"`
}
