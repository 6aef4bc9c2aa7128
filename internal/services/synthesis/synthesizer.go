package synthesis

import (
	"fmt"
	"sort"
	"strings"

	"CryptoPulse/internal/domain/models"
	domsvc "CryptoPulse/internal/domain/service"
)

// MinSources is the hard cross-source corroboration threshold: entities seen
// in fewer distinct source kinds are discarded, regardless of occurrences.
const MinSources = 2

const maxRiskRefs = 2

// Synthesizer applies the fixed rules in order, each producing at most one
// insight. Rules are independent and may reference the same entity twice;
// output keeps rule order and is never re-ranked.
type Synthesizer struct{}

func New() *Synthesizer { return &Synthesizer{} }

func (s *Synthesizer) Synthesize(entities []*models.NormalizedEntity, videoOpps []models.Opportunity) []models.Insight {
	survivors := make([]*models.NormalizedEntity, 0, len(entities))
	for _, e := range entities {
		if e != nil && e.SourceCount() >= MinSources {
			survivors = append(survivors, e)
		}
	}
	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].Occurrences > survivors[j].Occurrences
	})

	var narratives, tokens []*models.NormalizedEntity
	for _, e := range survivors {
		switch e.Kind {
		case models.KindNarrative:
			narratives = append(narratives, e)
		case models.KindToken:
			tokens = append(tokens, e)
		}
	}

	insights := make([]models.Insight, 0, 5)
	if in, ok := dominantNarrative(narratives); ok {
		insights = append(insights, in)
	}
	if in, ok := topBullishToken(tokens); ok {
		insights = append(insights, in)
	}
	if in, ok := emergingNarrative(narratives); ok {
		insights = append(insights, in)
	}
	if in, ok := bearishRisk(narratives, tokens); ok {
		insights = append(insights, in)
	}
	if in, ok := videoOpportunity(videoOpps); ok {
		insights = append(insights, in)
	}
	return insights
}

// Rule 1: the narrative with the most corroborated occurrences.
func dominantNarrative(narratives []*models.NormalizedEntity) (models.Insight, bool) {
	if len(narratives) == 0 {
		return models.Insight{}, false
	}
	top := narratives[0]
	return models.Insight{
		Title: fmt.Sprintf("%s is the dominant narrative", top.DisplayName),
		Description: fmt.Sprintf("%s was mentioned %d times across %d independent source types with %s overall sentiment.",
			top.DisplayName, top.Occurrences, top.SourceCount(), top.Overall),
		RelatedNarratives: []string{top.DisplayName},
		Sentiment:         top.Overall,
		Timeframe:         "near-term",
		Conviction:        convictionFor(top.Occurrences),
	}, true
}

// Rule 2: the first token whose overall sentiment is upbeat.
func topBullishToken(tokens []*models.NormalizedEntity) (models.Insight, bool) {
	for _, t := range tokens {
		if !models.IsPositiveLabel(t.Overall) {
			continue
		}
		return models.Insight{
			Title: fmt.Sprintf("%s leads bullish token chatter", t.DisplayName),
			Description: fmt.Sprintf("%s drew %d mentions across %d source types, all pointing %s.",
				t.DisplayName, t.Occurrences, t.SourceCount(), t.Overall),
			RelatedTokens: []string{t.DisplayName},
			Sentiment:     t.Overall,
			Timeframe:     "near-term",
			Conviction:    convictionFor(t.Occurrences),
		}, true
	}
	return models.Insight{}, false
}

// Rule 3: the first emerging or growing narrative. May duplicate rule 1's
// pick.
func emergingNarrative(narratives []*models.NormalizedEntity) (models.Insight, bool) {
	for _, n := range narratives {
		if n.Strength != models.StrengthEmerging && n.Strength != models.StrengthGrowing {
			continue
		}
		return models.Insight{
			Title: fmt.Sprintf("%s is an emerging narrative to watch", n.DisplayName),
			Description: fmt.Sprintf("%s shows %s momentum with %d mentions; early corroboration across %d source types.",
				n.DisplayName, n.Strength, n.Occurrences, n.SourceCount()),
			RelatedNarratives: []string{n.DisplayName},
			Sentiment:         n.Overall,
			Timeframe:         "medium-term",
			Conviction:        "medium",
		}, true
	}
	return models.Insight{}, false
}

// Rule 4: one combined warning when any corroborated narrative or token
// reads bearish, aggregating up to two of each.
func bearishRisk(narratives, tokens []*models.NormalizedEntity) (models.Insight, bool) {
	var riskNarratives, riskTokens []string
	for _, n := range narratives {
		if models.IsNegativeLabel(n.Overall) && len(riskNarratives) < maxRiskRefs {
			riskNarratives = append(riskNarratives, n.DisplayName)
		}
	}
	for _, t := range tokens {
		if models.IsNegativeLabel(t.Overall) && len(riskTokens) < maxRiskRefs {
			riskTokens = append(riskTokens, t.DisplayName)
		}
	}
	if len(riskNarratives) == 0 && len(riskTokens) == 0 {
		return models.Insight{}, false
	}

	refs := append(append([]string{}, riskNarratives...), riskTokens...)
	return models.Insight{
		Title: "Bearish risk flagged across sources",
		Description: fmt.Sprintf("Multiple sources lean negative on %s; treat related positions with caution.",
			strings.Join(refs, ", ")),
		RelatedNarratives: riskNarratives,
		RelatedTokens:     riskTokens,
		Sentiment:         models.SentimentBearish,
		Timeframe:         "near-term",
		Conviction:        "medium",
	}, true
}

// Rule 5: only runs when a video source contributed opportunities. Groups by
// declared type, picks the most frequent, and reuses the first item of that
// type verbatim.
func videoOpportunity(opps []models.Opportunity) (models.Insight, bool) {
	if len(opps) == 0 {
		return models.Insight{}, false
	}

	counts := make(map[string]int, len(opps))
	var typeOrder []string
	firstOfType := make(map[string]models.Opportunity, len(opps))
	for _, o := range opps {
		if counts[o.Type] == 0 {
			typeOrder = append(typeOrder, o.Type)
			firstOfType[o.Type] = o
		}
		counts[o.Type]++
	}

	bestType := ""
	bestCount := 0
	for _, t := range typeOrder { // first-seen order, strictly greater wins
		if counts[t] > bestCount {
			bestType = t
			bestCount = counts[t]
		}
	}

	pick := firstOfType[bestType]
	return models.Insight{
		Title:       fmt.Sprintf("Video analysts converge on a %s opportunity", bestType),
		Description: pick.Description,
		Sentiment:   models.SentimentPositive,
		Timeframe:   pick.Timeframe,
		Conviction:  pick.Conviction,
	}, true
}

func convictionFor(occurrences int) string {
	if occurrences >= 5 {
		return "high"
	}
	return "medium"
}

var _ domsvc.Synthesizer = (*Synthesizer)(nil)
