package normalize

import (
	"strings"

	"CryptoPulse/internal/domain/models"
	domsvc "CryptoPulse/internal/domain/service"
)

// Occurrence thresholds for count-derived narrative strength.
const (
	establishedCount = 5
	growingCount     = 3
)

// Normalizer folds raw mentions from all sources into one canonical entity
// per key per run. Entities are mutable only inside Normalize; the returned
// slice is read-only for synthesis.
type Normalizer struct{}

func New() *Normalizer { return &Normalizer{} }

func (n *Normalizer) Normalize(items []*models.RawItem) []*models.NormalizedEntity {
	byKey := make(map[string]*models.NormalizedEntity)
	var order []string // first-seen key order keeps output deterministic

	for _, it := range items {
		if it == nil {
			continue
		}
		for _, m := range it.Mentions {
			if strings.TrimSpace(m.Name) == "" {
				continue
			}
			key := CanonicalKey(m.Kind, m.Name)
			ent, ok := byKey[key]
			if !ok {
				ent = &models.NormalizedEntity{
					Kind:        m.Kind,
					Key:         key,
					DisplayName: strings.TrimSpace(m.Name),
					Sources:     make(map[models.SourceKind]bool),
					PerSource:   make(map[models.SourceKind]models.SentimentLabel),
					Strength:    models.StrengthMedium,
				}
				byKey[key] = ent
				order = append(order, key)
			}

			count := m.Count
			if count <= 0 {
				count = 1
			}
			ent.Occurrences += count
			ent.Sources[it.SourceKind] = true

			// Last write wins per source kind, not an average.
			if label := mentionLabel(m, it); label != "" {
				ent.PerSource[it.SourceKind] = label
			}

			if ent.Kind == models.KindNarrative {
				applyTrend(ent, m.Trend)
			}
		}
	}

	out := make([]*models.NormalizedEntity, 0, len(order))
	for _, key := range order {
		ent := byKey[key]
		if ent.Kind == models.KindNarrative && !ent.TrendSeen {
			ent.Strength = countStrength(ent.Occurrences)
		}
		ent.Overall = majorityVote(ent.PerSource)
		out = append(out, ent)
	}
	return out
}

// CanonicalKey maps a raw mention name onto the canonical entity space:
// lower-cased name for narratives, upper-cased ticker for tokens.
func CanonicalKey(kind models.EntityKind, name string) string {
	name = strings.TrimSpace(name)
	if kind == models.KindToken {
		return strings.ToUpper(name)
	}
	return strings.ToLower(name)
}

func mentionLabel(m models.Mention, it *models.RawItem) models.SentimentLabel {
	if m.Sentiment != "" {
		return m.Sentiment
	}
	return it.Sentiment
}

// applyTrend sets strength from explicit trend metadata. Trend wins over the
// count buckets; count buckets only apply when no trend hint was ever seen.
func applyTrend(ent *models.NormalizedEntity, trend string) {
	switch strings.ToLower(trend) {
	case "up":
		ent.Strength = models.StrengthGrowing
		ent.TrendSeen = true
	case "down":
		ent.Strength = models.StrengthFading
		ent.TrendSeen = true
	}
}

func countStrength(occurrences int) models.Strength {
	switch {
	case occurrences >= establishedCount:
		return models.StrengthEstablished
	case occurrences >= growingCount:
		return models.StrengthGrowing
	default:
		return models.StrengthEmerging
	}
}

// majorityVote picks the most frequent per-source label. Ties break by the
// fixed precedence in models.SentimentTallyOrder, never map iteration order.
func majorityVote(perSource map[models.SourceKind]models.SentimentLabel) models.SentimentLabel {
	tally := make(map[models.SentimentLabel]int, len(perSource))
	for _, k := range models.SourceKinds {
		if label, ok := perSource[k]; ok && label != "" {
			tally[label]++
		}
	}
	if len(tally) == 0 {
		return models.SentimentNeutral
	}

	best := models.SentimentLabel("")
	bestCount := -1
	for _, label := range models.SentimentTallyOrder {
		if c := tally[label]; c > bestCount {
			best = label
			bestCount = c
		}
	}
	return best
}

var _ domsvc.Normalizer = (*Normalizer)(nil)
