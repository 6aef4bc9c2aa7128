package usecase

import (
	"CryptoPulse/internal/domain/models"
)

// Fixed per-source vote weights for the whole-market fold. Social chatter is
// noisy but leading, so it votes triple; news items vote once each; video
// analyses vote double; on-chain commentary votes once.
const (
	socialVoteWeight  = 3
	newsVoteWeight    = 1
	videoVoteWeight   = 2
	onchainVoteWeight = 1
)

// marketFoldOrder is the explicit tie-break precedence for the market vote.
var marketFoldOrder = []models.MarketSentiment{
	models.MarketBullish, models.MarketBearish, models.MarketNeutral, models.MarketMixed,
}

// FoldMarketSentiment computes the overall market read independently from the
// entity fold: per-item labels collapse to bullish/bearish buckets first,
// then a weighted majority vote decides. Empty input reads neutral.
func FoldMarketSentiment(results models.SourceResults) models.MarketSentiment {
	tally := make(map[models.MarketSentiment]int, 4)
	total := 0

	add := func(items []*models.RawItem, weight int) {
		for _, it := range items {
			if it == nil || it.Sentiment == "" {
				continue
			}
			tally[foldLabel(it.Sentiment)] += weight
			total += weight
		}
	}
	add(results[models.SourceSocial], socialVoteWeight)
	add(results[models.SourceNews], newsVoteWeight)
	add(results[models.SourceVideo], videoVoteWeight)
	add(results[models.SourceOnchain], onchainVoteWeight)

	if total == 0 {
		return models.MarketNeutral
	}

	best := models.MarketNeutral
	bestCount := -1
	for _, m := range marketFoldOrder {
		if tally[m] > bestCount {
			best = m
			bestCount = tally[m]
		}
	}
	return best
}

func foldLabel(label models.SentimentLabel) models.MarketSentiment {
	switch {
	case models.IsPositiveLabel(label):
		return models.MarketBullish
	case models.IsNegativeLabel(label):
		return models.MarketBearish
	case label == models.SentimentMixed:
		return models.MarketMixed
	default:
		return models.MarketNeutral
	}
}
