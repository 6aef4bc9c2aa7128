package synthesis

import (
	"strings"
	"testing"

	"CryptoPulse/internal/domain/models"
)

func entity(kind models.EntityKind, name string, occ int, overall models.SentimentLabel, strength models.Strength, srcs ...models.SourceKind) *models.NormalizedEntity {
	e := &models.NormalizedEntity{
		Kind:        kind,
		Key:         name,
		DisplayName: name,
		Occurrences: occ,
		Overall:     overall,
		Strength:    strength,
		Sources:     make(map[models.SourceKind]bool),
	}
	for _, s := range srcs {
		e.Sources[s] = true
	}
	return e
}

func TestSynthesizeFiltersSingleSourceEntities(t *testing.T) {
	s := New()
	ents := []*models.NormalizedEntity{
		entity(models.KindNarrative, "solo", 50, models.SentimentBullish, models.StrengthEstablished, models.SourceSocial),
	}
	if got := s.Synthesize(ents, nil); len(got) != 0 {
		t.Fatalf("single-source entity must produce no insights, got %d", len(got))
	}
}

func TestSynthesizeAllRulesInOrder(t *testing.T) {
	s := New()
	ents := []*models.NormalizedEntity{
		entity(models.KindNarrative, "Layer2", 6, models.SentimentBullish, models.StrengthEstablished, models.SourceSocial, models.SourceNews),
		entity(models.KindNarrative, "restaking", 2, models.SentimentNeutral, models.StrengthEmerging, models.SourceSocial, models.SourceVideo),
		entity(models.KindNarrative, "memecoins", 3, models.SentimentBearish, models.StrengthFading, models.SourceSocial, models.SourceNews),
		entity(models.KindToken, "SOL", 4, models.SentimentBullish, "", models.SourceSocial, models.SourceNews),
		entity(models.KindToken, "DOGE", 2, models.SentimentNegative, "", models.SourceSocial, models.SourceOnchain),
	}
	opps := []models.Opportunity{
		{Type: "breakout", Description: "watch the L2 basket", Timeframe: "1w", Conviction: "high"},
	}

	got := s.Synthesize(ents, opps)
	if len(got) != 5 {
		t.Fatalf("expected 5 insights, got %d", len(got))
	}

	if !strings.Contains(got[0].Title, "Layer2") || !strings.Contains(got[0].Title, "dominant") {
		t.Fatalf("rule 1 must flag the dominant narrative, got %q", got[0].Title)
	}
	if got[0].Conviction != "high" {
		t.Fatalf("6 occurrences must read high conviction, got %q", got[0].Conviction)
	}
	if !strings.Contains(got[1].Title, "SOL") {
		t.Fatalf("rule 2 must flag the top bullish token, got %q", got[1].Title)
	}
	if !strings.Contains(got[2].Title, "restaking") {
		t.Fatalf("rule 3 must flag the emerging narrative, got %q", got[2].Title)
	}
	if got[3].Sentiment != models.SentimentBearish {
		t.Fatalf("rule 4 must read bearish, got %s", got[3].Sentiment)
	}
	if !strings.Contains(got[3].Description, "memecoins") || !strings.Contains(got[3].Description, "DOGE") {
		t.Fatalf("rule 4 must reference the risky entities, got %q", got[3].Description)
	}
	if got[4].Description != "watch the L2 basket" {
		t.Fatalf("rule 5 must reuse the opportunity verbatim, got %q", got[4].Description)
	}
}

func TestSynthesizeOrdersByOccurrences(t *testing.T) {
	s := New()
	ents := []*models.NormalizedEntity{
		entity(models.KindNarrative, "small", 2, models.SentimentNeutral, models.StrengthMedium, models.SourceSocial, models.SourceNews),
		entity(models.KindNarrative, "big", 9, models.SentimentNeutral, models.StrengthMedium, models.SourceSocial, models.SourceNews),
	}
	got := s.Synthesize(ents, nil)
	if len(got) == 0 || !strings.Contains(got[0].Title, "big") {
		t.Fatalf("dominant narrative must be the most mentioned, got %+v", got)
	}
}

func TestSynthesizeSkipsNonBullishTokens(t *testing.T) {
	s := New()
	ents := []*models.NormalizedEntity{
		entity(models.KindToken, "BTC", 5, models.SentimentNeutral, "", models.SourceSocial, models.SourceNews),
	}
	for _, in := range s.Synthesize(ents, nil) {
		if strings.Contains(in.Title, "bullish token") {
			t.Fatalf("neutral token must not trigger the bullish rule")
		}
	}
}

func TestVideoOpportunityGrouping(t *testing.T) {
	s := New()
	opps := []models.Opportunity{
		{Type: "short", Description: "first short", Timeframe: "2d", Conviction: "low"},
		{Type: "long", Description: "first long", Timeframe: "1w", Conviction: "high"},
		{Type: "long", Description: "second long", Timeframe: "2w", Conviction: "medium"},
	}
	got := s.Synthesize(nil, opps)
	if len(got) != 1 {
		t.Fatalf("expected only the opportunity insight, got %d", len(got))
	}
	in := got[0]
	if !strings.Contains(in.Title, "long") {
		t.Fatalf("most frequent type must win, got %q", in.Title)
	}
	if in.Description != "first long" || in.Timeframe != "1w" || in.Conviction != "high" {
		t.Fatalf("first item of the winning type must be reused verbatim, got %+v", in)
	}
}

func TestVideoOpportunityTieKeepsFirstSeen(t *testing.T) {
	s := New()
	opps := []models.Opportunity{
		{Type: "short", Description: "s"},
		{Type: "long", Description: "l"},
	}
	got := s.Synthesize(nil, opps)
	if len(got) != 1 || !strings.Contains(got[0].Title, "short") {
		t.Fatalf("equal counts must keep the first-seen type, got %+v", got)
	}
}

func TestBearishRiskCapsReferences(t *testing.T) {
	s := New()
	ents := []*models.NormalizedEntity{
		entity(models.KindNarrative, "n1", 5, models.SentimentBearish, models.StrengthMedium, models.SourceSocial, models.SourceNews),
		entity(models.KindNarrative, "n2", 4, models.SentimentBearish, models.StrengthMedium, models.SourceSocial, models.SourceNews),
		entity(models.KindNarrative, "n3", 3, models.SentimentBearish, models.StrengthMedium, models.SourceSocial, models.SourceNews),
	}
	var risk models.Insight
	found := false
	for _, in := range s.Synthesize(ents, nil) {
		if in.Title == "Bearish risk flagged across sources" {
			risk = in
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a bearish risk insight")
	}
	if len(risk.RelatedNarratives) != 2 {
		t.Fatalf("risk references must cap at 2, got %d", len(risk.RelatedNarratives))
	}
}
