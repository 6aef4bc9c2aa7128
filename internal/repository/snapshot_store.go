package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"CryptoPulse/internal/domain/models"
	"CryptoPulse/internal/domain/repository"
)

// ClickHouseSnapshotStore persists per-cycle aggregate summaries. Raw items
// are never stored; only the folded outputs, enough for offline trend
// analysis over past cycles.
type ClickHouseSnapshotStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseSnapshotStore creates ClickHouse snapshot storage.
func NewClickHouseSnapshotStore(db *sql.DB, table string) repository.SnapshotStore {
	return &ClickHouseSnapshotStore{db: db, table: table}
}

func (s *ClickHouseSnapshotStore) Init(ctx context.Context) error {
	return nil // Schema init in pkg
}

func (s *ClickHouseSnapshotStore) Store(ctx context.Context, res *models.PulseResult) error {
	if res == nil {
		return nil
	}

	topNarrative := ""
	if len(res.Narratives) > 0 {
		topNarrative = res.Narratives[0].Key
	}
	insights, err := json.Marshal(res.Insights)
	if err != nil {
		return fmt.Errorf("marshal insights: %w", err)
	}

	q := fmt.Sprintf("INSERT INTO %s (ts, market_sentiment, narrative_count, token_count, insight_count, curated_count, top_narrative, insights) VALUES (?, ?, ?, ?, ?, ?, ?, ?)", s.table)
	_, err = s.db.ExecContext(ctx, q,
		res.GeneratedAt,
		string(res.MarketSentiment),
		uint32(len(res.Narratives)),
		uint32(len(res.Tokens)),
		uint32(len(res.Insights)),
		uint32(len(res.CuratedNews)),
		topNarrative,
		string(insights),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

func (s *ClickHouseSnapshotStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseSnapshotStore) Close() error {
	return nil // Managed by pkg
}
