package repository

import (
	"context"

	"CryptoPulse/internal/domain/models"
)

// SourceAdapter fetches one source's raw items for a cycle. A failing fetch
// must come back as an error here; the aggregator converts it to an empty
// contribution rather than surfacing it.
type SourceAdapter interface {
	Kind() models.SourceKind
	Fetch(ctx context.Context) ([]*models.RawItem, error)
}

// CommentaryStream is a long-lived push feed of raw items (the on-chain
// commentary WebSocket). The stream collector drains it into a buffer the
// adapter reads per cycle.
type CommentaryStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.RawItem, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Publisher pushes per-cycle insight digests downstream.
type Publisher interface {
	PublishDigest(ctx context.Context, res *models.PulseResult) error
	Close() error
}

// SnapshotStore persists aggregate cycle summaries for offline analytics.
type SnapshotStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, res *models.PulseResult) error
	Health(ctx context.Context) error // ping
	Close() error
}

// Metrics records pipeline observability counters.
type Metrics interface {
	RecordItemsFetched(source string, n int)
	RecordAdapterFailure(source string)
	RecordCycleDuration(seconds float64)
	RecordInsightsEmitted(n int)
	RecordCacheLookup(hit bool)
}
