package usecase

import (
	"context"
	"time"

	"CryptoPulse/internal/domain/models"
	drepo "CryptoPulse/internal/domain/repository"
	xlogger "CryptoPulse/pkg/logger"
)

// DigestSink fans a freshly computed pulse out to the digest topic and the
// snapshot store. Both legs are best effort: a failed publish or insert is
// logged, never surfaced, because downstream consumers are optional.
type DigestSink struct {
	pub    drepo.Publisher
	store  drepo.SnapshotStore
	logger *xlogger.Logger
}

func NewDigestSink(pub drepo.Publisher, store drepo.SnapshotStore, logger *xlogger.Logger) *DigestSink {
	return &DigestSink{pub: pub, store: store, logger: logger}
}

// Emit pushes the result to both legs.
func (s *DigestSink) Emit(ctx context.Context, res *models.PulseResult) {
	if res == nil {
		return
	}
	if s.pub != nil {
		start := time.Now()
		if err := s.pub.PublishDigest(ctx, res); err != nil {
			s.logger.Warn("digest publish failed", xlogger.Error(err))
		} else {
			s.logger.Debug("digest published", xlogger.Duration("took", time.Since(start)))
		}
	}
	if s.store != nil {
		if err := s.store.Store(ctx, res); err != nil {
			s.logger.Warn("snapshot store failed", xlogger.Error(err))
		}
	}
}

// Close closes underlying resources if available.
func (s *DigestSink) Close() {
	if s.pub != nil {
		_ = s.pub.Close()
	}
	if s.store != nil {
		_ = s.store.Close()
	}
}
