package sources

import (
	"context"

	"CryptoPulse/internal/domain/models"
	drepo "CryptoPulse/internal/domain/repository"
)

// SocialAdapter serves posts that arrived on the social firehose topic since
// the previous cycle. The Kafka consumer handler fills the buffer; Fetch just
// drains it, so it can never fail or block the fan-out.
type SocialAdapter struct {
	buf *ItemBuffer
}

func NewSocialAdapter(buf *ItemBuffer) *SocialAdapter {
	return &SocialAdapter{buf: buf}
}

func (a *SocialAdapter) Kind() models.SourceKind { return models.SourceSocial }

func (a *SocialAdapter) Fetch(_ context.Context) ([]*models.RawItem, error) {
	return a.buf.Drain(), nil
}

var _ drepo.SourceAdapter = (*SocialAdapter)(nil)
