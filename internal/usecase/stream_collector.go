package usecase

import (
	"context"

	"CryptoPulse/internal/domain/models"
	drepo "CryptoPulse/internal/domain/repository"
	mid "CryptoPulse/internal/middleware"
	"CryptoPulse/internal/service/sources"
)

// BufferSink forwards stream items into the per-cycle buffer.
type BufferSink struct {
	buf *sources.ItemBuffer
}

func NewBufferSink(buf *sources.ItemBuffer) *BufferSink { return &BufferSink{buf: buf} }

func (s *BufferSink) Process(_ context.Context, it *models.RawItem) error {
	s.buf.Add(it)
	return nil
}

// StreamCollector drains the on-chain commentary stream into the cycle
// buffer, reconnecting on read errors.
type StreamCollector struct {
	stream  drepo.CommentaryStream
	sink    *BufferSink
	metrics drepo.Metrics
	pipe    *mid.StreamPipeline
}

// NewStreamCollector creates a new StreamCollector instance.
func NewStreamCollector(stream drepo.CommentaryStream, sink *BufferSink, metrics drepo.Metrics, pipe *mid.StreamPipeline) *StreamCollector {
	return &StreamCollector{stream: stream, sink: sink, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the commentary stream is connected.
func (c *StreamCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *StreamCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	itemCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, itemCh, errCh)
	return nil
}

func (c *StreamCollector) consume(ctx context.Context, itemCh <-chan *models.RawItem, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errCh:
			if err != nil {
				c.metrics.RecordAdapterFailure("onchain_stream")
				_ = c.stream.Reconnect(ctx)
			}
		case it := <-itemCh:
			if it == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, it)
			} else {
				_ = c.sink.Process(ctx, it)
			}
		}
	}
}

// Shutdown stops pipeline and closes stream.
func (c *StreamCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
