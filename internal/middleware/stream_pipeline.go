package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"CryptoPulse/internal/domain/models"
	domrepo "CryptoPulse/internal/domain/repository"
)

// Proc is the minimal sink interface the pipeline forwards items to.
type Proc interface {
	Process(ctx context.Context, it *models.RawItem) error
}

// StreamPipeline sits between the commentary WebSocket and the cycle buffer.
// It validates frames, throttles chatty sources, and buffers when the
// downstream sink is unavailable.
type StreamPipeline struct {
	proc     Proc
	metrics  domrepo.Metrics
	maxRPS   int
	bufSize  int
	bufCh    chan *models.RawItem
	stopCh   chan struct{}
	started  bool
	mu       sync.Mutex
	lastSeen map[string]time.Time // per-source last accepted time
}

type PipelineOption func(*StreamPipeline)

// WithMaxRPS sets the max items per second per source.
func WithMaxRPS(n int) PipelineOption {
	return func(p *StreamPipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the temporary buffer size when downstream is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *StreamPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewStreamPipeline creates a new pipeline.
func NewStreamPipeline(proc Proc, metrics domrepo.Metrics, opts ...PipelineOption) *StreamPipeline {
	p := &StreamPipeline{
		proc:     proc,
		metrics:  metrics,
		maxRPS:   20,   // default throttle per source
		bufSize:  1000, // default buffer
		bufCh:    make(chan *models.RawItem, 1000),
		stopCh:   make(chan struct{}),
		lastSeen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize != cap(p.bufCh) {
		p.bufCh = make(chan *models.RawItem, p.bufSize)
	}
	return p
}

// Start launches background flushing of buffered items.
func (p *StreamPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case it := <-p.bufCh:
				if it == nil {
					continue
				}
				if err := p.proc.Process(ctx, it); err != nil {
					// exponential backoff with cap
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordAdapterFailure("pipeline_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- it:
					default:
						p.metrics.RecordAdapterFailure("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *StreamPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates, throttles, and forwards an item downstream, buffering on errors.
func (p *StreamPipeline) Process(ctx context.Context, it *models.RawItem) error {
	start := time.Now()
	if err := validateItem(it); err != nil {
		p.metrics.RecordAdapterFailure("pipeline_validate")
		return err
	}
	if !p.allow(it.SourceName, start) {
		// throttled; drop silently
		p.metrics.RecordAdapterFailure("pipeline_throttle")
		return nil
	}

	if err := p.proc.Process(ctx, it); err != nil {
		// buffer non-blocking
		select {
		case p.bufCh <- it:
		default:
			p.metrics.RecordAdapterFailure("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	return nil
}

func validateItem(it *models.RawItem) error {
	if it == nil {
		return fmt.Errorf("item nil")
	}
	if it.Title == "" && it.Body == "" {
		return fmt.Errorf("empty item")
	}
	if it.SourceKind == "" {
		return fmt.Errorf("source kind empty")
	}
	return nil
}

func (p *StreamPipeline) allow(source string, now time.Time) bool {
	if p.maxRPS <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	last := p.lastSeen[source]
	minGap := time.Second / time.Duration(p.maxRPS)
	if !last.IsZero() && now.Sub(last) < minGap {
		return false
	}
	p.lastSeen[source] = now
	return true
}
