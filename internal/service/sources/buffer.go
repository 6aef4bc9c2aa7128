package sources

import (
	"sync"

	"CryptoPulse/internal/domain/models"
)

// ItemBuffer accumulates push-fed raw items between aggregation cycles.
// Bounded: once full, the oldest item is dropped for each new one.
type ItemBuffer struct {
	mu    sync.Mutex
	max   int
	items []*models.RawItem
}

func NewItemBuffer(max int) *ItemBuffer {
	if max <= 0 {
		max = 1024
	}
	return &ItemBuffer{max: max}
}

// Add appends an item, evicting the oldest when at capacity.
func (b *ItemBuffer) Add(it *models.RawItem) {
	if it == nil {
		return
	}
	b.mu.Lock()
	if len(b.items) >= b.max {
		b.items = append(b.items[:0], b.items[1:]...)
	}
	b.items = append(b.items, it)
	b.mu.Unlock()
}

// Drain returns everything buffered since the last call and clears the buffer.
func (b *ItemBuffer) Drain() []*models.RawItem {
	b.mu.Lock()
	out := b.items
	b.items = nil
	b.mu.Unlock()
	return out
}

// Len returns the number of buffered items.
func (b *ItemBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}
