package sources

import (
	"fmt"
	"testing"

	"CryptoPulse/internal/domain/models"
)

func TestItemBufferDrainClears(t *testing.T) {
	buf := NewItemBuffer(10)
	buf.Add(&models.RawItem{Title: "a"})
	buf.Add(&models.RawItem{Title: "b"})

	got := buf.Drain()
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if buf.Len() != 0 {
		t.Fatalf("drain must clear the buffer, len=%d", buf.Len())
	}
	if len(buf.Drain()) != 0 {
		t.Fatalf("second drain must be empty")
	}
}

func TestItemBufferEvictsOldest(t *testing.T) {
	buf := NewItemBuffer(3)
	for i := 0; i < 5; i++ {
		buf.Add(&models.RawItem{Title: fmt.Sprintf("item %d", i)})
	}
	got := buf.Drain()
	if len(got) != 3 {
		t.Fatalf("expected capacity 3, got %d", len(got))
	}
	if got[0].Title != "item 2" || got[2].Title != "item 4" {
		t.Fatalf("oldest items must be evicted first, got %q..%q", got[0].Title, got[2].Title)
	}
}

func TestItemBufferIgnoresNil(t *testing.T) {
	buf := NewItemBuffer(10)
	buf.Add(nil)
	buf.Add(&models.RawItem{Title: "real"})
	if buf.Len() != 1 {
		t.Fatalf("nil adds must be ignored, len=%d", buf.Len())
	}
}
