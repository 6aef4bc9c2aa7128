package ratelimit

import "testing"

func TestLimiterConsumesCapacity(t *testing.T) {
	l := New()
	for i := 0; i < 2; i++ {
		if !l.Allow("k", 2, 0) {
			t.Fatalf("token %d should be available", i)
		}
	}
	if l.Allow("k", 2, 0) {
		t.Fatalf("bucket must be empty after capacity is spent")
	}
}

func TestLimiterIsolatesKeys(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatalf("first key should pass")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatalf("keys must not share buckets")
	}
	if l.Allow("a", 1, 0) {
		t.Fatalf("spent bucket must deny")
	}
}
