package analysis

import (
	"testing"
	"time"
)

func TestCache_freshPayloadServed(t *testing.T) {
	c := NewCache(5 * time.Minute)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	start := now.AddDate(0, -6, 0)

	payload := &AnalysisPayload{}
	c.Put(payload, start, now)

	got, ok := c.Get(start, now.Add(4*time.Minute))
	if !ok {
		t.Fatal("Expected cache hit inside the freshness window")
	}
	if got != payload {
		t.Error("Expected the stored payload back")
	}
}

func TestCache_stalePayloadDropped(t *testing.T) {
	c := NewCache(5 * time.Minute)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	start := now.AddDate(0, -6, 0)

	c.Put(&AnalysisPayload{}, start, now)

	if _, ok := c.Get(start, now.Add(5*time.Minute)); ok {
		t.Error("Expected cache miss at exactly the freshness boundary")
	}
}

func TestCache_differentWindowMisses(t *testing.T) {
	c := NewCache(5 * time.Minute)
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	c.Put(&AnalysisPayload{}, now.AddDate(0, -6, 0), now)

	if _, ok := c.Get(now.AddDate(0, 0, -28), now.Add(time.Minute)); ok {
		t.Error("Expected cache miss for a different window start")
	}
}

func TestCache_emptyMisses(t *testing.T) {
	c := NewCache(0)
	if _, ok := c.Get(time.Time{}, time.Now()); ok {
		t.Error("Expected miss on empty cache")
	}
}
