package cache

import (
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := New[string](10, time.Hour)
	c.Set("k", "value")

	got, ok := c.Get("k", time.Minute)
	if !ok || got != "value" {
		t.Errorf("Get = (%q, %v), want (value, true)", got, ok)
	}
}

func TestCache_MissingKey(t *testing.T) {
	c := New[string](10, time.Hour)
	if _, ok := c.Get("absent", time.Minute); ok {
		t.Error("missing key should miss")
	}
}

func TestCache_MaxAgeZeroDisablesLookup(t *testing.T) {
	c := New[string](10, time.Hour)
	c.Set("k", "value")
	if _, ok := c.Get("k", 0); ok {
		t.Error("maxAge 0 should bypass the cache")
	}
}

func TestCache_ExpiredEntryMisses(t *testing.T) {
	c := New[string](10, time.Hour)
	c.Set("k", "value")
	if _, ok := c.Get("k", time.Nanosecond); ok {
		t.Error("entry older than maxAge should miss")
	}
}

func TestCache_CapacityEviction(t *testing.T) {
	c := New[int](2, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	if n := c.Len(); n != 2 {
		t.Errorf("Len = %d, want 2 after eviction", n)
	}
}

func TestResponseKey_Distinguishes(t *testing.T) {
	base := ResponseKey("https://example.com", "markdown", 400, false)
	tests := []string{
		ResponseKey("https://example.com/other", "markdown", 400, false),
		ResponseKey("https://example.com", "summary", 400, false),
		ResponseKey("https://example.com", "markdown", 200, false),
		ResponseKey("https://example.com", "markdown", 400, true),
	}
	for i, k := range tests {
		if k == base {
			t.Errorf("variant %d produced same key as base", i)
		}
	}
	if base != ResponseKey("https://example.com", "markdown", 400, false) {
		t.Error("identical inputs should produce identical keys")
	}
}

func TestTextKey_ModelScoped(t *testing.T) {
	if TextKey("model-a", "hello") == TextKey("model-b", "hello") {
		t.Error("same text under different models should key differently")
	}
}

func TestCache_Generics(t *testing.T) {
	c := New[[]float32](10, time.Hour)
	c.Set("emb", []float32{0.1, 0.2})
	got, ok := c.GetDefault("emb")
	if !ok || len(got) != 2 {
		t.Errorf("vector round trip failed: (%v, %v)", got, ok)
	}
}
