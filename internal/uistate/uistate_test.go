package uistate

import (
	"context"
	"errors"
	"testing"
)

func TestGetUnpopulatedKey(t *testing.T) {
	c := NewCache()
	if _, ok := c.Get("teams"); ok {
		t.Error("Get on empty cache reported ok")
	}
}

func TestSetThenGet(t *testing.T) {
	c := NewCache()
	c.Set("teams", []string{"Personal", "Studio"})

	got, ok := c.Get("teams")
	if !ok {
		t.Fatal("Get reported missing after Set")
	}
	if len(got) != 2 || got[0] != "Personal" || got[1] != "Studio" {
		t.Errorf("Get = %v, want [Personal Studio]", got)
	}

	// Mutating the returned slice must not affect the cache.
	got[0] = "changed"
	again, _ := c.Get("teams")
	if again[0] != "Personal" {
		t.Errorf("cache entry mutated through Get result: %v", again)
	}
}

func TestRefreshPopulatesFromLoader(t *testing.T) {
	c := NewCache()
	var calls int
	c.Register("workflows", func(ctx context.Context) ([]string, error) {
		calls++
		return []string{"Retexture", "Style Transfer"}, nil
	})

	values, err := c.Refresh(context.Background(), "workflows")
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if len(values) != 2 {
		t.Errorf("Refresh returned %d values, want 2", len(values))
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}

	got, ok := c.Get("workflows")
	if !ok || len(got) != 2 {
		t.Errorf("Get after Refresh = %v, %v", got, ok)
	}
}

func TestRefreshFailureKeepsStaleEntry(t *testing.T) {
	c := NewCache()
	c.Set("teams", []string{"Personal"})
	c.Register("teams", func(ctx context.Context) ([]string, error) {
		return nil, errors.New("service unavailable")
	})

	if _, err := c.Refresh(context.Background(), "teams"); err == nil {
		t.Fatal("Refresh did not propagate loader error")
	}

	got, ok := c.Get("teams")
	if !ok || len(got) != 1 || got[0] != "Personal" {
		t.Errorf("stale entry lost after failed refresh: %v, %v", got, ok)
	}
}

func TestRefreshUnregisteredKey(t *testing.T) {
	c := NewCache()
	_, err := c.Refresh(context.Background(), "styles")
	var noLoader *NoLoaderError
	if !errors.As(err, &noLoader) {
		t.Fatalf("Refresh error = %v, want *NoLoaderError", err)
	}
	if noLoader.Key != "styles" {
		t.Errorf("Key = %q, want %q", noLoader.Key, "styles")
	}
}

func TestRefreshAll(t *testing.T) {
	c := NewCache()
	c.Register("teams", func(ctx context.Context) ([]string, error) {
		return []string{"Personal"}, nil
	})
	c.Register("workflows", func(ctx context.Context) ([]string, error) {
		return nil, errors.New("boom")
	})

	err := c.RefreshAll(context.Background())
	if err == nil || err.Error() != "boom" {
		t.Errorf("RefreshAll error = %v, want boom", err)
	}
	if got, ok := c.Get("teams"); !ok || len(got) != 1 {
		t.Errorf("teams not populated by RefreshAll: %v, %v", got, ok)
	}
}
