package catalog

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// countingClient records how many calls reach the remote boundary.
type countingClient struct {
	mu            sync.Mutex
	artistCalls   int
	albumCalls    int
	discoCalls    int
	artists       []Artist
	albums        []Album
	failuresLeft  int
	failWith      error
}

func (c *countingClient) SearchArtists(_ context.Context, _ string) ([]Artist, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.artistCalls++
	if c.failuresLeft > 0 {
		c.failuresLeft--
		return nil, c.failWith
	}
	return c.artists, nil
}

func (c *countingClient) SearchAlbums(_ context.Context, _ AlbumQuery) ([]Album, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.albumCalls++
	if c.failuresLeft > 0 {
		c.failuresLeft--
		return nil, c.failWith
	}
	return c.albums, nil
}

func (c *countingClient) ArtistDiscography(_ context.Context, _ string) ([]Album, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.discoCalls++
	if c.failuresLeft > 0 {
		c.failuresLeft--
		return nil, c.failWith
	}
	return c.albums, nil
}

func TestCacheLookupRecord(t *testing.T) {
	c := NewCache()
	if _, ok := c.Lookup("k"); ok {
		t.Fatal("empty cache must miss")
	}
	c.Record("k", 42)
	v, ok := c.Lookup("k")
	if !ok || v.(int) != 42 {
		t.Fatalf("Lookup = %v, %v; want 42, true", v, ok)
	}
	// First write wins.
	c.Record("k", 99)
	v, _ = c.Lookup("k")
	if v.(int) != 42 {
		t.Errorf("entry was mutated after insertion: %v", v)
	}
}

func TestKeyNormalization(t *testing.T) {
	if Key("op", "  Sheet   Music ") != Key("op", "sheet music") {
		t.Error("keys must normalize case and whitespace")
	}
	if Key("op", "a", "b") == Key("op", "a b") {
		t.Error("argument boundaries must not collide")
	}
	if Key("x", "a") == Key("y", "a") {
		t.Error("different operations must not collide")
	}
}

func TestCachedClientDeduplicates(t *testing.T) {
	inner := &countingClient{artists: []Artist{{ID: "a1", Name: "10cc"}}}
	cc := NewCachedClient(inner, NewCache(), NewThrottle(0), testLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := cc.SearchArtists(ctx, "10cc"); err != nil {
			t.Fatal(err)
		}
	}
	// Same query, different spelling of whitespace/case.
	if _, err := cc.SearchArtists(ctx, "  10CC "); err != nil {
		t.Fatal(err)
	}
	if inner.artistCalls != 1 {
		t.Errorf("remote artist calls = %d, want 1", inner.artistCalls)
	}
}

func TestCachedClientDiscographyOncePerArtist(t *testing.T) {
	inner := &countingClient{albums: []Album{{ID: "al1", Name: "Sheet Music"}}}
	cc := NewCachedClient(inner, NewCache(), NewThrottle(0), testLogger())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := cc.ArtistDiscography(ctx, "a1"); err != nil {
			t.Fatal(err)
		}
	}
	if inner.discoCalls != 1 {
		t.Errorf("discography fetched %d times, want 1", inner.discoCalls)
	}
}

func TestCachedClientDoesNotCacheFailures(t *testing.T) {
	inner := &countingClient{
		failuresLeft: 1,
		failWith:     &ErrUnavailable{Op: "search-artists", Cause: errors.New("timeout")},
		artists:      []Artist{{ID: "a1", Name: "10cc"}},
	}
	cc := NewCachedClient(inner, NewCache(), NewThrottle(0), testLogger())
	ctx := context.Background()

	if _, err := cc.SearchArtists(ctx, "10cc"); !IsTransient(err) {
		t.Fatalf("expected transient error, got %v", err)
	}
	artists, err := cc.SearchArtists(ctx, "10cc")
	if err != nil || len(artists) != 1 {
		t.Fatalf("second call should succeed, got %v, %v", artists, err)
	}
	if inner.artistCalls != 2 {
		t.Errorf("remote calls = %d, want 2 (failure must not be cached)", inner.artistCalls)
	}
}

func TestThrottleSpacesCalls(t *testing.T) {
	th := NewThrottle(20 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := th.Wait(ctx); err != nil {
			t.Fatal(err)
		}
	}
	// First call is immediate, two more waits of ~20ms each.
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("3 throttled calls took %v, expected at least 30ms", elapsed)
	}
}

func TestThrottleCanceled(t *testing.T) {
	th := NewThrottle(time.Hour)
	ctx := context.Background()
	if err := th.Wait(ctx); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(ctx)
	cancel()
	if err := th.Wait(ctx); err == nil {
		t.Error("Wait must fail once the context is canceled")
	}
}

func TestWarmArtistsBatches(t *testing.T) {
	inner := &countingClient{artists: []Artist{{ID: "a1", Name: "x"}}}
	cc := NewCachedClient(inner, NewCache(), NewThrottle(0), testLogger())
	ctx := context.Background()

	cc.WarmArtists(ctx, []string{"one", "two", "TWO", "three"}, 2)
	if inner.artistCalls != 3 {
		t.Errorf("remote calls = %d, want 3 (duplicate name deduplicated)", inner.artistCalls)
	}

	// Everything is now cached; warming again is free.
	cc.WarmArtists(ctx, []string{"one", "two", "three"}, 2)
	if inner.artistCalls != 3 {
		t.Errorf("remote calls after rewarm = %d, want 3", inner.artistCalls)
	}
}
