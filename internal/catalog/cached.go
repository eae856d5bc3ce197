package catalog

import (
	"context"
	"fmt"
	"log/slog"
)

// CachedClient wraps an inner Client with the query cache and the outbound
// throttle. Repeated lookups for the same normalized query or entity id hit
// the cache; every remote call is recorded before returning. In particular
// a discography is fetched at most once per artist per run.
type CachedClient struct {
	inner    Client
	cache    *Cache
	throttle *Throttle
	logger   *slog.Logger
}

// NewCachedClient creates a CachedClient around inner.
func NewCachedClient(inner Client, cache *Cache, throttle *Throttle, logger *slog.Logger) *CachedClient {
	return &CachedClient{
		inner:    inner,
		cache:    cache,
		throttle: throttle,
		logger:   logger.With(slog.String("component", "catalog-cache")),
	}
}

// SearchArtists implements Client.
func (c *CachedClient) SearchArtists(ctx context.Context, name string) ([]Artist, error) {
	key := Key("search-artists", name)
	if v, ok := c.cache.Lookup(key); ok {
		return v.([]Artist), nil
	}
	if err := c.throttle.Wait(ctx); err != nil {
		return nil, &ErrUnavailable{Op: "search-artists", Cause: err}
	}
	artists, err := c.inner.SearchArtists(ctx, name)
	if err != nil {
		return nil, err
	}
	c.cache.Record(key, artists)
	return artists, nil
}

// SearchAlbums implements Client.
func (c *CachedClient) SearchAlbums(ctx context.Context, q AlbumQuery) ([]Album, error) {
	key := Key("search-albums", q.Artist, q.Album, fmt.Sprint(q.Year), q.Text)
	if v, ok := c.cache.Lookup(key); ok {
		return v.([]Album), nil
	}
	if err := c.throttle.Wait(ctx); err != nil {
		return nil, &ErrUnavailable{Op: "search-albums", Cause: err}
	}
	albums, err := c.inner.SearchAlbums(ctx, q)
	if err != nil {
		return nil, err
	}
	c.cache.Record(key, albums)
	return albums, nil
}

// ArtistDiscography implements Client.
func (c *CachedClient) ArtistDiscography(ctx context.Context, artistID string) ([]Album, error) {
	key := Key("discography", artistID)
	if v, ok := c.cache.Lookup(key); ok {
		return v.([]Album), nil
	}
	if err := c.throttle.Wait(ctx); err != nil {
		return nil, &ErrUnavailable{Op: "discography", Cause: err}
	}
	albums, err := c.inner.ArtistDiscography(ctx, artistID)
	if err != nil {
		return nil, err
	}
	c.cache.Record(key, albums)
	return albums, nil
}

// WarmArtists primes the artist-search cache for a list of names. Misses
// are grouped into batches of batchSize; the catalog has no batched search
// endpoint, so each batch issues sequential throttled calls. Individual
// failures are logged and skipped; warming is best-effort.
func (c *CachedClient) WarmArtists(ctx context.Context, names []string, batchSize int) {
	if batchSize <= 0 {
		batchSize = 1
	}

	var misses []string
	seen := make(map[string]bool)
	for _, name := range names {
		key := Key("search-artists", name)
		if seen[key] {
			continue
		}
		seen[key] = true
		if _, ok := c.cache.Lookup(key); !ok {
			misses = append(misses, name)
		}
	}

	for start := 0; start < len(misses); start += batchSize {
		end := start + batchSize
		if end > len(misses) {
			end = len(misses)
		}
		for _, name := range misses[start:end] {
			if ctx.Err() != nil {
				return
			}
			if _, err := c.SearchArtists(ctx, name); err != nil {
				c.logger.Debug("warm lookup failed",
					slog.String("name", name),
					slog.String("error", err.Error()))
			}
		}
	}
}
