package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryingClient wraps an inner Client with exponential backoff for
// transient failures. Not-found and authentication errors pass through
// untouched. Once the retry budget is exhausted the last transient error
// is returned and the caller escalates it to a per-item failure.
type RetryingClient struct {
	inner   Client
	retries uint64
	base    time.Duration
	logger  *slog.Logger
}

// NewRetryingClient creates a RetryingClient. retries is the number of
// re-attempts after the initial call; base is the initial backoff delay.
func NewRetryingClient(inner Client, retries int, base time.Duration, logger *slog.Logger) *RetryingClient {
	if retries < 0 {
		retries = 0
	}
	if base <= 0 {
		base = 500 * time.Millisecond
	}
	return &RetryingClient{
		inner:   inner,
		retries: uint64(retries),
		base:    base,
		logger:  logger.With(slog.String("component", "catalog-retry")),
	}
}

// SearchArtists implements Client.
func (c *RetryingClient) SearchArtists(ctx context.Context, name string) ([]Artist, error) {
	var artists []Artist
	err := c.do(ctx, "search-artists", func(ctx context.Context) error {
		var err error
		artists, err = c.inner.SearchArtists(ctx, name)
		return err
	})
	return artists, err
}

// SearchAlbums implements Client.
func (c *RetryingClient) SearchAlbums(ctx context.Context, q AlbumQuery) ([]Album, error) {
	var albums []Album
	err := c.do(ctx, "search-albums", func(ctx context.Context) error {
		var err error
		albums, err = c.inner.SearchAlbums(ctx, q)
		return err
	})
	return albums, err
}

// ArtistDiscography implements Client.
func (c *RetryingClient) ArtistDiscography(ctx context.Context, artistID string) ([]Album, error) {
	var albums []Album
	err := c.do(ctx, "discography", func(ctx context.Context) error {
		var err error
		albums, err = c.inner.ArtistDiscography(ctx, artistID)
		return err
	})
	return albums, err
}

func (c *RetryingClient) do(ctx context.Context, op string, fn func(context.Context) error) error {
	backoff := retry.WithMaxRetries(c.retries, retry.NewExponential(c.base))
	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if IsTransient(err) {
			c.logger.Debug("transient catalog failure",
				slog.String("op", op),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			return retry.RetryableError(err)
		}
		return err
	})
}
