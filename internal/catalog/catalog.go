// Package catalog defines the remote music catalog contract: entity types,
// the client interface resolvers depend on, and the error taxonomy that
// separates transient, not-found, and fatal failures.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ReleaseType classifies a catalog release.
type ReleaseType string

// Known release types.
const (
	ReleaseAlbum       ReleaseType = "album"
	ReleaseSingle      ReleaseType = "single"
	ReleaseCompilation ReleaseType = "compilation"
	ReleaseOther       ReleaseType = "other"
)

// Artist is a candidate artist record returned by the catalog.
type Artist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Popularity int    `json:"popularity,omitempty"` // ranking hint, 0 = unknown
}

// Album is a candidate release returned by the catalog.
type Album struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	ReleaseYear int         `json:"release_year,omitempty"` // 0 = unknown
	Type        ReleaseType `json:"type"`
	Artists     []Artist    `json:"artists"` // credited artists
}

// CreditedTo reports whether the album credits the given artist id.
func (a Album) CreditedTo(artistID string) bool {
	for _, ar := range a.Artists {
		if ar.ID == artistID {
			return true
		}
	}
	return false
}

// AlbumQuery is one data-described search shape. Tiers differ only in
// which fields they populate; there is no per-tier dispatch.
type AlbumQuery struct {
	Artist string // artist field qualifier; empty = unqualified
	Album  string // album field qualifier; empty = unqualified
	Year   int    // release year constraint; 0 = unconstrained
	Text   string // free text; when set, field qualifiers are ignored
}

// Client is the narrow interface to the remote catalog. Implementations
// signal failure through the error types below: ErrUnavailable for
// transient conditions, ErrNotFound for missing entities, ErrAuthRequired
// for configuration problems. An empty result slice with a nil error means
// "nothing matched" and is not an error.
type Client interface {
	// SearchArtists searches the catalog for artists by free-text name.
	SearchArtists(ctx context.Context, name string) ([]Artist, error)

	// SearchAlbums searches the catalog for albums matching the query shape.
	SearchAlbums(ctx context.Context, q AlbumQuery) ([]Album, error)

	// ArtistDiscography fetches every release credited to the artist.
	ArtistDiscography(ctx context.Context, artistID string) ([]Album, error)
}

// ErrUnavailable indicates a transient failure (rate-limited, timeout,
// server error). Callers may retry.
type ErrUnavailable struct {
	Op         string
	Cause      error
	RetryAfter time.Duration
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("catalog unavailable during %s: %v", e.Op, e.Cause)
}

func (e *ErrUnavailable) Unwrap() error { return e.Cause }

// ErrNotFound indicates the catalog has no entity for the requested id.
type ErrNotFound struct {
	Op string
	ID string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("catalog %s: %s not found", e.Op, e.ID)
}

// ErrAuthRequired indicates missing or rejected credentials. This is fatal
// for the whole run; nothing can be resolved without catalog access.
type ErrAuthRequired struct {
	Reason string
}

func (e *ErrAuthRequired) Error() string {
	return fmt.Sprintf("catalog authentication: %s", e.Reason)
}

// IsTransient reports whether err is a retryable catalog failure.
func IsTransient(err error) bool {
	var ua *ErrUnavailable
	return errors.As(err, &ua)
}

// IsFatal reports whether err must abort the entire run.
func IsFatal(err error) bool {
	var ar *ErrAuthRequired
	return errors.As(err, &ar)
}
