package resolver

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/sydlexius/retune/internal/catalog"
)

// fakeCatalog is an in-memory catalog.Client with per-operation hooks.
type fakeCatalog struct {
	searchArtists func(name string) ([]catalog.Artist, error)
	searchAlbums  func(q catalog.AlbumQuery) ([]catalog.Album, error)
	discography   func(artistID string) ([]catalog.Album, error)

	albumQueries []catalog.AlbumQuery
	discoCalls   int
}

func (f *fakeCatalog) SearchArtists(_ context.Context, name string) ([]catalog.Artist, error) {
	if f.searchArtists == nil {
		return nil, nil
	}
	return f.searchArtists(name)
}

func (f *fakeCatalog) SearchAlbums(_ context.Context, q catalog.AlbumQuery) ([]catalog.Album, error) {
	f.albumQueries = append(f.albumQueries, q)
	if f.searchAlbums == nil {
		return nil, nil
	}
	return f.searchAlbums(q)
}

func (f *fakeCatalog) ArtistDiscography(_ context.Context, artistID string) ([]catalog.Album, error) {
	f.discoCalls++
	if f.discography == nil {
		return nil, nil
	}
	return f.discography(artistID)
}

func newTestResolver(t *testing.T, client catalog.Client) *Resolver {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return New(client, DefaultThresholds(), logger)
}

var (
	tenCC    = catalog.Artist{ID: "art-10cc", Name: "10cc", Popularity: 55}
	maniacs  = catalog.Artist{ID: "art-maniacs", Name: "10,000 Maniacs", Popularity: 48}
	sheet    = catalog.Album{ID: "alb-sheet", Name: "Sheet Music", ReleaseYear: 2007, Type: catalog.ReleaseAlbum, Artists: []catalog.Artist{tenCC}}
	original = catalog.Album{ID: "alb-ost", Name: "The Original Soundtrack", ReleaseYear: 1975, Type: catalog.ReleaseAlbum, Artists: []catalog.Artist{tenCC}}
	bestOf   = catalog.Album{ID: "alb-best", Name: "The Best of 10cc", ReleaseYear: 1997, Type: catalog.ReleaseCompilation, Artists: []catalog.Artist{tenCC}}
)
