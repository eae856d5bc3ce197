package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ArtistDir is one artist-level directory and its album subdirectories.
type ArtistDir struct {
	Folder
	Albums []Folder
}

// Enumerate walks exactly two levels under root: artist directories and
// their album subdirectories. Hidden directories (leading dot) are skipped
// at both levels. The walker never descends further; track files are not
// its concern.
func Enumerate(root string) ([]ArtistDir, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading library root: %w", err)
	}

	var artists []ArtistDir
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		artistPath := filepath.Join(root, entry.Name())
		artist := ArtistDir{Folder: NewFolder(entry.Name(), artistPath)}

		subs, err := os.ReadDir(artistPath)
		if err != nil {
			// Unreadable artist directory: report the artist with no
			// albums rather than failing the whole enumeration.
			artists = append(artists, artist)
			continue
		}
		for _, sub := range subs {
			if !sub.IsDir() || strings.HasPrefix(sub.Name(), ".") {
				continue
			}
			artist.Albums = append(artist.Albums, NewFolder(sub.Name(), filepath.Join(artistPath, sub.Name())))
		}
		artists = append(artists, artist)
	}
	return artists, nil
}
