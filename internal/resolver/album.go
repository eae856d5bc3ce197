package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/sydlexius/retune/internal/catalog"
	"github.com/sydlexius/retune/internal/library"
	"github.com/sydlexius/retune/internal/similarity"
)

// Local folder names containing these keywords suggest a compilation, which
// waives the plain-album tie-break preference.
var compilationKeywords = []string{
	"best of", "greatest hits", "compilation", "anthology", "collection", "singles",
}

// ResolveAlbum finds the best catalog album credited to the resolved artist
// for one local album folder. Query tiers are tried in a fixed order,
// stopping at the first tier producing a candidate above the acceptance
// floor; the discography tier runs last and only for a trusted artist.
// A nil resolution with a nil error means no match.
func (r *Resolver) ResolveAlbum(ctx context.Context, artistRes *ArtistResolution, folder library.Folder) (*AlbumResolution, error) {
	if artistRes == nil || artistRes.Artist == nil {
		return nil, nil
	}
	artist := artistRes.Artist

	type tier struct {
		strategy Strategy
		query    catalog.AlbumQuery
	}
	var tiers []tier
	if folder.ParsedYear > 0 {
		tiers = append(tiers, tier{TierExact, catalog.AlbumQuery{
			Artist: artist.Name, Album: folder.ParsedTitle, Year: folder.ParsedYear,
		}})
	}
	tiers = append(tiers,
		tier{TierNoYear, catalog.AlbumQuery{Artist: artist.Name, Album: folder.ParsedTitle}},
		tier{TierFreeText, catalog.AlbumQuery{Text: artist.Name + " " + folder.ParsedTitle}},
	)

	for _, t := range tiers {
		albums, err := r.client.SearchAlbums(ctx, t.query)
		if err != nil {
			return nil, err
		}
		if res := r.pickAlbum(folder, albums, artist.ID, t.strategy); res != nil {
			return res, nil
		}
	}

	// Last resort: scan the full discography. Expensive, so only when the
	// artist identity itself is trusted.
	if !artistRes.Trusted(r.th.ArtistFloor) {
		return nil, nil
	}
	discography, err := r.client.ArtistDiscography(ctx, artist.ID)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("falling back to discography scan",
		slog.String("artist", artist.Name),
		slog.String("folder", folder.Name),
		slog.Int("releases", len(discography)))
	return r.pickAlbum(folder, discography, artist.ID, TierDiscography), nil
}

// pickAlbum scores candidates and returns a resolution when the best one
// clears the acceptance floor, else nil.
func (r *Resolver) pickAlbum(folder library.Folder, albums []catalog.Album, artistID string, strategy Strategy) *AlbumResolution {
	candidates := r.scoreAlbums(folder, albums, artistID, strategy)
	if len(candidates) == 0 {
		return nil
	}

	best := r.breakTies(folder, candidates)
	if best.Score < r.th.AcceptFloor {
		return nil
	}
	return &AlbumResolution{
		Album:        best.Album,
		Score:        best.Score,
		Strategy:     strategy,
		Kind:         best.Kind,
		ProposedName: ProposedFolderName(best.Album, folder),
	}
}

// scoreAlbums filters candidates to those credited to the artist and scores
// each one: similarity of titles plus the year bonus when the parsed local
// year equals the release year, clamped to 1.0. The result is ordered by
// score descending with deterministic tie order.
func (r *Resolver) scoreAlbums(folder library.Folder, albums []catalog.Album, artistID string, strategy Strategy) []MatchCandidate {
	want := similarity.Normalize(folder.ParsedTitle)

	candidates := make([]MatchCandidate, 0, len(albums))
	for i := range albums {
		al := albums[i]
		if !al.CreditedTo(artistID) {
			continue
		}
		base := similarity.Score(want, similarity.Normalize(al.Name))
		score := base
		if folder.ParsedYear > 0 && folder.ParsedYear == al.ReleaseYear {
			score += r.th.YearBonus
		}
		score = clamp01(score)

		kind := KindFuzzy
		if base >= 1.0 {
			kind = KindExact
		}
		candidates = append(candidates, MatchCandidate{
			Album:    &al,
			Score:    score,
			Strategy: strategy,
			Kind:     kind,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Album.ID < candidates[j].Album.ID
	})
	return candidates
}

// breakTies applies the release-type preference: among candidates within
// the tie epsilon of the top score, a plain album beats a compilation or
// single, unless the local folder name itself suggests a compilation.
func (r *Resolver) breakTies(folder library.Folder, candidates []MatchCandidate) MatchCandidate {
	top := candidates[0]
	if suggestsCompilation(folder.ParsedTitle) {
		return top
	}
	if top.Album.Type == catalog.ReleaseAlbum {
		return top
	}
	for _, c := range candidates[1:] {
		if top.Score-c.Score > r.th.TieEpsilon {
			break
		}
		if c.Album.Type == catalog.ReleaseAlbum {
			return c
		}
	}
	return top
}

// suggestsCompilation reports whether a local title looks like a best-of or
// compilation release.
func suggestsCompilation(title string) bool {
	lowered := strings.ToLower(title)
	for _, kw := range compilationKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// ProposedFolderName renders the canonical "{year} - {name}" folder name,
// falling back to the parsed local year when the catalog has none, and to
// the bare album name when neither side knows a year.
func ProposedFolderName(album *catalog.Album, folder library.Folder) string {
	year := album.ReleaseYear
	if year == 0 {
		year = folder.ParsedYear
	}
	if year == 0 {
		return album.Name
	}
	return fmt.Sprintf("%d - %s", year, album.Name)
}
