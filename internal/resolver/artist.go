package resolver

import (
	"context"
	"log/slog"
	"sort"

	"github.com/sydlexius/retune/internal/catalog"
	"github.com/sydlexius/retune/internal/library"
	"github.com/sydlexius/retune/internal/similarity"
)

// ResolveArtist resolves a local artist folder to a catalog artist. It
// first searches the catalog directly by the folder name; when no candidate
// clears the confidence floor it falls back to inference from the album
// folders underneath. A nil resolution with a nil error means no match.
func (r *Resolver) ResolveArtist(ctx context.Context, folder library.Folder, albumFolders []library.Folder) (*ArtistResolution, error) {
	candidates, err := r.client.SearchArtists(ctx, folder.Name)
	if err != nil {
		return nil, err
	}

	scored := r.scoreArtists(folder.Name, candidates)
	if len(scored) > 0 && scored[0].Score >= r.th.ArtistFloor {
		top := scored[0]
		kind := KindFuzzy
		if top.Score >= 1.0 {
			kind = KindExact
		}
		r.logger.Debug("artist resolved by direct search",
			slog.String("folder", folder.Name),
			slog.String("artist", top.Artist.Name),
			slog.Float64("score", top.Score))
		return &ArtistResolution{Artist: top.Artist, Score: top.Score, Source: SourceSearch, Kind: kind}, nil
	}

	return r.inferArtist(ctx, folder, albumFolders)
}

// scoreArtists scores search candidates against the folder name and returns
// the top-N, ordered by score then popularity then id for determinism.
func (r *Resolver) scoreArtists(folderName string, candidates []catalog.Artist) []MatchCandidate {
	want := similarity.Normalize(folderName)

	scored := make([]MatchCandidate, 0, len(candidates))
	for i := range candidates {
		a := candidates[i]
		scored = append(scored, MatchCandidate{
			Artist:   &a,
			Score:    similarity.Score(want, similarity.Normalize(a.Name)),
			Strategy: StrategyDirect,
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if scored[i].Artist.Popularity != scored[j].Artist.Popularity {
			return scored[i].Artist.Popularity > scored[j].Artist.Popularity
		}
		return scored[i].Artist.ID < scored[j].Artist.ID
	})

	if r.th.TopN > 0 && len(scored) > r.th.TopN {
		scored = scored[:r.th.TopN]
	}
	return scored
}

// evidenceTally accumulates album-evidence votes for one candidate artist.
type evidenceTally struct {
	artist catalog.Artist
	votes  int
	best   float64 // highest single album similarity seen
}

// inferArtist derives the artist identity from album-level evidence: broad
// album searches are scored against the local album folder names, and every
// artist credited on a plausible hit collects a vote. The winner is then
// re-validated against its discography; passing validation promotes the
// source from inferred to evaluated.
func (r *Resolver) inferArtist(ctx context.Context, folder library.Folder, albumFolders []library.Folder) (*ArtistResolution, error) {
	sample := albumFolders
	if r.th.EvidenceAlbums > 0 && len(sample) > r.th.EvidenceAlbums {
		sample = sample[:r.th.EvidenceAlbums]
	}

	tally := make(map[string]*evidenceTally)
	for _, af := range sample {
		if !af.Valid() {
			continue
		}
		queries := []catalog.AlbumQuery{
			{Album: af.ParsedTitle},
			{Text: folder.Name + " " + af.ParsedTitle},
		}
		want := similarity.Normalize(af.ParsedTitle)

		for _, q := range queries {
			if ctx.Err() != nil {
				return nil, &catalog.ErrUnavailable{Op: "inference", Cause: ctx.Err()}
			}
			albums, err := r.client.SearchAlbums(ctx, q)
			if err != nil {
				if catalog.IsFatal(err) {
					return nil, err
				}
				// Inference is best-effort; a failed evidence query only
				// weakens the tally.
				r.logger.Debug("evidence query failed",
					slog.String("album_folder", af.Name),
					slog.String("error", err.Error()))
				continue
			}
			for i := range albums {
				al := albums[i]
				score := similarity.Score(want, similarity.Normalize(al.Name))
				if score < r.th.EvidenceFloor {
					continue
				}
				for _, artist := range al.Artists {
					e, ok := tally[artist.ID]
					if !ok {
						e = &evidenceTally{artist: artist}
						tally[artist.ID] = e
					}
					e.votes++
					if score > e.best {
						e.best = score
					}
				}
			}
		}
	}

	winner := pickWinner(tally)
	if winner == nil {
		return nil, nil
	}

	r.logger.Debug("artist inferred from album evidence",
		slog.String("folder", folder.Name),
		slog.String("artist", winner.artist.Name),
		slog.Int("votes", winner.votes),
		slog.Float64("best", winner.best))

	return r.validateInference(ctx, winner, albumFolders)
}

// pickWinner selects the tally entry with the most votes, breaking ties by
// highest single album similarity, then by id for determinism.
func pickWinner(tally map[string]*evidenceTally) *evidenceTally {
	entries := make([]*evidenceTally, 0, len(tally))
	for _, e := range tally {
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return nil
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].votes != entries[j].votes {
			return entries[i].votes > entries[j].votes
		}
		if entries[i].best != entries[j].best {
			return entries[i].best > entries[j].best
		}
		return entries[i].artist.ID < entries[j].artist.ID
	})
	return entries[0]
}

// validateInference fetches the inferred artist's discography and checks
// what fraction of the local album folders have a plausible counterpart.
// Coverage of at least half promotes the source to evaluated with a
// confidence boost; anything less keeps inferred at reduced confidence.
// A failed discography fetch also keeps the inferred result: the evidence
// still stands even when re-validation is impossible.
func (r *Resolver) validateInference(ctx context.Context, winner *evidenceTally, albumFolders []library.Folder) (*ArtistResolution, error) {
	artist := winner.artist
	inferred := &ArtistResolution{
		Artist: &artist,
		Score:  clamp01(winner.best - 0.1),
		Source: SourceInferred,
		Kind:   KindInferred,
	}

	var checkable []library.Folder
	for _, af := range albumFolders {
		if af.Valid() {
			checkable = append(checkable, af)
		}
	}
	if len(checkable) == 0 {
		return inferred, nil
	}

	discography, err := r.client.ArtistDiscography(ctx, artist.ID)
	if err != nil {
		if catalog.IsFatal(err) {
			return nil, err
		}
		r.logger.Debug("discography validation unavailable",
			slog.String("artist", artist.Name),
			slog.String("error", err.Error()))
		return inferred, nil
	}

	matched := 0
	for _, af := range checkable {
		want := similarity.Normalize(af.ParsedTitle)
		for i := range discography {
			if similarity.Score(want, similarity.Normalize(discography[i].Name)) >= r.th.EvidenceFloor {
				matched++
				break
			}
		}
	}

	coverage := float64(matched) / float64(len(checkable))
	if coverage >= 0.5 {
		return &ArtistResolution{
			Artist: &artist,
			Score:  clamp01(winner.best + 0.1),
			Source: SourceEvaluated,
			Kind:   KindEvaluated,
		}, nil
	}
	return inferred, nil
}
