// Package engine runs a full reconciliation pass over the local library,
// feeding folders through exclusion filtering, resolution, and the decision
// policy, and containing per-item failures.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sydlexius/retune/internal/catalog"
	"github.com/sydlexius/retune/internal/exclusion"
	"github.com/sydlexius/retune/internal/library"
	"github.com/sydlexius/retune/internal/resolver"
)

// Engine orchestrates one reconciliation run.
type Engine struct {
	resolver *resolver.Resolver
	filter   *exclusion.Filter
	mode     resolver.Mode
	policy   resolver.Policy
	workers  int
	logger   *slog.Logger
}

// New creates an Engine. workers bounds parallel album resolution within
// one artist; the catalog stack underneath still serializes dispatch.
func New(res *resolver.Resolver, filter *exclusion.Filter, mode resolver.Mode, policy resolver.Policy, workers int, logger *slog.Logger) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		resolver: res,
		filter:   filter,
		mode:     mode,
		policy:   policy,
		workers:  workers,
		logger:   logger.With(slog.String("component", "engine")),
	}
}

// Report is the outcome of one run.
type Report struct {
	ID          string                    `json:"id"`
	LibraryPath string                    `json:"library_path"`
	StartedAt   time.Time                 `json:"started_at"`
	CompletedAt time.Time                 `json:"completed_at"`
	Results     []resolver.Result         `json:"-"`
	Summary     map[resolver.Decision]int `json:"summary"`
}

// Run executes a full pass over the library at root. Per-item failures are
// contained in their results; only a fatal configuration error aborts the
// run. Canceling ctx stops new work fail-fast while results already
// resolved are still returned.
func (e *Engine) Run(ctx context.Context, root string) (*Report, error) {
	artists, err := library.Enumerate(root)
	if err != nil {
		return nil, err
	}

	report := &Report{
		ID:          uuid.New().String(),
		LibraryPath: root,
		StartedAt:   time.Now().UTC(),
	}
	e.logger.Info("run started",
		slog.String("run_id", report.ID),
		slog.String("library", root),
		slog.Int("artists", len(artists)))

	for _, artist := range artists {
		if ctx.Err() != nil {
			e.logger.Warn("run canceled", slog.String("run_id", report.ID))
			break
		}
		results, err := e.processArtist(ctx, artist)
		report.Results = append(report.Results, results...)
		if err != nil {
			// Fatal: nothing else can be resolved either.
			return report, err
		}
	}

	report.CompletedAt = time.Now().UTC()
	report.Summary = summarize(report.Results)
	e.logger.Info("run completed",
		slog.String("run_id", report.ID),
		slog.Int("results", len(report.Results)))
	return report, nil
}

// processArtist resolves one artist folder and all album folders under it.
// The returned error is non-nil only for fatal configuration failures.
func (e *Engine) processArtist(ctx context.Context, artist library.ArtistDir) ([]resolver.Result, error) {
	if e.filter.Match(artist.Name) {
		e.logger.Debug("artist excluded", slog.String("folder", artist.Name))
		return []resolver.Result{{Folder: artist.Folder, Decision: resolver.DecisionSkip, Reason: resolver.ReasonExcluded}}, nil
	}
	if !artist.Valid() {
		return []resolver.Result{{Folder: artist.Folder, Decision: resolver.DecisionSkip, Reason: resolver.ReasonInvalidInput}}, nil
	}

	artistRes, err := e.resolver.ResolveArtist(ctx, artist.Folder, artist.Albums)
	if err != nil {
		if catalog.IsFatal(err) {
			return nil, fmt.Errorf("resolving artist %q: %w", artist.Name, err)
		}
		e.logger.Warn("artist resolution failed",
			slog.String("folder", artist.Name),
			slog.String("error", err.Error()))
		// The artist folder and every album under it were attempted and
		// must all surface in the report.
		results := []resolver.Result{{Folder: artist.Folder, Decision: resolver.DecisionError, Reason: resolver.ReasonRemoteUnavailable}}
		for _, af := range artist.Albums {
			results = append(results, resolver.Result{Folder: af, Decision: resolver.DecisionError, Reason: resolver.ReasonRemoteUnavailable})
		}
		return results, nil
	}

	if artistRes == nil {
		e.logger.Info("no artist match", slog.String("folder", artist.Name))
		results := []resolver.Result{{Folder: artist.Folder, Decision: e.noMatchDecision(), Reason: resolver.ReasonNoMatch}}
		for _, af := range artist.Albums {
			results = append(results, resolver.Result{Folder: af, Decision: e.noMatchDecision(), Reason: resolver.ReasonNoMatch})
		}
		return results, nil
	}

	return e.processAlbums(ctx, artistRes, artist.Albums)
}

// processAlbums resolves the album folders of one artist with bounded
// fan-out. Album folders are independent of each other; the catalog layer
// serializes actual dispatch.
func (e *Engine) processAlbums(ctx context.Context, artistRes *resolver.ArtistResolution, albums []library.Folder) ([]resolver.Result, error) {
	results := make([]resolver.Result, len(albums))

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		fatal error
	)
	sem := make(chan struct{}, e.workers)

	for i := range albums {
		if ctx.Err() != nil {
			// Fail fast: stop dispatching, mark the rest unprocessed.
			for j := i; j < len(albums); j++ {
				results[j] = resolver.Result{Folder: albums[j], Decision: resolver.DecisionError, Reason: resolver.ReasonRemoteUnavailable}
			}
			break
		}
		mu.Lock()
		stop := fatal != nil
		mu.Unlock()
		if stop {
			for j := i; j < len(albums); j++ {
				results[j] = resolver.Result{Folder: albums[j], Decision: resolver.DecisionError, Reason: resolver.ReasonRemoteUnavailable}
			}
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			res, err := e.processAlbum(ctx, artistRes, albums[i])
			if err != nil {
				mu.Lock()
				if fatal == nil {
					fatal = err
				}
				mu.Unlock()
				res = resolver.Result{Folder: albums[i], Decision: resolver.DecisionError, Reason: resolver.ReasonRemoteUnavailable}
			}
			results[i] = res
		}(i)
	}
	wg.Wait()

	return results, fatal
}

// processAlbum produces exactly one result for one album folder. The
// returned error is non-nil only for fatal configuration failures.
func (e *Engine) processAlbum(ctx context.Context, artistRes *resolver.ArtistResolution, folder library.Folder) (resolver.Result, error) {
	if e.filter.Match(folder.Name) {
		return resolver.Result{Folder: folder, Artist: artistRes.Artist, Decision: resolver.DecisionSkip, Reason: resolver.ReasonExcluded}, nil
	}
	if !folder.Valid() {
		return resolver.Result{Folder: folder, Artist: artistRes.Artist, Decision: resolver.DecisionSkip, Reason: resolver.ReasonInvalidInput}, nil
	}

	albumRes, err := e.resolver.ResolveAlbum(ctx, artistRes, folder)
	if err != nil {
		if catalog.IsFatal(err) {
			return resolver.Result{}, fmt.Errorf("resolving album %q: %w", folder.Name, err)
		}
		e.logger.Warn("album resolution failed",
			slog.String("folder", folder.Name),
			slog.String("error", err.Error()))
		return resolver.Result{Folder: folder, Artist: artistRes.Artist, Decision: resolver.DecisionError, Reason: resolver.ReasonRemoteUnavailable}, nil
	}
	if albumRes == nil {
		return resolver.Result{Folder: folder, Artist: artistRes.Artist, Decision: e.noMatchDecision(), Reason: resolver.ReasonNoMatch}, nil
	}

	nameChanged := albumRes.ProposedName != folder.Name
	decision := resolver.Decide(e.mode, albumRes.Score, nameChanged, e.policy)

	reason := resolver.ReasonMatched
	switch decision {
	case resolver.DecisionSkip:
		reason = resolver.ReasonAlreadyCorrect
	case resolver.DecisionManualReview:
		reason = resolver.ReasonNeedsReview
	}

	e.logger.Debug("album resolved",
		slog.String("folder", folder.Name),
		slog.String("album", albumRes.Album.Name),
		slog.Float64("score", albumRes.Score),
		slog.String("decision", string(decision)))

	return resolver.Result{
		Folder:       folder,
		Artist:       artistRes.Artist,
		Album:        albumRes.Album,
		ProposedName: albumRes.ProposedName,
		Decision:     decision,
		Reason:       reason,
		Confidence:   albumRes.Score,
	}, nil
}

// noMatchDecision maps "nothing found" onto the operating mode: automatic
// non-interactive runs skip, everything else asks the operator.
func (e *Engine) noMatchDecision() resolver.Decision {
	if e.mode == resolver.ModeAutomatic {
		return resolver.DecisionSkip
	}
	return resolver.DecisionManualReview
}

func summarize(results []resolver.Result) map[resolver.Decision]int {
	summary := make(map[resolver.Decision]int)
	for _, r := range results {
		summary[r.Decision]++
	}
	return summary
}
