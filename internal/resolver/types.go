package resolver

import (
	"github.com/sydlexius/retune/internal/catalog"
	"github.com/sydlexius/retune/internal/library"
)

// MatchKind records how a candidate was matched.
type MatchKind string

// Known match kinds.
const (
	KindExact     MatchKind = "exact"
	KindFuzzy     MatchKind = "fuzzy"
	KindInferred  MatchKind = "inferred"
	KindEvaluated MatchKind = "evaluated"
)

// ArtistSource records which path produced an artist resolution.
type ArtistSource string

// Known artist sources.
const (
	SourceSearch    ArtistSource = "search"
	SourceInferred  ArtistSource = "inferred"
	SourceEvaluated ArtistSource = "evaluated"
)

// Strategy identifies the query tier that produced a candidate. Tiers are
// data-described query shapes evaluated in a fixed sequence, not types.
type Strategy string

// Known strategies, in fallback order for albums.
const (
	StrategyDirect      Strategy = "artist-search"
	StrategyEvidence    Strategy = "album-evidence"
	TierExact           Strategy = "artist-album-year"
	TierNoYear          Strategy = "artist-album"
	TierFreeText        Strategy = "free-text"
	TierDiscography     Strategy = "discography"
)

// MatchCandidate is a scored pairing produced by a resolver. Score is the
// similarity component plus any applicable bonuses, clamped to [0,1].
type MatchCandidate struct {
	Artist   *catalog.Artist
	Album    *catalog.Album
	Score    float64
	Strategy Strategy
	Kind     MatchKind
}

// ArtistResolution is the outcome of resolving one artist folder.
type ArtistResolution struct {
	Artist *catalog.Artist
	Score  float64
	Source ArtistSource
	Kind   MatchKind
}

// Trusted reports whether the artist identity is solid enough for the
// discography fallback tier: either a direct search hit above the floor or
// an inference that survived re-validation.
func (r *ArtistResolution) Trusted(floor float64) bool {
	if r == nil || r.Artist == nil {
		return false
	}
	return r.Source == SourceSearch || r.Source == SourceEvaluated || r.Score >= floor
}

// AlbumResolution is the outcome of resolving one album folder.
type AlbumResolution struct {
	Album        *catalog.Album
	Score        float64
	Strategy     Strategy
	Kind         MatchKind
	ProposedName string
}

// Decision is the terminal action for one folder.
type Decision string

// Known decisions.
const (
	DecisionRename       Decision = "rename"
	DecisionSkip         Decision = "skip"
	DecisionManualReview Decision = "manual-review"
	DecisionError        Decision = "error"
)

// Reason codes attached to results. Free-text codes, stable for logging.
const (
	ReasonMatched           = "matched"
	ReasonAlreadyCorrect    = "already-correct"
	ReasonNoMatch           = "no-match"
	ReasonNeedsReview       = "needs-review"
	ReasonExcluded          = "excluded"
	ReasonInvalidInput      = "invalid-input"
	ReasonRemoteUnavailable = "remote-unavailable"
)

// Result is the final output per local folder: the only entity crossing
// the boundary to logging and rename execution.
type Result struct {
	Folder       library.Folder
	Artist       *catalog.Artist
	Album        *catalog.Album
	ProposedName string
	Decision     Decision
	Reason       string
	Confidence   float64
}
