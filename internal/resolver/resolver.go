// Package resolver matches local artist and album folders against remote
// catalog records, scoring candidates and deciding what to do with them.
package resolver

import (
	"log/slog"

	"github.com/sydlexius/retune/internal/catalog"
)

// Thresholds holds the tunable floors and bonuses of the matching engine.
type Thresholds struct {
	// ArtistFloor is the minimum similarity for a direct artist search hit.
	ArtistFloor float64 `yaml:"artist_floor"`
	// EvidenceFloor is the lower similarity bound used during album-evidence
	// inference and discography re-validation.
	EvidenceFloor float64 `yaml:"evidence_floor"`
	// AcceptFloor is the minimum acceptable album match score.
	AcceptFloor float64 `yaml:"accept_floor"`
	// YearBonus is added when the parsed local year equals the release year.
	YearBonus float64 `yaml:"year_bonus"`
	// TieEpsilon is the score window within which release-type preference
	// breaks ties.
	TieEpsilon float64 `yaml:"tie_epsilon"`
	// TopN caps the candidates kept from a direct artist search.
	TopN int `yaml:"top_n"`
	// EvidenceAlbums caps the album folders sampled for inference.
	EvidenceAlbums int `yaml:"evidence_albums"`
}

// DefaultThresholds returns the documented default thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ArtistFloor:    0.6,
		EvidenceFloor:  0.5,
		AcceptFloor:    0.6,
		YearBonus:      0.3,
		TieEpsilon:     0.02,
		TopN:           5,
		EvidenceAlbums: 5,
	}
}

// Resolver matches local folders against the remote catalog. It depends
// only on the catalog.Client abstraction, so tests inject an in-memory
// fake and production injects the cached, retrying Spotify stack.
type Resolver struct {
	client catalog.Client
	th     Thresholds
	logger *slog.Logger
}

// New creates a Resolver.
func New(client catalog.Client, th Thresholds, logger *slog.Logger) *Resolver {
	return &Resolver{
		client: client,
		th:     th,
		logger: logger.With(slog.String("component", "resolver")),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
