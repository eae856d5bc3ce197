// Package output renders run reports: a JSONL stream for machine
// consumption and a terminal table for operators.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sydlexius/retune/internal/engine"
	"github.com/sydlexius/retune/internal/resolver"
)

// Entry is one JSONL line of a run report. Field names are stable; external
// tooling consumes them.
type Entry struct {
	RunID            string  `json:"run_id"`
	Timestamp        string  `json:"timestamp"`
	LocalFolder      string  `json:"local_folder"`
	ProposedName     string  `json:"proposed_name,omitempty"`
	Decision         string  `json:"decision"`
	Reason           string  `json:"reason"`
	Score            float64 `json:"score"`
	MatchedCatalogID string  `json:"matched_catalog_id,omitempty"`
}

func newEntry(runID string, at time.Time, r resolver.Result) Entry {
	e := Entry{
		RunID:        runID,
		Timestamp:    at.Format(time.RFC3339),
		LocalFolder:  r.Folder.Name,
		ProposedName: r.ProposedName,
		Decision:     string(r.Decision),
		Reason:       r.Reason,
		Score:        r.Confidence,
	}
	if r.Album != nil {
		e.MatchedCatalogID = r.Album.ID
	} else if r.Artist != nil {
		e.MatchedCatalogID = r.Artist.ID
	}
	return e
}

// WriteJSONL emits one line per result. Lines are written in report order
// so reruns over the same library diff cleanly.
func WriteJSONL(w io.Writer, report *engine.Report) error {
	enc := json.NewEncoder(w)
	for _, r := range report.Results {
		if err := enc.Encode(newEntry(report.ID, report.CompletedAt, r)); err != nil {
			return fmt.Errorf("encoding report entry: %w", err)
		}
	}
	return nil
}

// WriteJSONLFile writes the report to path, creating parent directories as
// needed.
func WriteJSONLFile(path string, report *engine.Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	f, err := os.Create(path) //nolint:gosec // G304: path comes from operator config
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	if err := WriteJSONL(f, report); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	return f.Close()
}
