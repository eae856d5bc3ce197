// Package exclusion filters folder names against operator-managed patterns.
package exclusion

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"strings"
)

// Filter tests folder names against a fixed set of patterns. A pattern
// containing any of * ? [ ] is interpreted as a shell-style glob; any other
// pattern is an exact match. All matching is case-insensitive. A malformed
// glob never matches; filtering must not abort a scan.
type Filter struct {
	patterns []string
}

// New creates a Filter from the given patterns.
func New(patterns []string) *Filter {
	lowered := make([]string, len(patterns))
	for i, p := range patterns {
		lowered[i] = strings.ToLower(p)
	}
	return &Filter{patterns: lowered}
}

// Match reports whether name matches any pattern. Patterns are OR-ed and
// the first match short-circuits.
func (f *Filter) Match(name string) bool {
	lowered := strings.ToLower(name)
	for _, p := range f.patterns {
		if matchOne(p, lowered) {
			return true
		}
	}
	return false
}

// IsExcluded reports whether folderName matches any of the patterns.
func IsExcluded(folderName string, patterns []string) bool {
	return New(patterns).Match(folderName)
}

// matchOne matches a single lowercased pattern against a lowercased name.
func matchOne(pattern, name string) bool {
	if strings.ContainsAny(pattern, "*?[]") {
		ok, err := path.Match(pattern, name)
		if err != nil {
			// Malformed glob: treated as no match.
			return false
		}
		return ok
	}
	return pattern == name
}

// LoadFile reads one pattern per line from path. Blank lines and lines
// starting with '#' are ignored. A missing file yields an empty list.
func LoadFile(p string) ([]string, error) {
	f, err := os.Open(p) //nolint:gosec // G304: path comes from operator config
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening exclusion file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var patterns []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading exclusion file: %w", err)
	}
	return patterns, nil
}
