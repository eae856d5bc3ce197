// Package library models and enumerates the local artist/album hierarchy.
package library

import (
	"regexp"
	"strconv"
	"strings"
)

// Folder is a directory observed under the library root. Immutable once
// read; it lives for one resolution pass.
type Folder struct {
	Name        string // raw directory name as stored on disk
	Path        string // absolute path
	ParsedYear  int    // 4-digit year from a leading prefix, 0 when absent
	ParsedTitle string // Name with any year prefix stripped
}

// Leading year prefixes recognized in album folder names, tried in order:
// "1974 - Sheet Music", "(1974) Sheet Music", "1974 Sheet Music".
var yearPrefixes = []*regexp.Regexp{
	regexp.MustCompile(`^(\d{4})\s*-\s*(.+)$`),
	regexp.MustCompile(`^\((\d{4})\)\s*(.+)$`),
	regexp.MustCompile(`^(\d{4})\s+(.+)$`),
}

// NewFolder builds a Folder from a directory name, parsing any leading
// year prefix. Years outside 1900-2099 are treated as part of the title.
func NewFolder(name, path string) Folder {
	f := Folder{Name: name, Path: path, ParsedTitle: strings.TrimSpace(name)}
	for _, re := range yearPrefixes {
		m := re.FindStringSubmatch(f.ParsedTitle)
		if m == nil {
			continue
		}
		year, err := strconv.Atoi(m[1])
		if err != nil || year < 1900 || year > 2099 {
			continue
		}
		f.ParsedYear = year
		f.ParsedTitle = strings.TrimSpace(m[2])
		break
	}
	return f
}

// Valid reports whether the folder carries any usable title text.
func (f Folder) Valid() bool {
	return f.ParsedTitle != ""
}
