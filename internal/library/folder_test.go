package library

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewFolderYearParsing(t *testing.T) {
	tests := []struct {
		name      string
		wantYear  int
		wantTitle string
	}{
		{"1974 - Sheet Music", 1974, "Sheet Music"},
		{"1974- Sheet Music", 1974, "Sheet Music"},
		{"1974-Sheet Music", 1974, "Sheet Music"},
		{"(1974) Sheet Music", 1974, "Sheet Music"},
		{"1974 Sheet Music", 1974, "Sheet Music"},
		{"Sheet Music", 0, "Sheet Music"},
		{"2112", 0, "2112"},              // bare year with no title is a title
		{"0001 - Ancient", 0, "0001 - Ancient"}, // implausible year stays in title
		{"  trimmed  ", 0, "trimmed"},
		{"", 0, ""},
	}
	for _, tt := range tests {
		f := NewFolder(tt.name, "/lib/a/"+tt.name)
		if f.ParsedYear != tt.wantYear {
			t.Errorf("NewFolder(%q).ParsedYear = %d, want %d", tt.name, f.ParsedYear, tt.wantYear)
		}
		if f.ParsedTitle != tt.wantTitle {
			t.Errorf("NewFolder(%q).ParsedTitle = %q, want %q", tt.name, f.ParsedTitle, tt.wantTitle)
		}
		if f.Name != tt.name {
			t.Errorf("NewFolder(%q).Name = %q, raw name must be preserved", tt.name, f.Name)
		}
	}
}

func TestFolderValid(t *testing.T) {
	if NewFolder("   ", "/x").Valid() {
		t.Error("whitespace-only folder must be invalid")
	}
	if !NewFolder("10cc", "/x").Valid() {
		t.Error("normal folder must be valid")
	}
}

func TestEnumerate(t *testing.T) {
	root := t.TempDir()
	mkdir := func(parts ...string) {
		t.Helper()
		if err := os.MkdirAll(filepath.Join(append([]string{root}, parts...)...), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	mkdir("10cc", "1974 - Sheet Music")
	mkdir("10cc", "1975 - The Original Soundtrack")
	mkdir("Rush", "2112")
	mkdir(".hidden")
	mkdir("Rush", ".syncthing")
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	artists, err := Enumerate(root)
	if err != nil {
		t.Fatalf("Enumerate: %v", err)
	}
	if len(artists) != 2 {
		t.Fatalf("expected 2 artists, got %d", len(artists))
	}

	byName := map[string]ArtistDir{}
	for _, a := range artists {
		byName[a.Name] = a
	}

	tenCC, ok := byName["10cc"]
	if !ok {
		t.Fatal("missing artist 10cc")
	}
	if len(tenCC.Albums) != 2 {
		t.Fatalf("10cc: expected 2 albums, got %d", len(tenCC.Albums))
	}
	if tenCC.Albums[0].ParsedYear != 1974 || tenCC.Albums[0].ParsedTitle != "Sheet Music" {
		t.Errorf("unexpected first album: %+v", tenCC.Albums[0])
	}

	rush, ok := byName["Rush"]
	if !ok {
		t.Fatal("missing artist Rush")
	}
	if len(rush.Albums) != 1 {
		t.Fatalf("Rush: expected 1 album (hidden skipped), got %d", len(rush.Albums))
	}
}
