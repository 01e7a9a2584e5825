package main

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadEntryScalarsKeepOnlyPresentKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "patch.toml"), `year = 1999
summary = ""
seasons_count = "3 seasons"
episodes_count = 30.0
`)
	entry, err := loadEntry(path)
	if err != nil {
		t.Fatalf("loadEntry: %v", err)
	}
	got, err := entry.scalars()
	if err != nil {
		t.Fatalf("scalars: %v", err)
	}
	want := [][2]string{
		{"summary", ""},
		{"year", "1999"},
		{"seasonsCount", "3 seasons"},
		{"episodesCount", "30"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("scalars = %v, want %v", got, want)
	}
	if entry.Cast != nil || entry.Platforms != nil {
		t.Fatal("absent arrays must stay nil so the draft keeps its rows")
	}
}

func TestLoadEntryRejectsWrongNumericType(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "bad.toml"), "year = true\n")
	entry, err := loadEntry(path)
	if err != nil {
		t.Fatalf("loadEntry: %v", err)
	}
	if _, err := entry.scalars(); err == nil {
		t.Fatal("expected error for boolean year")
	}
}

func TestEntryPathsResolveRelativeToFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "sub", "entry.toml"), `poster = "art/poster.png"
director_image = "/abs/director.png"

[[cast]]
name = "Ali"
image = "art/ali.png"
`)
	entry, err := loadEntry(path)
	if err != nil {
		t.Fatalf("loadEntry: %v", err)
	}
	if got := entry.posterPath(); got != filepath.Join(dir, "sub", "art", "poster.png") {
		t.Fatalf("posterPath = %q", got)
	}
	if got := entry.resolve(entry.DirectorImage); got != "/abs/director.png" {
		t.Fatalf("absolute path changed to %q", got)
	}
	if got := entry.resolve(entry.Cast[0].Image); got != filepath.Join(dir, "sub", "art", "ali.png") {
		t.Fatalf("cast image = %q", got)
	}
}

func TestDescendingRemovesDuplicates(t *testing.T) {
	got := descending([]int{0, 2, 2, 1})
	if want := []int{2, 1, 0}; !reflect.DeepEqual(got, want) {
		t.Fatalf("descending = %v, want %v", got, want)
	}
}

func TestMaskSecret(t *testing.T) {
	cases := map[string]string{
		"":                        "",
		"short":                   "********",
		"secret-token-value-1234": "secr****1234",
	}
	for in, want := range cases {
		if got := maskSecret(in); got != want {
			t.Errorf("maskSecret(%q) = %q, want %q", in, got, want)
		}
	}
}
