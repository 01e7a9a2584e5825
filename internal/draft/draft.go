package draft

import (
	"errors"
	"fmt"

	"filmdesk/internal/messages"
	"filmdesk/internal/services"
)

// ErrIndexOutOfRange reports a cast or platform index that does not exist.
var ErrIndexOutOfRange = fmt.Errorf("%w: index out of range", services.ErrValidation)

// ErrUnknownField reports a field name SetField does not recognize.
var ErrUnknownField = fmt.Errorf("%w: unknown field", services.ErrValidation)

// CastEntry is one editable cast row.
type CastEntry struct {
	Name     string `json:"name" toml:"name"`
	ImageURL string `json:"imageUrl" toml:"image_url"`
}

// PlatformEntry is one editable streaming link row.
type PlatformEntry struct {
	Name string `json:"name" toml:"name"`
	URL  string `json:"url" toml:"url"`
}

// Draft is the editing shape of a catalog entry. Numeric fields hold the raw
// text the operator typed; they are parsed by Normalize.
type Draft struct {
	// Kind is the localized kind label shown to the operator.
	Kind                      string          `json:"type"`
	NameArabic                string          `json:"nameArabic"`
	NameEnglish               string          `json:"nameEnglish"`
	Year                      string          `json:"year"`
	Director                  string          `json:"director"`
	DirectorImageURL          string          `json:"directorImageUrl"`
	AssistantDirector         string          `json:"assistantDirector"`
	AssistantDirectorImageURL string          `json:"assistantDirectorImageUrl"`
	Genre                     string          `json:"genre"`
	Cast                      []CastEntry     `json:"cast"`
	Country                   string          `json:"country"`
	FilmingLocation           string          `json:"filmingLocation"`
	Summary                   string          `json:"summary"`
	PosterURL                 string          `json:"posterUrl"`
	SeasonsCount              string          `json:"seasonsCount"`
	EpisodesCount             string          `json:"episodesCount"`
	Platforms                 []PlatformEntry `json:"platforms"`
}

// New returns the defaults of a fresh form: a film with one empty cast row
// and no platforms.
func New(text *messages.Catalog) Draft {
	return Draft{
		Kind:      text.Text(messages.KindFilm),
		Cast:      []CastEntry{{}},
		Platforms: []PlatformEntry{},
	}
}

func (d Draft) clone() Draft {
	next := d
	next.Cast = append([]CastEntry(nil), d.Cast...)
	next.Platforms = append([]PlatformEntry(nil), d.Platforms...)
	if next.Cast == nil {
		next.Cast = []CastEntry{}
	}
	if next.Platforms == nil {
		next.Platforms = []PlatformEntry{}
	}
	return next
}

// IsSeries reports whether the kind label maps to a series.
func (d Draft) IsSeries() bool {
	return KindValue(d.Kind) == "series"
}

func checkIndex(i, n int, what string) error {
	if i < 0 || i >= n {
		return fmt.Errorf("%w: %s %d (have %d)", ErrIndexOutOfRange, what, i, n)
	}
	return nil
}

// SetCastName replaces the name of cast entry i, keeping its image.
func (d Draft) SetCastName(i int, name string) (Draft, error) {
	if err := checkIndex(i, len(d.Cast), "cast"); err != nil {
		return d, err
	}
	next := d.clone()
	next.Cast[i].Name = name
	return next, nil
}

// SetCastImage replaces the image URL of cast entry i, keeping its name.
func (d Draft) SetCastImage(i int, url string) (Draft, error) {
	if err := checkIndex(i, len(d.Cast), "cast"); err != nil {
		return d, err
	}
	next := d.clone()
	next.Cast[i].ImageURL = url
	return next, nil
}

// AddCast appends an empty cast row.
func (d Draft) AddCast() Draft {
	next := d.clone()
	next.Cast = append(next.Cast, CastEntry{})
	return next
}

// RemoveCast drops cast entry i. The last remaining row is never removed.
func (d Draft) RemoveCast(i int) (Draft, error) {
	if err := checkIndex(i, len(d.Cast), "cast"); err != nil {
		return d, err
	}
	if len(d.Cast) <= 1 {
		return d.clone(), nil
	}
	next := d.clone()
	next.Cast = append(next.Cast[:i], next.Cast[i+1:]...)
	return next, nil
}

// AddPlatform appends a row for the first known platform with an empty URL.
func (d Draft) AddPlatform() Draft {
	next := d.clone()
	next.Platforms = append(next.Platforms, PlatformEntry{Name: messages.Platforms[0]})
	return next
}

// RemovePlatform drops platform row i. An empty list is allowed.
func (d Draft) RemovePlatform(i int) (Draft, error) {
	if err := checkIndex(i, len(d.Platforms), "platform"); err != nil {
		return d, err
	}
	next := d.clone()
	next.Platforms = append(next.Platforms[:i], next.Platforms[i+1:]...)
	return next, nil
}

// SetPlatformField sets "name" or "url" on platform row i.
func (d Draft) SetPlatformField(i int, key, value string) (Draft, error) {
	if err := checkIndex(i, len(d.Platforms), "platform"); err != nil {
		return d, err
	}
	next := d.clone()
	switch key {
	case "name":
		next.Platforms[i].Name = value
	case "url":
		next.Platforms[i].URL = value
	default:
		return d, fmt.Errorf("%w: platform %q", ErrUnknownField, key)
	}
	return next, nil
}

// IsIndexError reports whether err came from an out-of-range index.
func IsIndexError(err error) bool {
	return errors.Is(err, ErrIndexOutOfRange)
}
