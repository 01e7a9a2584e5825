package draft

import (
	"fmt"
	"sort"
)

// scalarFields maps the API field names onto the draft's scalar fields.
var scalarFields = map[string]func(*Draft) *string{
	"type":                      func(d *Draft) *string { return &d.Kind },
	"nameArabic":                func(d *Draft) *string { return &d.NameArabic },
	"nameEnglish":               func(d *Draft) *string { return &d.NameEnglish },
	"year":                      func(d *Draft) *string { return &d.Year },
	"director":                  func(d *Draft) *string { return &d.Director },
	"directorImageUrl":          func(d *Draft) *string { return &d.DirectorImageURL },
	"assistantDirector":         func(d *Draft) *string { return &d.AssistantDirector },
	"assistantDirectorImageUrl": func(d *Draft) *string { return &d.AssistantDirectorImageURL },
	"genre":                     func(d *Draft) *string { return &d.Genre },
	"country":                   func(d *Draft) *string { return &d.Country },
	"filmingLocation":           func(d *Draft) *string { return &d.FilmingLocation },
	"summary":                   func(d *Draft) *string { return &d.Summary },
	"posterUrl":                 func(d *Draft) *string { return &d.PosterURL },
	"seasonsCount":              func(d *Draft) *string { return &d.SeasonsCount },
	"episodesCount":             func(d *Draft) *string { return &d.EpisodesCount },
}

// Fields lists the names accepted by SetField.
func Fields() []string {
	names := make([]string, 0, len(scalarFields))
	for name := range scalarFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetField replaces one scalar field by its API name.
func (d Draft) SetField(name, value string) (Draft, error) {
	field, ok := scalarFields[name]
	if !ok {
		return d, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	next := d.clone()
	*field(&next) = value
	return next, nil
}

// Field reads one scalar field by its API name.
func (d Draft) Field(name string) (string, bool) {
	field, ok := scalarFields[name]
	if !ok {
		return "", false
	}
	return *field(&d), true
}
