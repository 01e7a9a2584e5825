package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Work kinds as the API spells them.
const (
	KindFilm   = "film"
	KindSeries = "series"
)

// Work is a persisted catalog entry as returned by the API. Decoding is
// lenient: numbers may arrive as strings, cast entries as bare names, and
// image references as bare URLs.
type Work struct {
	ID                     string       `json:"_id,omitempty"`
	AltID                  FlexString   `json:"id,omitempty"`
	Type                   string       `json:"type"`
	NameArabic             string       `json:"nameArabic"`
	NameEnglish            string       `json:"nameEnglish"`
	Year                   FlexString   `json:"year"`
	Director               string       `json:"director"`
	DirectorImage          *ImageRef    `json:"directorImage,omitempty"`
	AssistantDirector      string       `json:"assistantDirector"`
	AssistantDirectorImage *ImageRef    `json:"assistantDirectorImage,omitempty"`
	Genre                  string       `json:"genre"`
	Cast                   []CastMember `json:"cast"`
	Country                string       `json:"country"`
	FilmingLocation        string       `json:"filmingLocation"`
	Summary                string       `json:"summary"`
	PosterURL              string       `json:"posterUrl"`
	SeasonsCount           FlexString   `json:"seasonsCount"`
	EpisodesCount          FlexString   `json:"episodesCount"`
	Platforms              []Platform   `json:"platforms"`
}

// Identifier returns the work id, preferring the database "_id" field.
func (w *Work) Identifier() string {
	if w == nil {
		return ""
	}
	if w.ID != "" {
		return w.ID
	}
	return string(w.AltID)
}

// Title returns the best display title.
func (w *Work) Title() string {
	if w == nil {
		return ""
	}
	if name := strings.TrimSpace(w.NameArabic); name != "" {
		return name
	}
	return strings.TrimSpace(w.NameEnglish)
}

// ImageRef is the nested {url} object used for portraits.
type ImageRef struct {
	URL string `json:"url"`
}

// UnmarshalJSON accepts either {"url": "..."} or a bare URL string.
func (r *ImageRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.URL)
	}
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	r.URL = obj.URL
	return nil
}

// URLOrEmpty returns the URL of a possibly nil reference.
func (r *ImageRef) URLOrEmpty() string {
	if r == nil {
		return ""
	}
	return r.URL
}

// CastMember is a cast entry. On the wire it is {name, image?: {url}}; stored
// entries may also be bare name strings.
type CastMember struct {
	Name  string    `json:"name"`
	Image *ImageRef `json:"image,omitempty"`
}

// UnmarshalJSON accepts either a bare name or {name, image}.
func (m *CastMember) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &m.Name)
	}
	type plain CastMember
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*m = CastMember(obj)
	return nil
}

// Platform is a streaming link for a work.
type Platform struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// FlexString decodes a JSON string or number into its string form.
type FlexString string

// UnmarshalJSON accepts strings, numbers, and null.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*f = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = FlexString(n.String())
		return nil
	}
}

// Payload is the normalized body sent on create and update.
type Payload struct {
	Type                   string       `json:"type"`
	NameArabic             string       `json:"nameArabic"`
	NameEnglish            string       `json:"nameEnglish"`
	Year                   int          `json:"year"`
	Director               string       `json:"director"`
	DirectorImage          *ImageRef    `json:"directorImage,omitempty"`
	AssistantDirector      string       `json:"assistantDirector"`
	AssistantDirectorImage *ImageRef    `json:"assistantDirectorImage,omitempty"`
	Genre                  string       `json:"genre"`
	Cast                   []CastMember `json:"cast"`
	Country                string       `json:"country"`
	FilmingLocation        string       `json:"filmingLocation"`
	Summary                string       `json:"summary"`
	PosterURL              string       `json:"posterUrl"`
	SeasonsCount           *int         `json:"seasonsCount,omitempty"`
	EpisodesCount          *int         `json:"episodesCount,omitempty"`
	Platforms              []Platform   `json:"platforms,omitempty"`
}

// Rating is the aggregate rating for one work.
type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Display renders the rating as "4.5 (12)".
func (r Rating) Display() string {
	return strconv.FormatFloat(r.Average, 'f', 1, 64) + " (" + strconv.Itoa(r.Count) + ")"
}
