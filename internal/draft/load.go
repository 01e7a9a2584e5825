package draft

import (
	"strings"

	"filmdesk/internal/catalog"
	"filmdesk/internal/messages"
)

// IsEditID reports whether id selects edit mode. Empty ids and the literal
// "undefined" left behind by a broken link mean create mode.
func IsEditID(id string) bool {
	id = strings.TrimSpace(id)
	return id != "" && id != "undefined"
}

// FromWork maps a persisted work onto the editing shape. Missing optional
// fields become empty strings or empty lists; an empty cast gets one blank
// row so the form always has a slot to type into.
func FromWork(w *catalog.Work, text *messages.Catalog) Draft {
	kind := text.Text(messages.KindSeries)
	if w.Type == catalog.KindFilm {
		kind = text.Text(messages.KindFilm)
	}

	d := Draft{
		Kind:                      kind,
		NameArabic:                w.NameArabic,
		NameEnglish:               w.NameEnglish,
		Year:                      string(w.Year),
		Director:                  w.Director,
		DirectorImageURL:          w.DirectorImage.URLOrEmpty(),
		AssistantDirector:         w.AssistantDirector,
		AssistantDirectorImageURL: w.AssistantDirectorImage.URLOrEmpty(),
		Genre:                     w.Genre,
		Country:                   w.Country,
		FilmingLocation:           w.FilmingLocation,
		Summary:                   w.Summary,
		PosterURL:                 w.PosterURL,
		SeasonsCount:              string(w.SeasonsCount),
		EpisodesCount:             string(w.EpisodesCount),
		Cast:                      make([]CastEntry, 0, len(w.Cast)),
		Platforms:                 make([]PlatformEntry, 0, len(w.Platforms)),
	}
	for _, member := range w.Cast {
		d.Cast = append(d.Cast, CastEntry{Name: member.Name, ImageURL: member.Image.URLOrEmpty()})
	}
	if len(d.Cast) == 0 {
		d.Cast = append(d.Cast, CastEntry{})
	}
	for _, platform := range w.Platforms {
		d.Platforms = append(d.Platforms, PlatformEntry{Name: platform.Name, URL: platform.URL})
	}
	return d
}
