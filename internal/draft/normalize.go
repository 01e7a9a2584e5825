package draft

import (
	"strings"

	"filmdesk/internal/catalog"
	"filmdesk/internal/messages"
)

// Fallbacks used when a numeric field does not parse.
const (
	DefaultYear     = 2000
	DefaultSeasons  = 1
	DefaultEpisodes = 1
)

// KindValue maps a kind label in any supported language, or an API kind, to
// the API enum. Anything that is not a film is a series.
func KindValue(label string) string {
	label = strings.TrimSpace(label)
	if strings.EqualFold(label, catalog.KindFilm) {
		return catalog.KindFilm
	}
	for _, film := range messages.Labels(messages.KindFilm) {
		if strings.EqualFold(label, film) {
			return catalog.KindFilm
		}
	}
	return catalog.KindSeries
}

// LeadingInt parses the optional sign and leading digits of s, ignoring
// surrounding whitespace and trailing text. It reports false when no digit
// is found.
func LeadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	sign := 1
	if s != "" && (s[0] == '+' || s[0] == '-') {
		if s[0] == '-' {
			sign = -1
		}
		s = s[1:]
	}
	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		digits++
		if digits > 9 {
			break
		}
	}
	if digits == 0 {
		return 0, false
	}
	return sign * n, true
}

// IntOr parses s with LeadingInt and returns fallback for unparsable or zero
// values.
func IntOr(s string, fallback int) int {
	n, ok := LeadingInt(s)
	if !ok || n == 0 {
		return fallback
	}
	return n
}

// Normalize builds the wire payload for d. Free text is trimmed; blank cast
// rows and incomplete platform rows are dropped; season and episode counts
// are only sent for series.
func Normalize(d Draft) catalog.Payload {
	payload := catalog.Payload{
		Type:              KindValue(d.Kind),
		NameArabic:        strings.TrimSpace(d.NameArabic),
		NameEnglish:       strings.TrimSpace(d.NameEnglish),
		Year:              IntOr(d.Year, DefaultYear),
		Director:          strings.TrimSpace(d.Director),
		AssistantDirector: strings.TrimSpace(d.AssistantDirector),
		Genre:             strings.TrimSpace(d.Genre),
		Country:           strings.TrimSpace(d.Country),
		FilmingLocation:   strings.TrimSpace(d.FilmingLocation),
		Summary:           strings.TrimSpace(d.Summary),
		PosterURL:         strings.TrimSpace(d.PosterURL),
		Cast:              []catalog.CastMember{},
	}
	payload.DirectorImage = imageRef(d.DirectorImageURL)
	payload.AssistantDirectorImage = imageRef(d.AssistantDirectorImageURL)

	for _, entry := range d.Cast {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			continue
		}
		payload.Cast = append(payload.Cast, catalog.CastMember{Name: name, Image: imageRef(entry.ImageURL)})
	}

	for _, entry := range d.Platforms {
		name, url := strings.TrimSpace(entry.Name), strings.TrimSpace(entry.URL)
		if name == "" || url == "" {
			continue
		}
		payload.Platforms = append(payload.Platforms, catalog.Platform{Name: name, URL: url})
	}

	if payload.Type == catalog.KindSeries {
		seasons := IntOr(d.SeasonsCount, DefaultSeasons)
		episodes := IntOr(d.EpisodesCount, DefaultEpisodes)
		payload.SeasonsCount = &seasons
		payload.EpisodesCount = &episodes
	}
	return payload
}

func imageRef(url string) *catalog.ImageRef {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	return &catalog.ImageRef{URL: url}
}
