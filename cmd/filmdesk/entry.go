package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"filmdesk/internal/draft"
	"filmdesk/internal/form"
	"filmdesk/internal/imagefile"
)

// entryFile is a work described in TOML. Absent keys leave the draft
// untouched, so the same format serves new entries and edit patches. Local
// image paths are relative to the file.
type entryFile struct {
	Type                      *string `toml:"type"`
	NameArabic                *string `toml:"name_arabic"`
	NameEnglish               *string `toml:"name_english"`
	Year                      any     `toml:"year"`
	Director                  *string `toml:"director"`
	DirectorImageURL          *string `toml:"director_image_url"`
	DirectorImage             string  `toml:"director_image"`
	AssistantDirector         *string `toml:"assistant_director"`
	AssistantDirectorImageURL *string `toml:"assistant_director_image_url"`
	AssistantDirectorImage    string  `toml:"assistant_director_image"`
	Genre                     *string `toml:"genre"`
	Country                   *string `toml:"country"`
	FilmingLocation           *string `toml:"filming_location"`
	Summary                   *string `toml:"summary"`
	PosterURL                 *string `toml:"poster_url"`
	Poster                    string  `toml:"poster"`
	SeasonsCount              any     `toml:"seasons_count"`
	EpisodesCount             any     `toml:"episodes_count"`

	Cast      []entryCast     `toml:"cast"`
	Platforms []entryPlatform `toml:"platforms"`

	dir string
}

type entryCast struct {
	Name     string `toml:"name"`
	ImageURL string `toml:"image_url"`
	Image    string `toml:"image"`
}

type entryPlatform struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

// imageJob is a local image that must be uploaded once the draft is seeded.
type imageJob struct {
	target string
	index  int
	path   string
}

const (
	imageDirector  = "director"
	imageAssistant = "assistant"
	imageCast      = "cast"
)

func loadEntry(path string) (*entryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read entry: %w", err)
	}
	var entry entryFile
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&entry); err != nil {
		return nil, fmt.Errorf("parse entry %s: %w", path, err)
	}
	entry.dir = filepath.Dir(path)
	return &entry, nil
}

func (e *entryFile) scalars() ([][2]string, error) {
	text := []struct {
		field string
		value *string
	}{
		{"type", e.Type},
		{"nameArabic", e.NameArabic},
		{"nameEnglish", e.NameEnglish},
		{"director", e.Director},
		{"directorImageUrl", e.DirectorImageURL},
		{"assistantDirector", e.AssistantDirector},
		{"assistantDirectorImageUrl", e.AssistantDirectorImageURL},
		{"genre", e.Genre},
		{"country", e.Country},
		{"filmingLocation", e.FilmingLocation},
		{"summary", e.Summary},
		{"posterUrl", e.PosterURL},
	}
	numeric := []struct {
		field string
		value any
	}{
		{"year", e.Year},
		{"seasonsCount", e.SeasonsCount},
		{"episodesCount", e.EpisodesCount},
	}

	out := make([][2]string, 0, len(text)+len(numeric))
	for _, item := range text {
		if item.value != nil {
			out = append(out, [2]string{item.field, *item.value})
		}
	}
	for _, item := range numeric {
		value, ok, err := numericText(item.value)
		if err != nil {
			return nil, fmt.Errorf("entry field %s: %w", item.field, err)
		}
		if ok {
			out = append(out, [2]string{item.field, value})
		}
	}
	return out, nil
}

func numericText(value any) (string, bool, error) {
	switch v := value.(type) {
	case nil:
		return "", false, nil
	case string:
		return v, true, nil
	case int64:
		return strconv.FormatInt(v, 10), true, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true, nil
	default:
		return "", false, fmt.Errorf("expected a number or string, got %T", value)
	}
}

// apply seeds the controller's draft from the entry and returns the local
// images still to upload.
func (e *entryFile) apply(ctrl *form.Controller) ([]imageJob, error) {
	fields, err := e.scalars()
	if err != nil {
		return nil, err
	}
	for _, field := range fields {
		if err := ctrl.SetField(field[0], field[1]); err != nil {
			return nil, err
		}
	}

	var jobs []imageJob
	if e.Cast != nil {
		cast := make([]draft.CastEntry, 0, len(e.Cast))
		for i, member := range e.Cast {
			cast = append(cast, draft.CastEntry{Name: member.Name, ImageURL: member.ImageURL})
			if strings.TrimSpace(member.Image) != "" {
				jobs = append(jobs, imageJob{target: imageCast, index: i, path: e.resolve(member.Image)})
			}
		}
		if len(cast) == 0 {
			cast = append(cast, draft.CastEntry{})
		}
		err := ctrl.Update(func(d draft.Draft) (draft.Draft, error) {
			d.Cast = cast
			return d, nil
		})
		if err != nil {
			return nil, err
		}
	}
	if e.Platforms != nil {
		platforms := make([]draft.PlatformEntry, 0, len(e.Platforms))
		for _, platform := range e.Platforms {
			platforms = append(platforms, draft.PlatformEntry{Name: strings.ToLower(strings.TrimSpace(platform.Name)), URL: platform.URL})
		}
		err := ctrl.Update(func(d draft.Draft) (draft.Draft, error) {
			d.Platforms = platforms
			return d, nil
		})
		if err != nil {
			return nil, err
		}
	}

	if strings.TrimSpace(e.DirectorImage) != "" {
		jobs = append(jobs, imageJob{target: imageDirector, path: e.resolve(e.DirectorImage)})
	}
	if strings.TrimSpace(e.AssistantDirectorImage) != "" {
		jobs = append(jobs, imageJob{target: imageAssistant, path: e.resolve(e.AssistantDirectorImage)})
	}
	return jobs, nil
}

// posterPath returns the local poster file named by the entry, if any.
func (e *entryFile) posterPath() string {
	if strings.TrimSpace(e.Poster) == "" {
		return ""
	}
	return e.resolve(e.Poster)
}

func (e *entryFile) resolve(path string) string {
	path = strings.TrimSpace(path)
	if filepath.IsAbs(path) || e.dir == "" {
		return path
	}
	return filepath.Join(e.dir, path)
}

// startImageJobs opens each image and hands it to the controller's
// background uploads.
func startImageJobs(ctrl *form.Controller, jobs []imageJob) error {
	for _, job := range jobs {
		file, err := imagefile.Open(job.path)
		if err != nil {
			return err
		}
		switch job.target {
		case imageDirector:
			ctrl.UploadDirectorImage(file)
		case imageAssistant:
			ctrl.UploadAssistantDirectorImage(file)
		case imageCast:
			ctrl.UploadCastImage(job.index, file)
		default:
			return fmt.Errorf("unknown image target %q", job.target)
		}
	}
	return nil
}
