package draft

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"filmdesk/internal/services"
)

// Accepted year range for numeric years.
const (
	MinYear = 1800
	MaxYear = 3000
)

// ValidationError lists the fields that block a submission.
type ValidationError struct {
	// Missing holds the API names of required fields left empty.
	Missing []string
	// YearOutOfRange is set when the year parsed but falls outside
	// [MinYear, MaxYear].
	YearOutOfRange bool
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if e.YearOutOfRange {
		parts = append(parts, fmt.Sprintf("year must be between %d and %d", MinYear, MaxYear))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return services.ErrValidation
}

// submitView is the trimmed projection of a draft that must satisfy the
// required-field contract.
type submitView struct {
	NameArabic        string   `json:"nameArabic" validate:"required"`
	NameEnglish       string   `json:"nameEnglish" validate:"required"`
	Year              string   `json:"year" validate:"required"`
	YearNumber        int      `json:"-" validate:"omitempty,min=1800,max=3000"`
	Director          string   `json:"director" validate:"required"`
	AssistantDirector string   `json:"assistantDirector" validate:"required"`
	Genre             string   `json:"genre" validate:"required"`
	CastNames         []string `json:"cast" validate:"min=1"`
	Country           string   `json:"country" validate:"required"`
	FilmingLocation   string   `json:"filmingLocation" validate:"required"`
	Summary           string   `json:"summary" validate:"required"`
	HasPosterFile     bool     `json:"-"`
	PosterURL         string   `json:"posterUrl" validate:"required_without=HasPosterFile"`
	Series            bool     `json:"-"`
	SeasonsCount      string   `json:"seasonsCount" validate:"required_if=Series true"`
	EpisodesCount     string   `json:"episodesCount" validate:"required_if=Series true"`
}

var sharedValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return field.Name
		}
		return name
	})
	return v
})

func newSubmitView(d Draft, hasPosterFile bool) submitView {
	view := submitView{
		NameArabic:        strings.TrimSpace(d.NameArabic),
		NameEnglish:       strings.TrimSpace(d.NameEnglish),
		Year:              strings.TrimSpace(d.Year),
		Director:          strings.TrimSpace(d.Director),
		AssistantDirector: strings.TrimSpace(d.AssistantDirector),
		Genre:             strings.TrimSpace(d.Genre),
		Country:           strings.TrimSpace(d.Country),
		FilmingLocation:   strings.TrimSpace(d.FilmingLocation),
		Summary:           strings.TrimSpace(d.Summary),
		HasPosterFile:     hasPosterFile,
		PosterURL:         strings.TrimSpace(d.PosterURL),
		Series:            d.IsSeries(),
		SeasonsCount:      strings.TrimSpace(d.SeasonsCount),
		EpisodesCount:     strings.TrimSpace(d.EpisodesCount),
	}
	if n, ok := LeadingInt(view.Year); ok {
		view.YearNumber = n
	}
	for _, entry := range d.Cast {
		if name := strings.TrimSpace(entry.Name); name != "" {
			view.CastNames = append(view.CastNames, name)
		}
	}
	return view
}

// Validate checks the required-field contract. hasPosterFile waives the
// poster URL requirement. It returns a *ValidationError or nil.
func Validate(d Draft, hasPosterFile bool) error {
	err := sharedValidator().Struct(newSubmitView(d, hasPosterFile))
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return services.Wrap(services.ErrValidation, "draft", "validate", "", err)
	}
	result := &ValidationError{}
	for _, fe := range fieldErrs {
		if fe.StructField() == "YearNumber" {
			result.YearOutOfRange = true
			continue
		}
		result.Missing = append(result.Missing, fe.Field())
	}
	return result
}
