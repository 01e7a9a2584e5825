package upload

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"filmdesk/internal/imagefile"
	"filmdesk/internal/services"
)

// ErrNoImageURL is returned when an upload response carries no usable URL.
var ErrNoImageURL = errors.New("upload response has no image url")

// Extractor pulls a candidate URL out of a decoded upload response.
type Extractor struct {
	Name string
	Find func(map[string]any) string
}

func topLevel(key string) Extractor {
	return Extractor{Name: key, Find: func(doc map[string]any) string {
		return stringAt(doc, key)
	}}
}

func nested(parent, key string) Extractor {
	return Extractor{Name: parent + "." + key, Find: func(doc map[string]any) string {
		inner, ok := doc[parent].(map[string]any)
		if !ok {
			return ""
		}
		return stringAt(inner, key)
	}}
}

func stringAt(doc map[string]any, key string) string {
	value, ok := doc[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}

// DefaultExtractors is the precedence order for resolving the uploaded URL.
var DefaultExtractors = []Extractor{
	topLevel("secure_url"),
	topLevel("url"),
	topLevel("secureUrl"),
	nested("data", "secure_url"),
	nested("data", "url"),
	nested("data", "secureUrl"),
}

// ResolveURL returns the first non-empty URL found by extractors, in order.
func ResolveURL(raw json.RawMessage, extractors []Extractor) (string, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", services.Wrap(services.ErrTransport, "upload", "resolve url", "decode response", err)
	}
	for _, extractor := range extractors {
		if value := extractor.Find(doc); value != "" {
			return value, nil
		}
	}
	return "", services.Wrap(services.ErrTransport, "upload", "resolve url", "", ErrNoImageURL)
}

// Poster sends a file to the upload endpoint and returns the raw response.
type Poster interface {
	UploadFile(ctx context.Context, file *imagefile.File) (json.RawMessage, error)
}

// Client uploads images and resolves their public URL.
type Client struct {
	poster     Poster
	extractors []Extractor
}

// New creates an upload client on top of poster (normally *catalog.Client).
func New(poster Poster) *Client {
	return &Client{poster: poster, extractors: DefaultExtractors}
}

// UploadImage uploads file and returns its hosted URL.
func (c *Client) UploadImage(ctx context.Context, file *imagefile.File) (string, error) {
	if file == nil {
		return "", services.Wrap(services.ErrValidation, "upload", "upload image", "no file provided", nil)
	}
	raw, err := c.poster.UploadFile(ctx, file)
	if err != nil {
		return "", err
	}
	return ResolveURL(raw, c.extractors)
}
