package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strconv"

	"filmdesk/internal/imagefile"
)

// PosterField is the multipart part name carrying the poster bytes.
const PosterField = "image"

// EncodeMultipart renders payload as multipart/form-data with the poster file.
// Scalars are sent as plain parts, nested values as JSON strings. posterUrl is
// omitted because the file supersedes it.
func EncodeMultipart(payload *Payload, poster *imagefile.File) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := []struct {
		name  string
		value string
	}{
		{"type", payload.Type},
		{"nameArabic", payload.NameArabic},
		{"nameEnglish", payload.NameEnglish},
		{"year", strconv.Itoa(payload.Year)},
		{"director", payload.Director},
		{"assistantDirector", payload.AssistantDirector},
		{"genre", payload.Genre},
	}
	for _, field := range fields {
		if err := writer.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("write %s: %w", field.name, err)
		}
	}
	cast := payload.Cast
	if cast == nil {
		cast = []CastMember{}
	}
	if err := writeJSONField(writer, "cast", cast); err != nil {
		return nil, "", err
	}
	for _, field := range []struct {
		name  string
		value string
	}{
		{"country", payload.Country},
		{"filmingLocation", payload.FilmingLocation},
		{"summary", payload.Summary},
	} {
		if err := writer.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("write %s: %w", field.name, err)
		}
	}
	if payload.DirectorImage != nil {
		if err := writeJSONField(writer, "directorImage", payload.DirectorImage); err != nil {
			return nil, "", err
		}
	}
	if payload.AssistantDirectorImage != nil {
		if err := writeJSONField(writer, "assistantDirectorImage", payload.AssistantDirectorImage); err != nil {
			return nil, "", err
		}
	}
	if len(payload.Platforms) > 0 {
		if err := writeJSONField(writer, "platforms", payload.Platforms); err != nil {
			return nil, "", err
		}
	}
	if payload.SeasonsCount != nil {
		if err := writer.WriteField("seasonsCount", strconv.Itoa(*payload.SeasonsCount)); err != nil {
			return nil, "", fmt.Errorf("write seasonsCount: %w", err)
		}
	}
	if payload.EpisodesCount != nil {
		if err := writer.WriteField("episodesCount", strconv.Itoa(*payload.EpisodesCount)); err != nil {
			return nil, "", fmt.Errorf("write episodesCount: %w", err)
		}
	}
	if err := writeFilePart(writer, PosterField, poster); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

func writeJSONField(writer *multipart.Writer, name string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := writer.WriteField(name, string(data)); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func writeFilePart(writer *multipart.Writer, field string, file *imagefile.File) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", multipart.FileContentDisposition(field, file.Name))
	header.Set("Content-Type", file.ContentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create %s part: %w", field, err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return fmt.Errorf("write %s part: %w", field, err)
	}
	return nil
}
