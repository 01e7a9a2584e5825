package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"filmdesk/internal/imagefile"
	"filmdesk/internal/services"
)

// GetWork fetches a work by id. A 404 or a null body yields an error
// matching services.ErrNotFound.
func (c *Client) GetWork(ctx context.Context, id string) (*Work, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, services.Wrap(services.ErrValidation, "catalog", "get work", "id required", nil)
	}
	path := "/works/" + url.PathEscape(id)
	data, err := c.do(ctx, request{method: http.MethodGet, url: c.endpoint(path), path: path})
	if err != nil {
		return nil, err
	}
	raw := unwrapEnvelope(data, "data", "work")
	if isNull(raw) {
		return nil, services.Wrap(services.ErrNotFound, "catalog", "get work", id, errNoWork)
	}
	var work Work
	if err := json.Unmarshal(raw, &work); err != nil {
		return nil, services.Wrap(services.ErrTransport, "catalog", "get work", "decode response", err)
	}
	return &work, nil
}

// CreateWork posts a JSON payload to /works.
func (c *Client) CreateWork(ctx context.Context, payload *Payload) (*Work, error) {
	return c.sendJSON(ctx, http.MethodPost, "/works", payload)
}

// UpdateWork puts a JSON payload to /works/{id}.
func (c *Client) UpdateWork(ctx context.Context, id string, payload *Payload) (*Work, error) {
	return c.sendJSON(ctx, http.MethodPut, "/works/"+url.PathEscape(id), payload)
}

// CreateWorkWithImage posts a multipart payload with the poster file to
// /works/with-image.
func (c *Client) CreateWorkWithImage(ctx context.Context, payload *Payload, poster *imagefile.File) (*Work, error) {
	return c.sendMultipart(ctx, http.MethodPost, "/works/with-image", payload, poster)
}

// UpdateWorkWithImage puts a multipart payload with the poster file to
// /works/{id}/with-image.
func (c *Client) UpdateWorkWithImage(ctx context.Context, id string, payload *Payload, poster *imagefile.File) (*Work, error) {
	return c.sendMultipart(ctx, http.MethodPut, "/works/"+url.PathEscape(id)+"/with-image", payload, poster)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload *Payload) (*Work, error) {
	if payload == nil {
		return nil, services.Wrap(services.ErrValidation, "catalog", method+" "+path, "payload required", nil)
	}
	data, err := c.do(ctx, request{method: method, url: c.endpoint(path), path: path, jsonBody: payload})
	if err != nil {
		return nil, err
	}
	return decodeSavedWork(data), nil
}

func (c *Client) sendMultipart(ctx context.Context, method, path string, payload *Payload, poster *imagefile.File) (*Work, error) {
	if payload == nil || poster == nil {
		return nil, services.Wrap(services.ErrValidation, "catalog", method+" "+path, "payload and poster required", nil)
	}
	body, contentType, err := EncodeMultipart(payload, poster)
	if err != nil {
		return nil, err
	}
	data, err := c.do(ctx, request{method: method, url: c.endpoint(path), path: path, body: body, contentType: contentType})
	if err != nil {
		return nil, err
	}
	return decodeSavedWork(data), nil
}

// decodeSavedWork extracts the saved work from a create/update response. The
// response shape is not part of the contract, so anything unparsable yields nil.
func decodeSavedWork(data []byte) *Work {
	raw := unwrapEnvelope(data, "data", "work")
	if isNull(raw) || raw[0] != '{' {
		return nil
	}
	var work Work
	if err := json.Unmarshal(raw, &work); err != nil {
		return nil
	}
	return &work
}
