package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"

	"filmdesk/internal/imagefile"
	"filmdesk/internal/services"
)

// UploadPath is the image upload endpoint.
const UploadPath = "/upload/image"

// UploadFile posts file as the multipart part "image" to the upload endpoint
// and returns the raw JSON response.
func (c *Client) UploadFile(ctx context.Context, file *imagefile.File) (json.RawMessage, error) {
	if file == nil {
		return nil, services.Wrap(services.ErrValidation, "catalog", "upload image", "no file provided", nil)
	}
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writeFilePart(writer, PosterField, file); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}
	data, err := c.do(ctx, request{
		method:      http.MethodPost,
		url:         c.endpoint(UploadPath),
		path:        UploadPath,
		body:        &buf,
		contentType: writer.FormDataContentType(),
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}
