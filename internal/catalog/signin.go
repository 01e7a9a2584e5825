package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// SigninResponse is the success body of the sign-in endpoint.
type SigninResponse struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user,omitempty"`
}

// SignIn posts {email, password} to signinURL, an absolute URL that may live
// outside the API root. Non-2xx responses return an *APIError.
func (c *Client) SignIn(ctx context.Context, signinURL, email, password string) (*SigninResponse, error) {
	path := signinURL
	if parsed, err := url.Parse(signinURL); err == nil {
		path = parsed.Path
	}
	body := map[string]string{"email": email, "password": password}
	data, err := c.do(ctx, request{method: http.MethodPost, url: signinURL, path: path, jsonBody: body})
	if err != nil {
		return nil, err
	}
	var resp SigninResponse
	if err := decodeInto(http.MethodPost, path, data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
