// Package catalog is the HTTP client for the film/series catalog REST API.
//
// It covers work CRUD in both JSON and multipart form (the latter carrying a
// poster file under the "image" part), the image upload endpoint, sign-in,
// and the browse endpoints for latest works and average ratings. Requests
// carry a bearer token from a TokenSource, an X-Request-ID, and are paced by a
// token-bucket limiter. Non-2xx responses surface as *APIError, which unwraps
// to the services error markers.
package catalog
