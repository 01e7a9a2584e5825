// Package upload sends portrait and poster images to the catalog's upload
// endpoint and resolves the hosted URL from the response.
//
// The upload service has answered in several shapes over time, so the URL is
// found by trying an ordered list of extractors; the first non-empty value
// wins and ErrNoImageURL reports a response none of them understood.
package upload
