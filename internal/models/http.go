// Package models defines the request and response data structures used
// for communication between the client and the URL shortener service.
package models

// ShortenRequest is the body of POST /shorten.
type ShortenRequest struct {
	// URL is the original URL to be shortened.
	URL string `json:"url"`

	// CustomAlias is an optional caller-chosen short code. Null, absent and
	// blank all mean "generate one".
	CustomAlias *string `json:"custom_alias"`
}

// ShortenResponse carries the issued short link.
type ShortenResponse struct {
	// ShortURL is the full link including the base URL.
	ShortURL string `json:"short_url"`

	// ShortCode is the last path segment of ShortURL.
	ShortCode string `json:"short_code"`

	// OriginalURL is the destination as stored.
	OriginalURL string `json:"original_url"`
}

// StatsResponse is the analytics view of a single link.
type StatsResponse struct {
	ShortCode   string `json:"short_code"`
	OriginalURL string `json:"original_url"`
	TotalClicks int64  `json:"total_clicks"`
	// CreatedAt is formatted as RFC 3339.
	CreatedAt string `json:"created_at"`
}

// ErrorResponse is returned with every 4xx and 5xx status.
type ErrorResponse struct {
	// Code is one of the stable error codes, e.g. "AliasTaken".
	Code string `json:"code"`

	// Detail is a human-readable explanation.
	Detail string `json:"detail"`
}

// InternalStats is the aggregate served to trusted networks.
type InternalStats struct {
	Links  int64 `json:"links"`
	Clicks int64 `json:"clicks"`
}
