// Package api - API types
// Success bodies are the reports from core/output; the types here cover
// errors and service metadata.
package api

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody describes a failure without internal detail
type ErrorBody struct {
	// Code is the error type, e.g. INVALID_INPUT or INFEASIBLE
	Code string `json:"code"`

	// Message is a human-readable description
	Message string `json:"message"`

	// RequestID correlates the response with server logs
	RequestID string `json:"request_id,omitempty"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Time    string `json:"time"`
}

// VersionResponse is the body of GET /version
type VersionResponse struct {
	Version    string `json:"version"`
	Engine     string `json:"engine"`
	APIVersion string `json:"api_version"`
}
