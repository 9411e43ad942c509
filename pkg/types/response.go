// Package types holds the wire envelopes shared by handlers and tests.
package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public body of a failed request. RequestID echoes the
// X-Request-Id response header.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
