package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is the wire version of the response envelope. Bump only
// when the envelope structure itself changes, never for payload changes.
const envelopeVersion = 1

// Envelope is the uniform response wrapper every endpoint returns.
// Success responses carry Data; error responses carry Error plus the
// machine-readable Code/Message/Details triple.
type Envelope struct {
	V       int    `json:"v" doc:"Envelope version"`
	Success bool   `json:"success" doc:"Whether the request succeeded"`
	Data    any    `json:"data,omitempty" doc:"Response payload"`
	Error   string `json:"error,omitempty" doc:"Human-readable error message"`
	Code    string `json:"code,omitempty" doc:"Machine-readable error code"`
	Message string `json:"message,omitempty" doc:"Detailed error message"`
	Details any    `json:"details,omitempty" doc:"Additional error details"`
}

// EnvelopeTransformer wraps every response body in the Envelope. Registered
// as a huma transformer so handlers return bare payloads.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	// Already wrapped (e.g. by a nested transformer pass).
	if _, ok := v.(*Envelope); ok {
		return v, nil
	}

	if strings.HasPrefix(status, "2") {
		return &Envelope{
			V:       envelopeVersion,
			Success: true,
			Data:    v,
		}, nil
	}

	env := &Envelope{
		V:       envelopeVersion,
		Success: false,
	}

	switch e := v.(type) {
	case *APIError:
		env.Error = e.Message
		env.Code = e.Code
		env.Message = e.Message
		env.Details = e.Details
	case error:
		env.Error = e.Error()
	default:
		env.Data = v
	}

	return env, nil
}
