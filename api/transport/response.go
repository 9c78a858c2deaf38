package transport

import "encoding/json"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope wraps every API response. Error carries a human readable message; Code the domain error code.
type Envelope struct {
	Status string `json:"status"`
	Code   string `json:"code,omitempty"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
	Meta   *Meta  `json:"meta,omitempty"`
}

// Meta is optional response metadata.
type Meta struct {
	RequestID string `json:"request_id,omitempty"`
	Details   any    `json:"details,omitempty"`
}

func NewSuccess(data any) Envelope {
	return Envelope{Status: StatusSuccess, Data: data}
}

func NewError(code, message string) Envelope {
	return Envelope{Status: StatusError, Code: code, Error: message}
}

// WithDetails attaches structured context, e.g. the dependency status of a degraded health check.
func (e Envelope) WithDetails(details any) Envelope {
	e.Meta = e.meta()
	e.Meta.Details = details
	return e
}

// WithRequestID stamps the envelope with the request id; empty ids are ignored.
func (e Envelope) WithRequestID(id string) Envelope {
	if id == "" {
		return e
	}
	e.Meta = e.meta()
	e.Meta.RequestID = id
	return e
}

func (e Envelope) meta() *Meta {
	if e.Meta == nil {
		return &Meta{}
	}
	m := *e.Meta
	return &m
}

// String returns the JSON form for writing bodies outside the handlers.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
