package models

// ErrorResponse is the wire shape for every handler failure. Detail is
// the field the chat widget reads; code and request_id aid debugging.
type ErrorResponse struct {
	Detail    string `json:"detail"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}
