package audit

import "time"

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Subject   string    `json:"subject"`
	ClientID  string    `json:"client_id"`
	Action    string    `json:"action"`
	RequestID string    `json:"request_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Actions recorded by the disclosure flow.
const (
	ActionRequest   = "request"
	ActionShare     = "share"
	ActionError     = "error"
	ActionAuthorize = "authorize"
)
