package dispatch

import (
	"encoding/json"
	"time"
)

// Event kinds carried on outbound webhook specs. EventDeliveryFailed marks
// secondary notifications emitted when a primary delivery dies; the engine
// never invokes the failure callback for these, which breaks the
// failure-notifying-failure cascade.
const (
	EventRFQCreated     = "rfq.created"
	EventQuoteCreated   = "quote.created"
	EventQuoteAccepted  = "quote.accepted"
	EventQuoteRejected  = "quote.rejected"
	EventQuoteCompleted = "quote.completed"
	EventDeclineCreated = "decline.created"
	EventDeliveryFailed = "delivery.failed"
)

// RequestSpec is the fully-resolved outbound HTTP call for one target.
// It is frozen at construction and persisted verbatim with the record.
type RequestSpec struct {
	Method    string            `json:"method"`
	URL       string            `json:"url"`
	Headers   map[string]string `json:"headers,omitempty"`
	Body      json.RawMessage   `json:"body,omitempty"`
	Timeout   time.Duration     `json:"timeout"`
	EventKind string            `json:"event_kind"`
}

// Failure is the structured error captured on a dead record. A delivered
// record carries the zero value, persisted as an empty JSON object.
type Failure struct {
	Message    string `json:"message,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
}

func (f Failure) IsZero() bool {
	return f.Message == "" && f.StatusCode == 0
}
