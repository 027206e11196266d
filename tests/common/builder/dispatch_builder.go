//go:build unit || e2e

package builder

import (
	"encoding/json"
	"time"

	"rfq-market/internal/domain/dispatch"

	"github.com/google/uuid"
)

type DispatchBuilder struct {
	BatchID   uuid.UUID
	TargetID  uuid.UUID
	Method    string
	URL       string
	Headers   map[string]string
	Body      json.RawMessage
	Timeout   time.Duration
	EventKind string
	Now       time.Time
}

func NewDispatchBuilder() *DispatchBuilder {
	return &DispatchBuilder{
		BatchID:   uuid.New(),
		TargetID:  uuid.New(),
		Method:    "POST",
		URL:       "https://hooks.example.com/events",
		Headers:   map[string]string{"Content-Type": "application/json"},
		Body:      json.RawMessage(`{"event":"rfq.created"}`),
		Timeout:   15 * time.Second,
		EventKind: dispatch.EventRFQCreated,
		Now:       time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func (b *DispatchBuilder) WithBatchID(id uuid.UUID) *DispatchBuilder {
	b.BatchID = id
	return b
}

func (b *DispatchBuilder) WithTargetID(id uuid.UUID) *DispatchBuilder {
	b.TargetID = id
	return b
}

func (b *DispatchBuilder) WithURL(url string) *DispatchBuilder {
	b.URL = url
	return b
}

func (b *DispatchBuilder) WithEventKind(kind string) *DispatchBuilder {
	b.EventKind = kind
	return b
}

func (b *DispatchBuilder) BuildSpec() dispatch.RequestSpec {
	return dispatch.RequestSpec{
		Method:    b.Method,
		URL:       b.URL,
		Headers:   b.Headers,
		Body:      b.Body,
		Timeout:   b.Timeout,
		EventKind: b.EventKind,
	}
}

func (b *DispatchBuilder) BuildDomain() (*dispatch.Request, error) {
	return dispatch.New(b.BatchID, b.TargetID, b.BuildSpec(), b.Now)
}
