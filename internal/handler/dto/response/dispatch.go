package response

import (
	"encoding/json"
	"time"

	"rfq-market/internal/domain/dispatch"

	"github.com/google/uuid"
)

type RequestSpecResponse struct {
	Method    string            `json:"method"`
	URL       string            `json:"url"`
	Headers   map[string]string `json:"headers,omitempty"`
	Body      json.RawMessage   `json:"body,omitempty"`
	TimeoutMs int64             `json:"timeout_ms"`
	EventKind string            `json:"event_kind"`
}

type FailureResponse struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
}

type DispatchRequestResponse struct {
	ID          uuid.UUID           `json:"id"`
	BatchID     uuid.UUID           `json:"batch_id"`
	TargetID    uuid.UUID           `json:"target_id"`
	Request     RequestSpecResponse `json:"request"`
	IsDelivered bool                `json:"is_delivered"`
	IsDead      bool                `json:"is_dead"`
	Error       *FailureResponse    `json:"error,omitempty"`
	DeliveredAt *time.Time          `json:"delivered_at,omitempty"`
	KilledAt    *time.Time          `json:"killed_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type BatchResponse struct {
	BatchID  uuid.UUID                 `json:"batch_id"`
	Requests []DispatchRequestResponse `json:"requests"`
}

type RetryResponse struct {
	TargetID uuid.UUID `json:"target_id"`
	Retried  int       `json:"retried"`
}

func FromDispatchRequest(rec *dispatch.Request) DispatchRequestResponse {
	resp := DispatchRequestResponse{
		ID:       rec.ID,
		BatchID:  rec.BatchID,
		TargetID: rec.TargetID,
		Request: RequestSpecResponse{
			Method:    rec.Spec.Method,
			URL:       rec.Spec.URL,
			Headers:   rec.Spec.Headers,
			Body:      rec.Spec.Body,
			TimeoutMs: rec.Spec.Timeout.Milliseconds(),
			EventKind: rec.Spec.EventKind,
		},
		IsDelivered: rec.IsDelivered,
		IsDead:      rec.IsDead,
		DeliveredAt: rec.DeliveredAt,
		KilledAt:    rec.KilledAt,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
	if !rec.Failure.IsZero() {
		resp.Error = &FailureResponse{
			Message:    rec.Failure.Message,
			StatusCode: rec.Failure.StatusCode,
		}
	}
	return resp
}

func FromBatch(batchID uuid.UUID, recs []*dispatch.Request) *BatchResponse {
	requests := make([]DispatchRequestResponse, 0, len(recs))
	for _, rec := range recs {
		requests = append(requests, FromDispatchRequest(rec))
	}
	return &BatchResponse{BatchID: batchID, Requests: requests}
}
