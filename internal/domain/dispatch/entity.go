package dispatch

import (
	"time"

	"rfq-market/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidBatchID  = errs.New("batch id must be a non-nil uuid")
	ErrInvalidTargetID = errs.New("target id must be a non-nil uuid")
	ErrEmptyURL        = errs.New("request spec url must not be empty")
)

// Request is the durable record of one attempted webhook delivery to one
// target. BatchID correlates every record produced by a single SendBatch
// call; TargetID names the recipient organisation.
//
// A record is optimistically considered delivered from the moment it is
// constructed and only flips to dead when an attempt actually fails. Spec,
// BatchID and TargetID are immutable after construction; only the outcome
// fields mutate, and only by the goroutine that owns the attempt.
type Request struct {
	ID       uuid.UUID
	BatchID  uuid.UUID
	TargetID uuid.UUID
	Spec     RequestSpec

	IsDelivered bool
	IsDead      bool
	Failure     Failure
	DeliveredAt *time.Time
	KilledAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// New constructs a Request with a fresh id and the optimistic delivered
// outcome pre-set.
func New(batchID, targetID uuid.UUID, spec RequestSpec, now time.Time) (*Request, error) {
	if batchID == uuid.Nil {
		return nil, ErrInvalidBatchID
	}
	if targetID == uuid.Nil {
		return nil, ErrInvalidTargetID
	}
	if spec.URL == "" {
		return nil, ErrEmptyURL
	}

	delivered := now
	return &Request{
		ID:          uuid.New(),
		BatchID:     batchID,
		TargetID:    targetID,
		Spec:        spec,
		IsDelivered: true,
		IsDead:      false,
		DeliveredAt: &delivered,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// MarkDead flips the record into its terminal failure state. Calling it on a
// record that is already dead overwrites the captured failure, which is what
// a failed retry attempt does.
func (r *Request) MarkDead(failure Failure, now time.Time) {
	killed := now
	r.IsDead = true
	r.IsDelivered = false
	r.Failure = failure
	r.KilledAt = &killed
	r.DeliveredAt = nil
	r.UpdatedAt = now
}
