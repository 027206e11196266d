package quote

import (
	"encoding/json"
	"time"

	"rfq-market/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidRFQ        = errs.New("quote requires an rfq")
	ErrInvalidProvider   = errs.New("quote requires a provider")
	ErrEmptyPayload      = errs.New("quote payload must not be empty")
	ErrInvalidTransition = errs.New("invalid quote status transition")
)

type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
)

// Quote is a provider's response to an RFQ.
type Quote struct {
	ID         uuid.UUID
	RFQID      uuid.UUID
	ProviderID uuid.UUID
	Payload    json.RawMessage
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func New(rfqID, providerID uuid.UUID, payload json.RawMessage, now time.Time) (*Quote, error) {
	if rfqID == uuid.Nil {
		return nil, ErrInvalidRFQ
	}
	if providerID == uuid.Nil {
		return nil, ErrInvalidProvider
	}
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}

	return &Quote{
		ID:         uuid.New(),
		RFQID:      rfqID,
		ProviderID: providerID,
		Payload:    payload,
		Status:     StatusSubmitted,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Transition moves the quote to the next status. Accepted/rejected only from
// submitted, completed only from accepted.
func (q *Quote) Transition(next Status, now time.Time) error {
	allowed := map[Status][]Status{
		StatusSubmitted: {StatusAccepted, StatusRejected},
		StatusAccepted:  {StatusCompleted},
	}

	for _, s := range allowed[q.Status] {
		if s == next {
			q.Status = next
			q.UpdatedAt = now
			return nil
		}
	}
	return ErrInvalidTransition
}
