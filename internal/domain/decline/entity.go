package decline

import (
	"time"

	"rfq-market/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidRFQID      = errs.New("rfq id must be a non-nil uuid")
	ErrInvalidProviderID = errs.New("provider id must be a non-nil uuid")
)

// Decline records a provider formally passing on an RFQ. It has no lifecycle:
// once created it never changes.
type Decline struct {
	ID         uuid.UUID
	RFQID      uuid.UUID
	ProviderID uuid.UUID
	Reason     string
	CreatedAt  time.Time
}

func New(rfqID, providerID uuid.UUID, reason string, now time.Time) (*Decline, error) {
	if rfqID == uuid.Nil {
		return nil, ErrInvalidRFQID
	}
	if providerID == uuid.Nil {
		return nil, ErrInvalidProviderID
	}

	return &Decline{
		ID:         uuid.New(),
		RFQID:      rfqID,
		ProviderID: providerID,
		Reason:     reason,
		CreatedAt:  now,
	}, nil
}
