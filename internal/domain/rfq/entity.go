package rfq

import (
	"encoding/json"
	"time"

	"rfq-market/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidMarket = errs.New("rfq requires a market")
	ErrInvalidClient = errs.New("rfq requires a client")
	ErrEmptyPayload  = errs.New("rfq payload must not be empty")
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// RFQ is a request-for-quote raised by a client against a market. The
// payload is opaque to this service; per-market schema validation happens
// upstream.
type RFQ struct {
	ID        uuid.UUID
	MarketID  uuid.UUID
	ClientID  uuid.UUID
	Payload   json.RawMessage
	Status    Status
	CreatedAt time.Time
}

func New(marketID, clientID uuid.UUID, payload json.RawMessage, now time.Time) (*RFQ, error) {
	if marketID == uuid.Nil {
		return nil, ErrInvalidMarket
	}
	if clientID == uuid.Nil {
		return nil, ErrInvalidClient
	}
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}

	return &RFQ{
		ID:        uuid.New(),
		MarketID:  marketID,
		ClientID:  clientID,
		Payload:   payload,
		Status:    StatusOpen,
		CreatedAt: now,
	}, nil
}

// Close ends quoting on this RFQ. Accepting a quote closes its RFQ.
func (r *RFQ) Close() {
	r.Status = StatusClosed
}

func (r *RFQ) IsOpen() bool {
	return r.Status == StatusOpen
}
