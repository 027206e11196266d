package queries

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuthorizedUserView represents read-optimized user data with authorization info
type AuthorizedUserView struct {
	ID       uuid.UUID  `json:"id"`
	Email    string     `json:"email"`
	Role     string     `json:"role"`
	OrgID    *uuid.UUID `json:"org_id,omitempty"`
	IsActive bool       `json:"is_active"`
}

// ClientView represents read-optimized client organisation data
type ClientView struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	WebhookURL string    `json:"webhook_url"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProviderView represents read-optimized provider organisation data
type ProviderView struct {
	ID         uuid.UUID `json:"id"`
	MarketID   uuid.UUID `json:"market_id"`
	Name       string    `json:"name"`
	WebhookURL string    `json:"webhook_url"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// RFQView represents read-optimized request-for-quote data
type RFQView struct {
	ID        uuid.UUID       `json:"id"`
	MarketID  uuid.UUID       `json:"market_id"`
	ClientID  uuid.UUID       `json:"client_id"`
	Payload   json.RawMessage `json:"payload"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// QuoteView represents read-optimized quote data
type QuoteView struct {
	ID         uuid.UUID       `json:"id"`
	RFQID      uuid.UUID       `json:"rfq_id"`
	ProviderID uuid.UUID       `json:"provider_id"`
	Payload    json.RawMessage `json:"payload"`
	Status     string          `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// DeclineView represents read-optimized decline data
type DeclineView struct {
	ID         uuid.UUID `json:"id"`
	RFQID      uuid.UUID `json:"rfq_id"`
	ProviderID uuid.UUID `json:"provider_id"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}
