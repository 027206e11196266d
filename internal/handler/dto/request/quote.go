package request

import (
	"encoding/json"

	"github.com/google/uuid"
)

type CreateQuoteRequest struct {
	RFQID   uuid.UUID       `json:"rfq_id" binding:"required"`
	Payload json.RawMessage `json:"payload" binding:"required"`
}
