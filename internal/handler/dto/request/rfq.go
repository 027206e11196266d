package request

import (
	"encoding/json"

	"github.com/google/uuid"
)

type CreateRFQRequest struct {
	MarketID uuid.UUID       `json:"market_id" binding:"required"`
	Payload  json.RawMessage `json:"payload" binding:"required"`
}
