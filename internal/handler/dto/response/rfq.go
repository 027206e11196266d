package response

import (
	"encoding/json"
	"time"

	"rfq-market/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type RFQResponse struct {
	ID              uuid.UUID       `json:"id"`
	MarketID        uuid.UUID       `json:"market_id"`
	ClientID        uuid.UUID       `json:"client_id"`
	Payload         json.RawMessage `json:"payload"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	DispatchBatchID *uuid.UUID      `json:"dispatch_batch_id,omitempty"`
}

func FromRFQView(v *queries.RFQView) *RFQResponse {
	var resp RFQResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

func FromRFQViews(views []queries.RFQView) []RFQResponse {
	result := make([]RFQResponse, 0, len(views))
	for i := range views {
		result = append(result, *FromRFQView(&views[i]))
	}
	return result
}
