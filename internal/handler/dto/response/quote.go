package response

import (
	"encoding/json"
	"time"

	"rfq-market/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type QuoteResponse struct {
	ID              uuid.UUID       `json:"id"`
	RFQID           uuid.UUID       `json:"rfq_id"`
	ProviderID      uuid.UUID       `json:"provider_id"`
	Payload         json.RawMessage `json:"payload"`
	Status          string          `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DispatchBatchID *uuid.UUID      `json:"dispatch_batch_id,omitempty"`
}

func FromQuoteView(v *queries.QuoteView) *QuoteResponse {
	var resp QuoteResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

func FromQuoteViews(views []queries.QuoteView) []QuoteResponse {
	result := make([]QuoteResponse, 0, len(views))
	for i := range views {
		result = append(result, *FromQuoteView(&views[i]))
	}
	return result
}
