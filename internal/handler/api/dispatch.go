package api

import (
	"errors"
	"net/http"

	reqdto "rfq-market/internal/handler/dto/request"
	resdto "rfq-market/internal/handler/dto/response"
	"rfq-market/internal/handler/httperr"
	usecasedispatch "rfq-market/internal/usecase/dispatch"
	"rfq-market/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DispatchHandler struct {
	uc usecasedispatch.UseCase
	q  queries.DispatchQueries
}

func NewDispatchHandler(uc usecasedispatch.UseCase, q queries.DispatchQueries) *DispatchHandler {
	return &DispatchHandler{uc: uc, q: q}
}

// @Summary Get dispatch batch
// @Description Return every delivery record created by one dispatch batch
// @Tags dispatches
// @Produce json
// @Security BearerAuth
// @Param id path string true "Batch ID"
// @Success 200 {object} resdto.BatchResponse
// @Failure 404 {object} map[string]string
// @Router /dispatches/batches/{id} [get]
func (h *DispatchHandler) GetBatch(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	recs, err := h.uc.GetBatch(c.Request.Context(), batchID)
	if err != nil {
		if errors.Is(err, usecasedispatch.ErrInvalidBatchID) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
			return
		}
		if errors.Is(err, usecasedispatch.ErrBatchNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Get batch failed", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBatch(batchID, recs))
}

// @Summary Get delivery record
// @Tags dispatches
// @Produce json
// @Security BearerAuth
// @Param id path string true "Delivery record ID"
// @Success 200 {object} resdto.DispatchRequestResponse
// @Failure 404 {object} map[string]string
// @Router /dispatches/requests/{id} [get]
func (h *DispatchHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	rec, err := h.uc.GetRequest(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, usecasedispatch.ErrRequestNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Get delivery record failed", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromDispatchRequest(rec))
}

// @Summary List delivery records
// @Description Filterable listing of delivery records for operators
// @Tags dispatches
// @Produce json
// @Security BearerAuth
// @Param batch_id query string false "Batch ID"
// @Param target_id query string false "Target ID"
// @Param only_dead query bool false "Only failed records"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} resdto.DispatchRequestResponse
// @Failure 400 {object} map[string]string
// @Router /dispatches [get]
func (h *DispatchHandler) List(c *gin.Context) {
	var q reqdto.ListDispatchesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}

	recs, err := h.q.List(c.Request.Context(), queries.DispatchFilter{
		BatchID:  q.BatchID,
		TargetID: q.TargetID,
		OnlyDead: q.OnlyDead,
	}, q.Limit, q.Offset)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "List delivery records failed", nil)
		return
	}

	result := make([]resdto.DispatchRequestResponse, 0, len(recs))
	for _, rec := range recs {
		result = append(result, resdto.FromDispatchRequest(rec))
	}
	c.JSON(http.StatusOK, result)
}

// @Summary Retry dead deliveries for a target
// @Description Re-attempt every failed delivery held against one target
// @Tags dispatches
// @Produce json
// @Security BearerAuth
// @Param id path string true "Target ID"
// @Success 202 {object} resdto.RetryResponse
// @Failure 400 {object} map[string]string
// @Router /dispatches/targets/{id}/retry [post]
func (h *DispatchHandler) Retry(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	recs, err := h.uc.RetryForTarget(c.Request.Context(), targetID, nil)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Retry failed", nil)
		return
	}

	c.JSON(http.StatusAccepted, resdto.RetryResponse{
		TargetID: targetID,
		Retried:  len(recs),
	})
}
