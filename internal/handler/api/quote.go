package api

import (
	"context"
	"errors"
	"net/http"

	reqdto "rfq-market/internal/handler/dto/request"
	resdto "rfq-market/internal/handler/dto/response"
	"rfq-market/internal/handler/httperr"
	"rfq-market/internal/handler/middleware"
	"rfq-market/internal/usecase/commands"
	"rfq-market/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type QuoteHandler struct {
	cmds commands.QuoteCommands
}

func NewQuoteHandler(cmds commands.QuoteCommands) *QuoteHandler {
	return &QuoteHandler{cmds: cmds}
}

// @Summary Submit quote
// @Description Submit a quote against an open RFQ and notify its client
// @Tags quotes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateQuoteRequest true "Create quote request"
// @Success 201 {object} resdto.QuoteResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /quotes [post]
func (h *QuoteHandler) Create(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errors.New("missing actor"), "Unauthorized", nil)
		return
	}
	var req reqdto.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.Create(c.Request.Context(), req, actor)
	if err != nil {
		h.abortQuoteError(c, err, "Submit quote failed")
		return
	}
	c.JSON(http.StatusCreated, quoteResponse(result))
}

// @Summary Accept quote
// @Description Accept a submitted quote; closes the RFQ and notifies the provider
// @Tags quotes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote ID"
// @Success 200 {object} resdto.QuoteResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /quotes/{id}/accept [post]
func (h *QuoteHandler) Accept(c *gin.Context) {
	h.transition(c, h.cmds.Accept, "Accept quote failed")
}

// @Summary Reject quote
// @Tags quotes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote ID"
// @Success 200 {object} resdto.QuoteResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /quotes/{id}/reject [post]
func (h *QuoteHandler) Reject(c *gin.Context) {
	h.transition(c, h.cmds.Reject, "Reject quote failed")
}

// @Summary Complete quote
// @Tags quotes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Quote ID"
// @Success 200 {object} resdto.QuoteResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /quotes/{id}/complete [post]
func (h *QuoteHandler) Complete(c *gin.Context) {
	h.transition(c, h.cmds.Complete, "Complete quote failed")
}

func (h *QuoteHandler) transition(
	c *gin.Context,
	op func(ctx context.Context, quoteID uuid.UUID, actor *queries.AuthorizedUserView) (*commands.QuoteResult, error),
	failMsg string,
) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errors.New("missing actor"), "Unauthorized", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}

	result, err := op(c.Request.Context(), id, actor)
	if err != nil {
		h.abortQuoteError(c, err, failMsg)
		return
	}
	c.JSON(http.StatusOK, quoteResponse(result))
}

func (h *QuoteHandler) abortQuoteError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, commands.ErrQuoteNotFound), errors.Is(err, commands.ErrRFQNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
	case errors.Is(err, commands.ErrRFQClosed), errors.Is(err, commands.ErrInvalidStatusChange):
		httperr.AbortWithError(c, http.StatusConflict, err, msg, nil)
	case errors.Is(err, commands.ErrNotRFQOwner),
		errors.Is(err, commands.ErrNotQuoteOwner),
		errors.Is(err, commands.ErrNoOrgMembership),
		errors.Is(err, commands.ErrProviderNotFound),
		errors.Is(err, commands.ErrProviderInactive),
		errors.Is(err, commands.ErrMarketMismatch):
		httperr.AbortWithError(c, http.StatusForbidden, err, msg, nil)
	case errors.Is(err, commands.ErrDomainValidation):
		httperr.AbortWithError(c, http.StatusBadRequest, err, msg, nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, msg, nil)
	}
}

func quoteResponse(result *commands.QuoteResult) *resdto.QuoteResponse {
	resp := resdto.FromQuoteView(result.Quote)
	if result.DispatchBatchID != uuid.Nil {
		resp.DispatchBatchID = &result.DispatchBatchID
	}
	return resp
}
