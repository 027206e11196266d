package api

import (
	"errors"
	"net/http"

	reqdto "rfq-market/internal/handler/dto/request"
	resdto "rfq-market/internal/handler/dto/response"
	"rfq-market/internal/handler/httperr"
	"rfq-market/internal/handler/middleware"
	"rfq-market/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DeclineHandler struct {
	cmds commands.DeclineCommands
}

func NewDeclineHandler(cmds commands.DeclineCommands) *DeclineHandler {
	return &DeclineHandler{cmds: cmds}
}

// @Summary Decline RFQ
// @Description Record a provider passing on an RFQ and notify its client
// @Tags declines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateDeclineRequest true "Create decline request"
// @Success 201 {object} resdto.DeclineResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /declines [post]
func (h *DeclineHandler) Create(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errors.New("missing actor"), "Unauthorized", nil)
		return
	}
	var req reqdto.CreateDeclineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.Create(c.Request.Context(), req, actor)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrRFQNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
		case errors.Is(err, commands.ErrRFQClosed):
			httperr.AbortWithError(c, http.StatusConflict, err, "RFQ is closed", nil)
		case errors.Is(err, commands.ErrProviderNotFound),
			errors.Is(err, commands.ErrProviderInactive),
			errors.Is(err, commands.ErrNoOrgMembership):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Decline failed", nil)
		case errors.Is(err, commands.ErrDomainValidation):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid decline", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Decline failed", nil)
		}
		return
	}

	resp := resdto.FromDeclineView(result.Decline)
	if result.DispatchBatchID != uuid.Nil {
		resp.DispatchBatchID = &result.DispatchBatchID
	}
	c.JSON(http.StatusCreated, resp)
}
