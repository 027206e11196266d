package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "rfq-market/internal/handler/dto/request"
	resdto "rfq-market/internal/handler/dto/response"
	"rfq-market/internal/handler/httperr"
	"rfq-market/internal/handler/middleware"
	"rfq-market/internal/usecase/commands"
	"rfq-market/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RFQHandler struct {
	cmds commands.RFQCommands
	q    queries.RFQQueries
}

func NewRFQHandler(cmds commands.RFQCommands, q queries.RFQQueries) *RFQHandler {
	return &RFQHandler{cmds: cmds, q: q}
}

// @Summary Create RFQ
// @Description Raise a request-for-quote and notify every active provider in the market
// @Tags rfqs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateRFQRequest true "Create RFQ request"
// @Success 201 {object} resdto.RFQResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /rfqs [post]
func (h *RFQHandler) Create(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errors.New("missing actor"), "Unauthorized", nil)
		return
	}
	var req reqdto.CreateRFQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.Create(c.Request.Context(), req, actor)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrClientNotFound), errors.Is(err, commands.ErrNoOrgMembership):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Not a client organisation member", nil)
		case errors.Is(err, commands.ErrClientInactive):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Client is inactive", nil)
		case errors.Is(err, commands.ErrDomainValidation):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid RFQ", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Create RFQ failed", nil)
		}
		return
	}

	resp := resdto.FromRFQView(result.RFQ)
	if result.DispatchBatchID != uuid.Nil {
		resp.DispatchBatchID = &result.DispatchBatchID
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary Get RFQ
// @Description Get an RFQ by ID
// @Tags rfqs
// @Produce json
// @Security BearerAuth
// @Param id path string true "RFQ ID"
// @Success 200 {object} resdto.RFQResponse
// @Failure 404 {object} map[string]string
// @Router /rfqs/{id} [get]
func (h *RFQHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	view, err := h.q.GetRFQ(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, queries.ErrRFQNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Get RFQ failed", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromRFQView(view))
}

// @Summary List RFQs
// @Description List RFQs for a market
// @Tags rfqs
// @Produce json
// @Security BearerAuth
// @Param market_id query string true "Market ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} resdto.RFQResponse
// @Failure 400 {object} map[string]string
// @Router /rfqs [get]
func (h *RFQHandler) List(c *gin.Context) {
	marketID, err := uuid.Parse(c.Query("market_id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid market_id", nil)
		return
	}
	limit := parseIntQuery(c, "limit", 50)
	offset := parseIntQuery(c, "offset", 0)

	views, err := h.q.ListByMarket(c.Request.Context(), marketID, limit, offset)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "List RFQs failed", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromRFQViews(views))
}

// @Summary List quotes of an RFQ
// @Tags rfqs
// @Produce json
// @Security BearerAuth
// @Param id path string true "RFQ ID"
// @Success 200 {array} resdto.QuoteResponse
// @Router /rfqs/{id}/quotes [get]
func (h *RFQHandler) ListQuotes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	views, err := h.q.ListQuotes(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "List quotes failed", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromQuoteViews(views))
}

// @Summary List declines of an RFQ
// @Tags rfqs
// @Produce json
// @Security BearerAuth
// @Param id path string true "RFQ ID"
// @Success 200 {array} resdto.DeclineResponse
// @Router /rfqs/{id}/declines [get]
func (h *RFQHandler) ListDeclines(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	views, err := h.q.ListDeclines(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "List declines failed", nil)
		return
	}
	c.JSON(http.StatusOK, resdto.FromDeclineViews(views))
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
