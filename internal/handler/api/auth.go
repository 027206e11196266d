package api

import (
	"net/http"

	reqdto "rfq-market/internal/handler/dto/request"
	resdto "rfq-market/internal/handler/dto/response"
	"rfq-market/internal/handler/httperr"
	"rfq-market/internal/handler/middleware"
	"rfq-market/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth usecase.AuthUseCase
}

func NewAuthHandler(auth usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// @Summary Login
// @Description Authenticate with email and password, returns a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	token, view, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		httperr.AbortWithError(c, http.StatusUnauthorized, err, "Authentication failed", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.LoginResponse{
		Token: token,
		User:  *resdto.FromAuthorizedUserView(view),
	})
}

// @Summary Current user
// @Description Return the authenticated user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.UserResponse
// @Failure 401 {object} map[string]string
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, usecase.ErrAuthenticationFailed, "Unauthorized", nil)
		return
	}

	view, err := h.auth.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusUnauthorized, err, "Unauthorized", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromAuthorizedUserView(view))
}
