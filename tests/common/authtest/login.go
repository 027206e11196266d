//go:build unit || e2e

package authtest

import (
	"net/http"
	"testing"

	"rfq-market/internal/handler/dto/request"
	"rfq-market/internal/handler/dto/response"
	"rfq-market/tests/common/dbtest"
	"rfq-market/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func LoginUser(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login",
		request.LoginRequest{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res response.LoginResponse
	httptest.DecodeResponseBody(t, w.Body, &res)
	require.NotEmpty(t, res.Token, "Token not found in login response")

	return res.Token
}

func CreateAndLogin(t *testing.T, db dbtest.DBLike, router *gin.Engine, email, role string, orgID uuid.UUID) string {
	t.Helper()
	dbtest.CreateTestUser(t, db, email, role, orgID)
	return LoginUser(t, router, email, "password123")
}
