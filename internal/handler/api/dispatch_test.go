//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"rfq-market/internal/domain/dispatch"
	"rfq-market/internal/domain/user"
	"rfq-market/internal/handler/api"
	resdto "rfq-market/internal/handler/dto/response"
	usecasedispatch "rfq-market/internal/usecase/dispatch"
	"rfq-market/internal/usecase/queries"
	"rfq-market/tests/common/builder"
	"rfq-market/tests/common/httptest"
	dispatchmock "rfq-market/tests/mock/dispatch"
	queriesmock "rfq-market/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type DispatchHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockUseCase *dispatchmock.MockUseCase
	mockQueries *queriesmock.MockDispatchQueries
	handler     *api.DispatchHandler
}

func (s *DispatchHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockUseCase = dispatchmock.NewMockUseCase(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockDispatchQueries(s.mockCtrl)
	s.handler = api.NewDispatchHandler(s.mockUseCase, s.mockQueries)

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", uuid.New())
		c.Set("user_role", user.RoleAdmin)
		c.Next()
	}

	s.router.GET("/dispatches", authMiddleware, s.handler.List)
	s.router.GET("/dispatches/requests/:id", authMiddleware, s.handler.Get)
	s.router.GET("/dispatches/batches/:id", authMiddleware, s.handler.GetBatch)
	s.router.POST("/dispatches/targets/:id/retry", authMiddleware, s.handler.Retry)
}

func (s *DispatchHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestDispatchHandlerSuite(t *testing.T) {
	suite.Run(t, new(DispatchHandlerTestSuite))
}

func (s *DispatchHandlerTestSuite) buildRecord(batchID, targetID uuid.UUID) *dispatch.Request {
	rec, err := builder.NewDispatchBuilder().
		WithBatchID(batchID).
		WithTargetID(targetID).
		BuildDomain()
	s.Require().NoError(err)
	return rec
}

// ================================================================================
// TestGetBatch
// ================================================================================

func (s *DispatchHandlerTestSuite) TestGetBatch() {
	batchID := uuid.New()
	url := "/dispatches/batches/" + batchID.String()

	s.Run("success: returns 200 OK with every record of the batch", func() {
		recs := []*dispatch.Request{
			s.buildRecord(batchID, uuid.New()),
			s.buildRecord(batchID, uuid.New()),
		}
		s.mockUseCase.EXPECT().GetBatch(gomock.Any(), batchID).
			Return(recs, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.BatchResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(batchID, response.BatchID)
		s.Len(response.Requests, 2)
		s.True(response.Requests[0].IsDelivered)
		s.Nil(response.Requests[0].Error)
	})

	s.Run("success: dead record carries its captured failure", func() {
		dead := s.buildRecord(batchID, uuid.New())
		dead.MarkDead(dispatch.Failure{Message: "unexpected status 500", StatusCode: 500}, time.Now().UTC())
		s.mockUseCase.EXPECT().GetBatch(gomock.Any(), batchID).
			Return([]*dispatch.Request{dead}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.BatchResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Require().Len(response.Requests, 1)
		s.True(response.Requests[0].IsDead)
		s.False(response.Requests[0].IsDelivered)
		s.Require().NotNil(response.Requests[0].Error)
		s.Equal(500, response.Requests[0].Error.StatusCode)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/dispatches/batches/invalid-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: 400 Bad Request for a nil batch id", func() {
		s.mockUseCase.EXPECT().GetBatch(gomock.Any(), uuid.Nil).
			Return(nil, usecasedispatch.ErrInvalidBatchID).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/dispatches/batches/"+uuid.Nil.String(), nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: 404 Not Found for unknown batch", func() {
		s.mockUseCase.EXPECT().GetBatch(gomock.Any(), batchID).
			Return(nil, usecasedispatch.ErrBatchNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Not found")
	})

	s.Run("error: 500 Internal Server Error on repository failure", func() {
		s.mockUseCase.EXPECT().GetBatch(gomock.Any(), batchID).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Get batch failed")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}

// ================================================================================
// TestGet
// ================================================================================

func (s *DispatchHandlerTestSuite) TestGet() {
	recordID := uuid.New()
	url := "/dispatches/requests/" + recordID.String()

	s.Run("success: returns 200 OK with DispatchRequestResponse", func() {
		rec := s.buildRecord(uuid.New(), uuid.New())
		rec.ID = recordID
		s.mockUseCase.EXPECT().GetRequest(gomock.Any(), recordID).
			Return(rec, nil).Times(1)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.DispatchRequestResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &response)
		s.Equal(recordID, response.ID)
		s.Equal(rec.Spec.URL, response.Request.URL)
		s.Equal(rec.Spec.EventKind, response.Request.EventKind)
	})

	s.Run("error: 404 Not Found for missing record", func() {
		s.mockUseCase.EXPECT().GetRequest(gomock.Any(), recordID).
			Return(nil, usecasedispatch.ErrRequestNotFound).Times(1)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusNotFound, "Not found")
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/dispatches/requests/not-a-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid id")
	})
}

// ================================================================================
// TestList
// ================================================================================

func (s *DispatchHandlerTestSuite) TestList() {
	s.Run("success: passes filter through to the query layer", func() {
		batchID := uuid.New()
		recs := []*dispatch.Request{s.buildRecord(batchID, uuid.New())}

		s.mockQueries.EXPECT().
			List(gomock.Any(), gomock.Any(), 50, 0).
			DoAndReturn(func(_ any, filter queries.DispatchFilter, _, _ int) ([]*dispatch.Request, error) {
				s.Require().NotNil(filter.BatchID)
				s.Equal(batchID, *filter.BatchID)
				s.True(filter.OnlyDead)
				return recs, nil
			}).Times(1)

		url := "/dispatches?batch_id=" + batchID.String() + "&only_dead=true"
		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response []resdto.DispatchRequestResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &response)
		s.Len(response, 1)
	})

	s.Run("success: empty filter returns everything paginated", func() {
		s.mockQueries.EXPECT().
			List(gomock.Any(), queries.DispatchFilter{}, 10, 20).
			Return([]*dispatch.Request{}, nil).Times(1)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/dispatches?limit=10&offset=20", nil, "bearer-token")

		var response []resdto.DispatchRequestResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &response)
		s.Empty(response)
	})

	s.Run("error: 400 Bad Request when limit exceeds the cap", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/dispatches?limit=500", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid query")
	})

	s.Run("error: 500 Internal Server Error on query failure", func() {
		s.mockQueries.EXPECT().
			List(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("database error")).Times(1)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/dispatches", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusInternalServerError, "List delivery records failed")
	})
}

// ================================================================================
// TestRetry
// ================================================================================

func (s *DispatchHandlerTestSuite) TestRetry() {
	targetID := uuid.New()
	url := "/dispatches/targets/" + targetID.String() + "/retry"

	s.Run("success: returns 202 Accepted with the retried count", func() {
		dead := s.buildRecord(uuid.New(), targetID)
		dead.MarkDead(dispatch.Failure{Message: "connection refused"}, time.Now().UTC())
		s.mockUseCase.EXPECT().RetryForTarget(gomock.Any(), targetID, gomock.Nil()).
			Return([]*dispatch.Request{dead}, nil).Times(1)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var response resdto.RetryResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusAccepted, &response)
		s.Equal(targetID, response.TargetID)
		s.Equal(1, response.Retried)
	})

	s.Run("success: no dead records still answers 202 with zero", func() {
		s.mockUseCase.EXPECT().RetryForTarget(gomock.Any(), targetID, gomock.Nil()).
			Return(nil, nil).Times(1)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var response resdto.RetryResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusAccepted, &response)
		s.Equal(0, response.Retried)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/dispatches/targets/bad/retry", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusBadRequest, "Invalid id")
	})

	s.Run("error: 500 Internal Server Error on repository failure", func() {
		s.mockUseCase.EXPECT().RetryForTarget(gomock.Any(), targetID, gomock.Nil()).
			Return(nil, errors.New("database error")).Times(1)

		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), w, http.StatusInternalServerError, "Retry failed")
	})
}
