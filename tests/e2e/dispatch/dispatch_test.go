//go:build e2e

package dispatch_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"rfq-market/internal/domain/user"
	"rfq-market/internal/handler/dto/request"
	"rfq-market/internal/handler/dto/response"
	"rfq-market/tests/common/authtest"
	"rfq-market/tests/common/dbtest"
	commonhttp "rfq-market/tests/common/httptest"
	"rfq-market/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	rfqsURL       = "/api/rfqs"
	dispatchesURL = "/api/dispatches"
)

type DispatchSuite struct {
	e2e.SharedSuite
}

func (s *DispatchSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestDispatchSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(DispatchSuite))
}

// capturedCall is one webhook delivery observed by the test server.
type capturedCall struct {
	Event string
	Body  []byte
}

// webhookRecorder is a controllable webhook endpoint. Status can be flipped
// between attempts to simulate a target recovering.
type webhookRecorder struct {
	mu     sync.Mutex
	calls  []capturedCall
	status int
	server *httptest.Server
}

func newWebhookRecorder(status int) *webhookRecorder {
	r := &webhookRecorder{status: status}
	r.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		body, _ := io.ReadAll(req.Body)
		r.mu.Lock()
		r.calls = append(r.calls, capturedCall{
			Event: req.Header.Get("X-Market-Event"),
			Body:  body,
		})
		status := r.status
		r.mu.Unlock()
		w.WriteHeader(status)
	}))
	return r
}

func (r *webhookRecorder) URL() string { return r.server.URL }

func (r *webhookRecorder) SetStatus(status int) {
	r.mu.Lock()
	r.status = status
	r.mu.Unlock()
}

func (r *webhookRecorder) Calls() []capturedCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]capturedCall(nil), r.calls...)
}

func (r *webhookRecorder) Close() { r.server.Close() }

// =============================================================================
// TestRFQFanOut - webhook fan-out on RFQ creation
// =============================================================================

func (s *DispatchSuite) TestRFQFanOut() {
	s.Run("Normal case: RFQ creation fans out to every active provider", func() {
		t := s.T()

		hook := newWebhookRecorder(http.StatusOK)
		defer hook.Close()

		marketID := dbtest.CreateTestMarket(t, s.DB, "Steel Market")
		dbtest.CreateTestProvider(t, s.DB, marketID, "Provider A", hook.URL())
		dbtest.CreateTestProvider(t, s.DB, marketID, "Provider B", hook.URL())
		clientID := dbtest.CreateTestClient(t, s.DB, "Acme Client", "")

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "client@example.com", string(user.RoleClient), clientID)

		reqBody := request.CreateRFQRequest{
			MarketID: marketID,
			Payload:  json.RawMessage(`{"item":"steel","qty":40}`),
		}
		w := commonhttp.PerformRequest(t, s.Router, http.MethodPost, rfqsURL, reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.RFQResponse
		commonhttp.DecodeResponseBody(t, w.Body, &created)
		require.NotNil(t, created.DispatchBatchID, "fan-out should produce a batch id")

		// 配信は非同期なので両プロバイダへの着弾を待つ
		require.Eventually(t, func() bool {
			return len(hook.Calls()) == 2
		}, 10*time.Second, 50*time.Millisecond, "both providers should receive the webhook")

		for _, call := range hook.Calls() {
			require.Equal(t, "rfq.created", call.Event)

			var envelope struct {
				Event      string          `json:"event"`
				OccurredAt time.Time       `json:"occurred_at"`
				Data       json.RawMessage `json:"data"`
			}
			require.NoError(t, json.Unmarshal(call.Body, &envelope))
			require.Equal(t, "rfq.created", envelope.Event)
			require.False(t, envelope.OccurredAt.IsZero())
		}

		// 管理APIでバッチを確認：全レコードが楽観的に delivered のまま
		adminToken := authtest.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin), uuid.Nil)
		bw := commonhttp.PerformRequest(t, s.Router, http.MethodGet,
			dispatchesURL+"/batches/"+created.DispatchBatchID.String(), nil, adminToken)
		require.Equal(t, http.StatusOK, bw.Code, bw.Body.String())

		var batch response.BatchResponse
		commonhttp.DecodeResponseBody(t, bw.Body, &batch)
		require.Len(t, batch.Requests, 2)
		for _, rec := range batch.Requests {
			require.True(t, rec.IsDelivered)
			require.False(t, rec.IsDead)
			require.Nil(t, rec.Error)
			require.NotNil(t, rec.DeliveredAt)
		}
	})

	s.Run("Normal case: inactive providers are excluded from fan-out", func() {
		t := s.T()

		hook := newWebhookRecorder(http.StatusOK)
		defer hook.Close()

		marketID := dbtest.CreateTestMarket(t, s.DB, "Steel Market")
		dbtest.CreateTestProvider(t, s.DB, marketID, "Provider A", hook.URL())
		inactiveID := dbtest.CreateTestProvider(t, s.DB, marketID, "Provider B", hook.URL())
		_, err := s.DB.Exec(s.T().Context(), "UPDATE providers SET is_active = FALSE WHERE id = $1", inactiveID)
		require.NoError(t, err)

		clientID := dbtest.CreateTestClient(t, s.DB, "Acme Client", "")
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "client@example.com", string(user.RoleClient), clientID)

		reqBody := request.CreateRFQRequest{
			MarketID: marketID,
			Payload:  json.RawMessage(`{"item":"steel","qty":40}`),
		}
		w := commonhttp.PerformRequest(t, s.Router, http.MethodPost, rfqsURL, reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		require.Eventually(t, func() bool {
			return len(hook.Calls()) == 1
		}, 10*time.Second, 50*time.Millisecond)

		// 猶予を置いても2通目は来ない
		time.Sleep(300 * time.Millisecond)
		require.Len(t, hook.Calls(), 1)
	})
}

// =============================================================================
// TestFailureAndRetry - dead records, failure notification, manual retry
// =============================================================================

func (s *DispatchSuite) TestFailureAndRetry() {
	s.Run("Normal case: failed delivery goes dead and notifies the batch owner", func() {
		t := s.T()

		providerHook := newWebhookRecorder(http.StatusInternalServerError)
		defer providerHook.Close()
		clientHook := newWebhookRecorder(http.StatusOK)
		defer clientHook.Close()

		marketID := dbtest.CreateTestMarket(t, s.DB, "Steel Market")
		providerID := dbtest.CreateTestProvider(t, s.DB, marketID, "Flaky Provider", providerHook.URL())
		clientID := dbtest.CreateTestClient(t, s.DB, "Acme Client", clientHook.URL())

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "client@example.com", string(user.RoleClient), clientID)
		adminToken := authtest.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin), uuid.Nil)

		reqBody := request.CreateRFQRequest{
			MarketID: marketID,
			Payload:  json.RawMessage(`{"item":"steel","qty":40}`),
		}
		w := commonhttp.PerformRequest(t, s.Router, http.MethodPost, rfqsURL, reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		// 失敗レコードが dead になるのを待つ
		var dead response.DispatchRequestResponse
		require.Eventually(t, func() bool {
			lw := commonhttp.PerformRequest(t, s.Router, http.MethodGet,
				dispatchesURL+"?only_dead=true&target_id="+providerID.String(), nil, adminToken)
			if lw.Code != http.StatusOK {
				return false
			}
			var recs []response.DispatchRequestResponse
			if err := json.Unmarshal(lw.Body.Bytes(), &recs); err != nil || len(recs) != 1 {
				return false
			}
			dead = recs[0]
			return true
		}, 10*time.Second, 100*time.Millisecond, "failed delivery should be recorded dead")

		require.False(t, dead.IsDelivered)
		require.NotNil(t, dead.Error)
		require.Equal(t, http.StatusInternalServerError, dead.Error.StatusCode)
		require.NotNil(t, dead.KilledAt)
		require.Nil(t, dead.DeliveredAt)

		// バッチ所有者（クライアント）に delivery.failed が届く
		require.Eventually(t, func() bool {
			calls := clientHook.Calls()
			return len(calls) == 1 && calls[0].Event == "delivery.failed"
		}, 10*time.Second, 100*time.Millisecond, "batch owner should receive the failure notification")

		var envelope struct {
			Event string `json:"event"`
			Data  struct {
				RequestID uuid.UUID `json:"request_id"`
				Event     string    `json:"event"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(clientHook.Calls()[0].Body, &envelope))
		require.Equal(t, "delivery.failed", envelope.Event)
		require.Equal(t, dead.ID, envelope.Data.RequestID)
		require.Equal(t, "rfq.created", envelope.Data.Event)
	})

	s.Run("Normal case: successful retry re-sends but never mutates the record", func() {
		t := s.T()

		providerHook := newWebhookRecorder(http.StatusInternalServerError)
		defer providerHook.Close()

		marketID := dbtest.CreateTestMarket(t, s.DB, "Steel Market")
		providerID := dbtest.CreateTestProvider(t, s.DB, marketID, "Flaky Provider", providerHook.URL())
		clientID := dbtest.CreateTestClient(t, s.DB, "Acme Client", "")

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "client@example.com", string(user.RoleClient), clientID)
		adminToken := authtest.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin), uuid.Nil)

		reqBody := request.CreateRFQRequest{
			MarketID: marketID,
			Payload:  json.RawMessage(`{"item":"steel","qty":40}`),
		}
		w := commonhttp.PerformRequest(t, s.Router, http.MethodPost, rfqsURL, reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		require.Eventually(t, func() bool {
			lw := commonhttp.PerformRequest(t, s.Router, http.MethodGet,
				dispatchesURL+"?only_dead=true&target_id="+providerID.String(), nil, adminToken)
			var recs []response.DispatchRequestResponse
			return lw.Code == http.StatusOK &&
				json.Unmarshal(lw.Body.Bytes(), &recs) == nil && len(recs) == 1
		}, 10*time.Second, 100*time.Millisecond)

		// ターゲットが復旧した後のリトライ
		providerHook.SetStatus(http.StatusOK)
		firstAttempts := len(providerHook.Calls())

		rw := commonhttp.PerformRequest(t, s.Router, http.MethodPost,
			dispatchesURL+"/targets/"+providerID.String()+"/retry", nil, adminToken)
		require.Equal(t, http.StatusAccepted, rw.Code, rw.Body.String())

		var retry response.RetryResponse
		commonhttp.DecodeResponseBody(t, rw.Body, &retry)
		require.Equal(t, 1, retry.Retried)

		require.Eventually(t, func() bool {
			return len(providerHook.Calls()) == firstAttempts+1
		}, 10*time.Second, 50*time.Millisecond, "retry should re-send the stored request")

		// 成功したリトライはレコードを書き換えない：dead のまま残る
		time.Sleep(300 * time.Millisecond)
		lw := commonhttp.PerformRequest(t, s.Router, http.MethodGet,
			dispatchesURL+"?only_dead=true&target_id="+providerID.String(), nil, adminToken)
		require.Equal(t, http.StatusOK, lw.Code)

		var recs []response.DispatchRequestResponse
		require.NoError(t, json.Unmarshal(lw.Body.Bytes(), &recs))
		require.Len(t, recs, 1, "record must stay dead after a successful retry")
		require.NotNil(t, recs[0].Error)
		require.Equal(t, http.StatusInternalServerError, recs[0].Error.StatusCode,
			"captured failure must be the original one")
	})

	s.Run("Normal case: failed retry overwrites the captured failure", func() {
		t := s.T()

		providerHook := newWebhookRecorder(http.StatusInternalServerError)
		defer providerHook.Close()

		marketID := dbtest.CreateTestMarket(t, s.DB, "Steel Market")
		providerID := dbtest.CreateTestProvider(t, s.DB, marketID, "Flaky Provider", providerHook.URL())
		clientID := dbtest.CreateTestClient(t, s.DB, "Acme Client", "")

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "client@example.com", string(user.RoleClient), clientID)
		adminToken := authtest.CreateAndLogin(t, s.DB, s.Router, "admin@example.com", string(user.RoleAdmin), uuid.Nil)

		reqBody := request.CreateRFQRequest{
			MarketID: marketID,
			Payload:  json.RawMessage(`{"item":"steel","qty":40}`),
		}
		w := commonhttp.PerformRequest(t, s.Router, http.MethodPost, rfqsURL, reqBody, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		require.Eventually(t, func() bool {
			lw := commonhttp.PerformRequest(t, s.Router, http.MethodGet,
				dispatchesURL+"?only_dead=true&target_id="+providerID.String(), nil, adminToken)
			var recs []response.DispatchRequestResponse
			return lw.Code == http.StatusOK &&
				json.Unmarshal(lw.Body.Bytes(), &recs) == nil && len(recs) == 1
		}, 10*time.Second, 100*time.Millisecond)

		// 依然として失敗するが、今度は別のステータスで
		providerHook.SetStatus(http.StatusServiceUnavailable)

		rw := commonhttp.PerformRequest(t, s.Router, http.MethodPost,
			dispatchesURL+"/targets/"+providerID.String()+"/retry", nil, adminToken)
		require.Equal(t, http.StatusAccepted, rw.Code)

		require.Eventually(t, func() bool {
			lw := commonhttp.PerformRequest(t, s.Router, http.MethodGet,
				dispatchesURL+"?only_dead=true&target_id="+providerID.String(), nil, adminToken)
			if lw.Code != http.StatusOK {
				return false
			}
			var recs []response.DispatchRequestResponse
			if err := json.Unmarshal(lw.Body.Bytes(), &recs); err != nil || len(recs) != 1 {
				return false
			}
			return recs[0].Error != nil && recs[0].Error.StatusCode == http.StatusServiceUnavailable
		}, 10*time.Second, 100*time.Millisecond, "failed retry should overwrite the captured failure")
	})
}
