//go:build unit

package webhook_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rfq-market/internal/infra/webhook"
	"rfq-market/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSender_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("2xx応答は成功", func(t *testing.T) {
		var gotMethod, gotContentType, gotCustom string
		var gotBody []byte
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotContentType = r.Header.Get("Content-Type")
			gotCustom = r.Header.Get("X-Signature")
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		spec := builder.NewDispatchBuilder().WithURL(srv.URL).BuildSpec()
		spec.Headers["X-Signature"] = "sha256=abc"

		failure := webhook.NewHTTPSender().Send(ctx, spec)
		require.Nil(t, failure)
		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "application/json", gotContentType)
		assert.Equal(t, "sha256=abc", gotCustom)
		assert.JSONEq(t, string(spec.Body), string(gotBody))
	})

	t.Run("非2xx応答はステータスコード付きの失敗", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		spec := builder.NewDispatchBuilder().WithURL(srv.URL).BuildSpec()
		failure := webhook.NewHTTPSender().Send(ctx, spec)
		require.NotNil(t, failure)
		assert.Equal(t, http.StatusInternalServerError, failure.StatusCode)
		assert.NotEmpty(t, failure.Message)
	})

	t.Run("接続不能はメッセージのみの失敗", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // refuse connections

		spec := builder.NewDispatchBuilder().WithURL(srv.URL).BuildSpec()
		failure := webhook.NewHTTPSender().Send(ctx, spec)
		require.NotNil(t, failure)
		assert.Zero(t, failure.StatusCode)
		assert.NotEmpty(t, failure.Message)
	})

	t.Run("タイムアウトは失敗として扱う", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
		}))
		defer srv.Close()

		b := builder.NewDispatchBuilder().WithURL(srv.URL)
		b.Timeout = 30 * time.Millisecond
		failure := webhook.NewHTTPSender().Send(ctx, b.BuildSpec())
		require.NotNil(t, failure)
		assert.Zero(t, failure.StatusCode)
	})
}
