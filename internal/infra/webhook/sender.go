package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"rfq-market/internal/domain/dispatch"
)

const defaultTimeout = 15 * time.Second

// HTTPSender performs one outbound webhook call per Send. The per-spec
// timeout is applied through the request context rather than the client so a
// single client can serve every target.
type HTTPSender struct {
	client *http.Client
}

func NewHTTPSender() *HTTPSender {
	return &HTTPSender{
		client: &http.Client{},
	}
}

// Send executes the spec and reports the outcome. A nil return means the
// target acknowledged with a 2xx; anything else is a Failure ready to be
// recorded on the delivery record.
func (s *HTTPSender) Send(ctx context.Context, spec dispatch.RequestSpec) *dispatch.Failure {
	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	method := spec.Method
	if method == "" {
		method = http.MethodPost
	}

	req, err := http.NewRequestWithContext(ctx, method, spec.URL, bytes.NewReader(spec.Body))
	if err != nil {
		return &dispatch.Failure{Message: fmt.Sprintf("failed to build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range spec.Headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return &dispatch.Failure{Message: err.Error()}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &dispatch.Failure{
			Message:    fmt.Sprintf("unexpected status %s", resp.Status),
			StatusCode: resp.StatusCode,
		}
	}
	return nil
}
