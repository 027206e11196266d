//go:build unit

package dispatch_test

import (
	"context"
	"sync"
	"testing"
	"time"

	domaindispatch "rfq-market/internal/domain/dispatch"
	"rfq-market/internal/pkg/clock"
	usecasedispatch "rfq-market/internal/usecase/dispatch"
	"rfq-market/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(repo *fakeRepo, sender *fakeSender) *usecasedispatch.Engine {
	clk := clock.NewMockClock(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	return usecasedispatch.NewEngine(repo, sender, clk)
}

func targetFor(url, kind string) usecasedispatch.TargetRequest {
	spec := builder.NewDispatchBuilder().WithURL(url).WithEventKind(kind).BuildSpec()
	return usecasedispatch.TargetRequest{TargetID: uuid.New(), Spec: spec}
}

// =============================================================================
// SendBatch Tests
// =============================================================================

func TestEngine_SendBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("success: every record persists delivered and no outcome update happens", func(t *testing.T) {
		repo := &fakeRepo{}
		sender := &fakeSender{}
		engine := newEngine(repo, sender)

		targets := []usecasedispatch.TargetRequest{
			targetFor("https://a.example.com/hook", domaindispatch.EventRFQCreated),
			targetFor("https://b.example.com/hook", domaindispatch.EventRFQCreated),
			targetFor("https://c.example.com/hook", domaindispatch.EventRFQCreated),
		}

		onFailCalls := &callRecorder{}
		batchID := uuid.New()
		recs, err := engine.SendBatch(ctx, batchID, targets, onFailCalls.handler())
		require.NoError(t, err)
		require.Len(t, recs, 3)

		engine.Wait()

		created := repo.Created()
		require.Len(t, created, 3)
		for _, rec := range created {
			assert.Equal(t, batchID, rec.BatchID)
			assert.True(t, rec.IsDelivered)
			assert.False(t, rec.IsDead)
			assert.NotNil(t, rec.DeliveredAt)
		}
		assert.Len(t, sender.Calls(), 3)
		assert.Empty(t, repo.Updated())
		assert.Zero(t, onFailCalls.Count())
	})

	t.Run("failure: failing target flips to dead and triggers the handler", func(t *testing.T) {
		repo := &fakeRepo{}
		sender := &fakeSender{failures: map[string]*domaindispatch.Failure{
			"https://b.example.com/hook": {Message: "unexpected status 500 Internal Server Error", StatusCode: 500},
		}}
		engine := newEngine(repo, sender)

		failing := targetFor("https://b.example.com/hook", domaindispatch.EventRFQCreated)
		targets := []usecasedispatch.TargetRequest{
			targetFor("https://a.example.com/hook", domaindispatch.EventRFQCreated),
			failing,
			targetFor("https://c.example.com/hook", domaindispatch.EventRFQCreated),
		}

		onFailCalls := &callRecorder{}
		_, err := engine.SendBatch(ctx, uuid.New(), targets, onFailCalls.handler())
		require.NoError(t, err)
		engine.Wait()

		updated := repo.Updated()
		require.Len(t, updated, 1)
		rec := updated[0]
		assert.Equal(t, failing.TargetID, rec.TargetID)
		assert.True(t, rec.IsDead)
		assert.False(t, rec.IsDelivered)
		assert.Equal(t, 500, rec.Failure.StatusCode)
		assert.Nil(t, rec.DeliveredAt)
		assert.NotNil(t, rec.KilledAt)

		require.Equal(t, 1, onFailCalls.Count())
		assert.Equal(t, failing.TargetID, onFailCalls.Records()[0].TargetID)
	})

	t.Run("失敗通知イベント自体の失敗はハンドラを再帰呼び出ししない", func(t *testing.T) {
		repo := &fakeRepo{}
		sender := &fakeSender{failures: map[string]*domaindispatch.Failure{
			"https://a.example.com/hook": {Message: "connection refused"},
		}}
		engine := newEngine(repo, sender)

		targets := []usecasedispatch.TargetRequest{
			targetFor("https://a.example.com/hook", domaindispatch.EventDeliveryFailed),
		}

		onFailCalls := &callRecorder{}
		_, err := engine.SendBatch(ctx, uuid.New(), targets, onFailCalls.handler())
		require.NoError(t, err)
		engine.Wait()

		require.Len(t, repo.Updated(), 1)
		assert.Zero(t, onFailCalls.Count(), "delivery.failed must never re-enter the failure handler")
	})

	t.Run("ハンドラがpanicしてもdead状態は永続化される", func(t *testing.T) {
		repo := &fakeRepo{}
		sender := &fakeSender{failures: map[string]*domaindispatch.Failure{
			"https://a.example.com/hook": {Message: "connection refused"},
		}}
		engine := newEngine(repo, sender)

		panicking := func(ctx context.Context, rec *domaindispatch.Request) {
			panic("handler bug")
		}
		_, err := engine.SendBatch(ctx, uuid.New(), []usecasedispatch.TargetRequest{
			targetFor("https://a.example.com/hook", domaindispatch.EventRFQCreated),
		}, panicking)
		require.NoError(t, err)
		engine.Wait()

		updated := repo.Updated()
		require.Len(t, updated, 1, "dead outcome must be persisted even when the handler panics")
		assert.True(t, updated[0].IsDead)
		assert.False(t, updated[0].IsDelivered)
	})

	t.Run("error: persistence failure aborts the batch before any send", func(t *testing.T) {
		repo := &fakeRepo{createErrAt: 2}
		sender := &fakeSender{}
		engine := newEngine(repo, sender)

		targets := []usecasedispatch.TargetRequest{
			targetFor("https://a.example.com/hook", domaindispatch.EventRFQCreated),
			targetFor("https://b.example.com/hook", domaindispatch.EventRFQCreated),
			targetFor("https://c.example.com/hook", domaindispatch.EventRFQCreated),
		}

		_, err := engine.SendBatch(ctx, uuid.New(), targets, nil)
		require.Error(t, err)
		engine.Wait()

		// 永続化フェーズが完了するまでHTTP送信は一切行われない
		assert.Equal(t, 2, repo.CreateCalls())
		assert.Empty(t, sender.Calls())
	})

	t.Run("error: nil batch id is rejected before any I/O", func(t *testing.T) {
		repo := &fakeRepo{}
		engine := newEngine(repo, &fakeSender{})

		_, err := engine.SendBatch(ctx, uuid.Nil, []usecasedispatch.TargetRequest{
			targetFor("https://a.example.com/hook", domaindispatch.EventRFQCreated),
		}, nil)
		require.ErrorIs(t, err, usecasedispatch.ErrInvalidBatchID)
		assert.Zero(t, repo.CreateCalls())
	})
}

// =============================================================================
// RetryForTarget Tests
// =============================================================================

func TestEngine_RetryForTarget(t *testing.T) {
	ctx := context.Background()
	targetID := uuid.New()

	deadRecord := func(t *testing.T, url, kind string) *domaindispatch.Request {
		t.Helper()
		rec, err := builder.NewDispatchBuilder().
			WithTargetID(targetID).
			WithURL(url).
			WithEventKind(kind).
			BuildDomain()
		require.NoError(t, err)
		rec.MarkDead(domaindispatch.Failure{Message: "timeout"}, rec.CreatedAt.Add(time.Second))
		return rec
	}

	t.Run("成功した再送は記録を一切変更しない", func(t *testing.T) {
		repo := &fakeRepo{dead: []*domaindispatch.Request{
			deadRecord(t, "https://a.example.com/hook", domaindispatch.EventRFQCreated),
			deadRecord(t, "https://b.example.com/hook", domaindispatch.EventRFQCreated),
		}}
		sender := &fakeSender{}
		engine := newEngine(repo, sender)

		onFailCalls := &callRecorder{}
		recs, err := engine.RetryForTarget(ctx, targetID, onFailCalls.handler())
		require.NoError(t, err)
		require.Len(t, recs, 2)
		engine.Wait()

		assert.Len(t, sender.Calls(), 2)
		assert.Empty(t, repo.Updated(), "a successful retry must not mutate the record")
		assert.Zero(t, onFailCalls.Count())
		for _, rec := range recs {
			assert.True(t, rec.IsDead)
		}
	})

	t.Run("失敗した再送は失敗内容を上書きして再永続化する", func(t *testing.T) {
		repo := &fakeRepo{dead: []*domaindispatch.Request{
			deadRecord(t, "https://a.example.com/hook", domaindispatch.EventRFQCreated),
		}}
		sender := &fakeSender{failures: map[string]*domaindispatch.Failure{
			"https://a.example.com/hook": {Message: "unexpected status 503 Service Unavailable", StatusCode: 503},
		}}
		engine := newEngine(repo, sender)

		onFailCalls := &callRecorder{}
		_, err := engine.RetryForTarget(ctx, targetID, onFailCalls.handler())
		require.NoError(t, err)
		engine.Wait()

		updated := repo.Updated()
		require.Len(t, updated, 1)
		assert.Equal(t, 503, updated[0].Failure.StatusCode)
		assert.Equal(t, 1, onFailCalls.Count())
	})

	t.Run("対象なしなら送信は発生しない", func(t *testing.T) {
		repo := &fakeRepo{}
		sender := &fakeSender{}
		engine := newEngine(repo, sender)

		recs, err := engine.RetryForTarget(ctx, targetID, nil)
		require.NoError(t, err)
		require.NotNil(t, recs)
		assert.Empty(t, recs)
		engine.Wait()
		assert.Empty(t, sender.Calls())
	})

	t.Run("結果の永続化失敗は握りつぶされハンドラは呼ばれる", func(t *testing.T) {
		repo := &fakeRepo{
			dead:      []*domaindispatch.Request{deadRecord(t, "https://a.example.com/hook", domaindispatch.EventRFQCreated)},
			updateErr: assert.AnError,
		}
		sender := &fakeSender{failures: map[string]*domaindispatch.Failure{
			"https://a.example.com/hook": {Message: "connection refused"},
		}}
		engine := newEngine(repo, sender)

		onFailCalls := &callRecorder{}
		_, err := engine.RetryForTarget(ctx, targetID, onFailCalls.handler())
		require.NoError(t, err)
		engine.Wait()

		assert.Equal(t, 1, onFailCalls.Count())
	})
}

// =============================================================================
// GetBatch Tests
// =============================================================================

func TestEngine_GetBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("success: returns every record of the batch", func(t *testing.T) {
		repo := &fakeRepo{}
		sender := &fakeSender{}
		engine := newEngine(repo, sender)

		batchID := uuid.New()
		_, err := engine.SendBatch(ctx, batchID, []usecasedispatch.TargetRequest{
			targetFor("https://a.example.com/hook", domaindispatch.EventRFQCreated),
			targetFor("https://b.example.com/hook", domaindispatch.EventRFQCreated),
		}, nil)
		require.NoError(t, err)
		engine.Wait()

		recs, err := engine.GetBatch(ctx, batchID)
		require.NoError(t, err)
		assert.Len(t, recs, 2)
	})

	t.Run("error: unknown batch id", func(t *testing.T) {
		engine := newEngine(&fakeRepo{}, &fakeSender{})

		_, err := engine.GetBatch(ctx, uuid.New())
		require.ErrorIs(t, err, usecasedispatch.ErrBatchNotFound)
	})

	t.Run("error: nil batch id is rejected before any I/O", func(t *testing.T) {
		engine := newEngine(&fakeRepo{}, &fakeSender{})

		_, err := engine.GetBatch(ctx, uuid.Nil)
		require.ErrorIs(t, err, usecasedispatch.ErrInvalidBatchID)
	})
}

// =============================================================================
// Test Helper Functions
// =============================================================================

type fakeRepo struct {
	mu          sync.Mutex
	created     []*domaindispatch.Request
	updated     []*domaindispatch.Request
	dead        []*domaindispatch.Request
	createCalls int
	createErrAt int // 1-based call index that fails; 0 means never
	updateErr   error
}

func (f *fakeRepo) Create(ctx context.Context, req *domaindispatch.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErrAt > 0 && f.createCalls == f.createErrAt {
		return assert.AnError
	}
	f.created = append(f.created, req)
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*domaindispatch.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.created {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, assert.AnError
}

func (f *fakeRepo) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]*domaindispatch.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*domaindispatch.Request
	for _, rec := range f.created {
		if rec.BatchID == batchID {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (f *fakeRepo) ListDeadByTarget(ctx context.Context, targetID uuid.UUID) ([]*domaindispatch.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*domaindispatch.Request
	for _, rec := range f.dead {
		if rec.TargetID == targetID && rec.IsDead {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (f *fakeRepo) UpdateOutcome(ctx context.Context, req *domaindispatch.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = append(f.updated, req)
	return nil
}

func (f *fakeRepo) Created() []*domaindispatch.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domaindispatch.Request(nil), f.created...)
}

func (f *fakeRepo) Updated() []*domaindispatch.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domaindispatch.Request(nil), f.updated...)
}

func (f *fakeRepo) CreateCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCalls
}

type fakeSender struct {
	mu       sync.Mutex
	calls    []domaindispatch.RequestSpec
	failures map[string]*domaindispatch.Failure // keyed by URL
}

func (f *fakeSender) Send(ctx context.Context, spec domaindispatch.RequestSpec) *domaindispatch.Failure {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, spec)
	return f.failures[spec.URL]
}

func (f *fakeSender) Calls() []domaindispatch.RequestSpec {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domaindispatch.RequestSpec(nil), f.calls...)
}

type callRecorder struct {
	mu      sync.Mutex
	records []*domaindispatch.Request
}

func (c *callRecorder) handler() usecasedispatch.FailureHandler {
	return func(ctx context.Context, rec *domaindispatch.Request) {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.records = append(c.records, rec)
	}
}

func (c *callRecorder) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

func (c *callRecorder) Records() []*domaindispatch.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*domaindispatch.Request(nil), c.records...)
}
