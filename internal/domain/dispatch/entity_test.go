//go:build unit

package dispatch_test

import (
	"testing"
	"time"

	"rfq-market/internal/domain/dispatch"
	"rfq-market/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmpOpts = []cmp.Option{
	cmpopts.IgnoreFields(dispatch.Request{}, "ID"),
	cmpopts.EquateEmpty(),
}

func TestNew(t *testing.T) {
	t.Run("基本成功ケース", func(t *testing.T) {
		b := builder.NewDispatchBuilder()
		actual, err := b.BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		expected := &dispatch.Request{
			BatchID:     b.BatchID,
			TargetID:    b.TargetID,
			Spec:        b.BuildSpec(),
			IsDelivered: true,
			IsDead:      false,
			DeliveredAt: &b.Now,
			CreatedAt:   b.Now,
			UpdatedAt:   b.Now,
		}
		if diff := cmp.Diff(expected, actual, cmpOpts...); diff != "" {
			t.Errorf("Request mismatch (-want +got):\n%s", diff)
		}

		assert.NotEqual(t, uuid.Nil, actual.ID)
		assert.True(t, actual.Failure.IsZero())
		assert.Nil(t, actual.KilledAt)
	})

	t.Run("作成直後は配信済みフラグのみ真", func(t *testing.T) {
		actual, err := builder.NewDispatchBuilder().BuildDomain()
		require.NoError(t, err)

		assert.True(t, actual.IsDelivered)
		assert.False(t, actual.IsDead)
		assert.NotNil(t, actual.DeliveredAt)
		assert.Nil(t, actual.KilledAt)
	})

	t.Run("識別子検証", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*builder.DispatchBuilder)
			errIs  error
		}{
			{
				name:   "バッチIDがNilはNG",
				mutate: func(b *builder.DispatchBuilder) { b.WithBatchID(uuid.Nil) },
				errIs:  dispatch.ErrInvalidBatchID,
			},
			{
				name:   "ターゲットIDがNilはNG",
				mutate: func(b *builder.DispatchBuilder) { b.WithTargetID(uuid.Nil) },
				errIs:  dispatch.ErrInvalidTargetID,
			},
			{
				name:   "URL空はNG",
				mutate: func(b *builder.DispatchBuilder) { b.WithURL("") },
				errIs:  dispatch.ErrEmptyURL,
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				b := builder.NewDispatchBuilder()
				tc.mutate(b)
				_, err := b.BuildDomain()
				require.ErrorIs(t, err, tc.errIs)
			})
		}
	})
}

func TestMarkDead(t *testing.T) {
	t.Run("失敗時の終端状態遷移", func(t *testing.T) {
		b := builder.NewDispatchBuilder()
		rec, err := b.BuildDomain()
		require.NoError(t, err)

		killedAt := b.Now.Add(2 * time.Second)
		failure := dispatch.Failure{Message: "unexpected status", StatusCode: 500}
		rec.MarkDead(failure, killedAt)

		assert.True(t, rec.IsDead)
		assert.False(t, rec.IsDelivered)
		assert.Nil(t, rec.DeliveredAt)
		require.NotNil(t, rec.KilledAt)
		assert.Equal(t, killedAt, *rec.KilledAt)
		assert.False(t, rec.Failure.IsZero())
		assert.True(t, !rec.KilledAt.Before(rec.CreatedAt))
	})

	t.Run("再試行失敗は失敗内容を上書き", func(t *testing.T) {
		b := builder.NewDispatchBuilder()
		rec, err := b.BuildDomain()
		require.NoError(t, err)

		rec.MarkDead(dispatch.Failure{Message: "connection refused"}, b.Now.Add(time.Second))
		second := b.Now.Add(time.Minute)
		rec.MarkDead(dispatch.Failure{Message: "unexpected status", StatusCode: 503}, second)

		assert.True(t, rec.IsDead)
		assert.Equal(t, 503, rec.Failure.StatusCode)
		require.NotNil(t, rec.KilledAt)
		assert.Equal(t, second, *rec.KilledAt)
	})
}
