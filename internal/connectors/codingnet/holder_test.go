package codingnet

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coding/coding-cli/internal/core/domain"
)

func TestAuthHolder_Transaction(t *testing.T) {
	a := domain.NewBasicAuth("coding.net", "alice", "old", true)
	b := domain.NewBasicAuth("coding.net", "alice", "new", true)

	t.Run("replaces expected value", func(t *testing.T) {
		h := NewAuthHolder(a)
		require.NoError(t, h.Transaction(a, func() (*domain.AuthData, error) { return b, nil }))
		assert.Same(t, b, h.Get())
	})

	t.Run("stale expectation is a no-op", func(t *testing.T) {
		h := NewAuthHolder(b)
		called := false
		require.NoError(t, h.Transaction(a, func() (*domain.AuthData, error) {
			called = true
			return domain.NewAnonymousAuth("coding.net"), nil
		}))
		assert.False(t, called)
		assert.Same(t, b, h.Get())
	})

	t.Run("identity, not equality", func(t *testing.T) {
		twin := domain.NewBasicAuth("coding.net", "alice", "old", true)
		h := NewAuthHolder(a)
		require.NoError(t, h.Transaction(twin, func() (*domain.AuthData, error) { return b, nil }))
		assert.Same(t, a, h.Get())
	})

	t.Run("error keeps the value", func(t *testing.T) {
		h := NewAuthHolder(a)
		boom := errors.New("boom")
		assert.ErrorIs(t, h.Transaction(a, func() (*domain.AuthData, error) { return nil, boom }), boom)
		assert.Same(t, a, h.Get())
	})
}

func TestAuthHolder_ConcurrentTransactions(t *testing.T) {
	a := domain.NewBasicAuth("coding.net", "alice", "old", true)
	b := domain.NewBasicAuth("coding.net", "alice", "new", true)
	h := NewAuthHolder(a)

	var calls atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.Transaction(a, func() (*domain.AuthData, error) {
				calls.Add(1)
				time.Sleep(20 * time.Millisecond)
				return b, nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	assert.Same(t, b, h.Get())
}
