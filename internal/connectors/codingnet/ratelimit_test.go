package codingnet

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coding/coding-cli/internal/core/domain"
)

func rateResponse(status int, headers map[string]string) *http.Response {
	h := http.Header{}
	for k, v := range headers {
		h.Set(k, v)
	}
	return &http.Response{StatusCode: status, Header: h}
}

func TestRateLimiter_Observe(t *testing.T) {
	rl := NewRateLimiter(0)
	assert.Equal(t, -1, rl.Quota().Remaining)

	reset := time.Now().Add(time.Hour).Unix()
	rl.Observe(rateResponse(http.StatusOK, map[string]string{
		HeaderRateRemaining: "42",
		HeaderRateLimit:     "5000",
		HeaderRateReset:     strconv.FormatInt(reset, 10),
	}))

	q := rl.Quota()
	assert.Equal(t, 42, q.Remaining)
	assert.Equal(t, 5000, q.Limit)
	assert.Equal(t, reset, q.Reset.Unix())

	rl.Observe(nil)
	rl.Observe(rateResponse(http.StatusOK, map[string]string{HeaderRateRemaining: "41"}))
	assert.Equal(t, 41, rl.Quota().Remaining)
	assert.Equal(t, 5000, rl.Quota().Limit, "headers missing from a response keep their last value")
}

func TestQuota_Exhausted(t *testing.T) {
	now := time.Now()
	assert.True(t, Quota{Remaining: 0, Reset: now.Add(time.Minute)}.Exhausted(now))
	assert.False(t, Quota{Remaining: 0, Reset: now.Add(-time.Minute)}.Exhausted(now))
	assert.False(t, Quota{Remaining: -1}.Exhausted(now))
	assert.False(t, Quota{Remaining: 3, Reset: now.Add(time.Minute)}.Exhausted(now))
}

func TestRateLimiter_Check(t *testing.T) {
	t.Run("429 honours retry-after seconds", func(t *testing.T) {
		rl := NewRateLimiter(0)
		err := rl.Check(rateResponse(http.StatusTooManyRequests, map[string]string{HeaderRetryAfter: "30"}))

		var rlErr *RateLimitError
		require.ErrorAs(t, err, &rlErr)
		assert.WithinDuration(t, time.Now().Add(30*time.Second), rlErr.ResetAt, 5*time.Second)
		assert.ErrorIs(t, err, domain.ErrRateLimited)
	})

	t.Run("429 honours retry-after date", func(t *testing.T) {
		at := time.Now().Add(2 * time.Minute).UTC().Truncate(time.Second)
		rl := NewRateLimiter(0)
		err := rl.Check(rateResponse(http.StatusTooManyRequests, map[string]string{HeaderRetryAfter: at.Format(http.TimeFormat)}))

		var rlErr *RateLimitError
		require.ErrorAs(t, err, &rlErr)
		assert.True(t, at.Equal(rlErr.ResetAt))
	})

	t.Run("403 with exhausted quota", func(t *testing.T) {
		rl := NewRateLimiter(0)
		err := rl.Check(rateResponse(http.StatusForbidden, map[string]string{HeaderRateRemaining: "0"}))
		assert.True(t, IsRateLimited(err))
	})

	t.Run("403 with quota left is not a rate limit", func(t *testing.T) {
		rl := NewRateLimiter(0)
		assert.NoError(t, rl.Check(rateResponse(http.StatusForbidden, map[string]string{HeaderRateRemaining: "10"})))
	})

	t.Run("success", func(t *testing.T) {
		rl := NewRateLimiter(0)
		assert.NoError(t, rl.Check(rateResponse(http.StatusOK, nil)))
		assert.NoError(t, rl.Check(nil))
	})
}

func TestRateLimiter_Wait(t *testing.T) {
	t.Run("unlimited returns immediately", func(t *testing.T) {
		rl := NewRateLimiter(0)
		assert.NoError(t, rl.Wait(context.Background()))
	})

	t.Run("exhausted quota waits for reset", func(t *testing.T) {
		rl := NewRateLimiter(0)
		rl.Observe(rateResponse(http.StatusOK, map[string]string{
			HeaderRateRemaining: "0",
			HeaderRateReset:     strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10),
		}))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, rl.Wait(ctx), context.DeadlineExceeded)
	})
}
