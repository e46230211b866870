package retry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "redditextract/pkg/errors"
	"redditextract/pkg/logger"
)

func fastConfig() *Config {
	return &Config{
		MaxAttempts: 3,
		Backoff:     &ConstantBackoff{Delay: time.Millisecond},
		RetryIf:     DefaultRetryIf,
		Context:     context.Background(),
		Logger:      logger.NewTestLogger(),
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		return nil
	}, fastConfig())

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransientErrors(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		if calls < 3 {
			return errs.New(errs.ErrorTypeNetwork, "connection reset")
		}
		return nil
	}, fastConfig())

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := errs.New(errs.ErrorTypeAuth, "bad credentials")
	err := Do(func() error {
		calls++
		return permanent
	}, fastConfig())

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, permanent, err)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		return errs.New(errs.ErrorTypeServerError, "boom")
	}, fastConfig())

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "max retry attempts")

	var apiErr *errs.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errs.ErrorTypeServerError, apiErr.Type)
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := fastConfig()
	cfg.Context = ctx
	cfg.Backoff = &ConstantBackoff{Delay: time.Second}

	err := Do(func() error {
		return errs.New(errs.ErrorTypeNetwork, "flaky")
	}, cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoWithResult(t *testing.T) {
	calls := 0
	result, err := DoWithResult(func() (string, error) {
		calls++
		if calls < 2 {
			return "", errs.New(errs.ErrorTypeRateLimit, "slow down")
		}
		return "done", nil
	}, fastConfig())

	require.NoError(t, err)
	assert.Equal(t, "done", result)
	assert.Equal(t, 2, calls)
}

func TestDefaultRetryIf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"network", errs.New(errs.ErrorTypeNetwork, "x"), true},
		{"rate limit", errs.New(errs.ErrorTypeRateLimit, "x"), true},
		{"server error", errs.New(errs.ErrorTypeServerError, "x"), true},
		{"auth", errs.New(errs.ErrorTypeAuth, "x"), false},
		{"parsing", errs.New(errs.ErrorTypeParsing, "x"), false},
		{"not found", errs.New(errs.ErrorTypeNotFound, "x"), false},
		{"context canceled", context.Canceled, false},
		{"untyped", assert.AnError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultRetryIf(tt.err))
		})
	}
}

func TestExponentialBackoffGrowth(t *testing.T) {
	eb := &ExponentialBackoff{
		BaseDelay:  100 * time.Millisecond,
		MaxDelay:   time.Second,
		Multiplier: 2.0,
	}

	assert.Equal(t, time.Duration(0), eb.NextDelay(0))
	assert.Equal(t, 100*time.Millisecond, eb.NextDelay(1))
	assert.Equal(t, 200*time.Millisecond, eb.NextDelay(2))
	assert.Equal(t, 400*time.Millisecond, eb.NextDelay(3))
	assert.Equal(t, time.Second, eb.NextDelay(10), "capped at max delay")
}

func TestExponentialBackoffJitterStaysInRange(t *testing.T) {
	eb := &ExponentialBackoff{
		BaseDelay:    100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.1,
	}

	for i := 0; i < 50; i++ {
		d := eb.NextDelay(1)
		assert.GreaterOrEqual(t, d, 90*time.Millisecond)
		assert.LessOrEqual(t, d, 110*time.Millisecond)
	}
}

func TestWithDelayOverride(t *testing.T) {
	inner := &ConstantBackoff{Delay: 10 * time.Millisecond}

	w := &WithDelayOverride{
		Inner: inner,
		Override: func(int) (time.Duration, bool) {
			return 42 * time.Millisecond, true
		},
	}
	assert.Equal(t, 42*time.Millisecond, w.NextDelay(1))

	w.Override = func(int) (time.Duration, bool) { return 0, false }
	assert.Equal(t, 10*time.Millisecond, w.NextDelay(1))
}

func TestWaitCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Wait(ctx, time.Second)
	assert.ErrorIs(t, err, context.Canceled)

	assert.NoError(t, Wait(ctx, 0), "zero delay never blocks")
}
