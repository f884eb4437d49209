package camunda

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"techflow-careers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *Client {
	return &Client{config: &ClientConfig{
		RequestTimeout: time.Second,
		RetryConfig: &RetryConfig{
			MaxRetries: 2,
			BaseDelay:  time.Millisecond,
			MaxDelay:   2 * time.Millisecond,
		},
	}}
}

func TestExecuteWithRetry_RecoversFromTransientError(t *testing.T) {
	attempts := 0
	result, err := newTestClient().ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
		attempts++
		if attempts < 3 {
			return nil, stderrors.New("rpc error: code = Unavailable desc = connection refused")
		}
		return int64(42), nil
	}, "create-instance:job-application")

	require.NoError(t, err)
	assert.Equal(t, int64(42), result)
	assert.Equal(t, 3, attempts)
}

func TestExecuteWithRetry_MapsErrors(t *testing.T) {
	tests := []struct {
		name         string
		err          string
		expectedCode errors.ErrorCode
		attempts     int
	}{
		{"unavailable retried then mapped", "connection refused", errors.ErrCodeExternalService, 3},
		{"deadline", "context deadline exceeded", errors.ErrCodeTimeout, 3},
		{"process not deployed", "NOT_FOUND: process not found", errors.ErrCodeNotFound, 1},
		{"duplicate", "ALREADY_EXISTS: instance already exists", errors.ErrCodeBusinessRule, 1},
		{"other", "INVALID_ARGUMENT: bad variables", errors.ErrCodeExternalService, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			_, err := newTestClient().ExecuteWithRetry(context.Background(), func(ctx context.Context) (interface{}, error) {
				attempts++
				return nil, stderrors.New(tt.err)
			}, "create-instance")

			assert.Equal(t, tt.expectedCode, errors.CodeOf(err))
			assert.Equal(t, tt.attempts, attempts)
		})
	}
}

func TestExecuteWithRetry_StopsOnCancel(t *testing.T) {
	c := newTestClient()
	c.config.RetryConfig.BaseDelay = time.Hour
	c.config.RetryConfig.MaxDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	_, err := c.ExecuteWithRetry(ctx, func(ctx context.Context) (interface{}, error) {
		cancel()
		return nil, stderrors.New("unavailable")
	}, "create-instance")

	assert.ErrorIs(t, err, context.Canceled)
}
