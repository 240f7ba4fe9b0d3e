package client

import (
	"context"
	"time"
)

// RetryPolicy 重试策略
type RetryPolicy struct {
	MaxRetries  int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// Retry 执行 fn，失败后按指数退避重试，ctx 取消时立即返回
func Retry(ctx context.Context, policy RetryPolicy, fn func() error) error {
	attempt := 0
	backoff := policy.BaseBackoff

	for {
		err := fn()
		if err == nil {
			return nil
		}

		attempt++
		if attempt > policy.MaxRetries {
			return err
		}

		delay := backoff
		if delay > policy.MaxBackoff {
			delay = policy.MaxBackoff
		}

		select {
		case <-time.After(delay):
			backoff *= 2
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
