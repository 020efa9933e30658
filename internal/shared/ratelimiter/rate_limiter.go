// Package ratelimiter は外部APIへのリクエスト頻度を制限します。
package ratelimiter

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	Wait(ctx context.Context) error
}

// RateLimiter は、トークンバケット方式で操作の頻度を制限します。
type RateLimiter struct {
	limiter *rate.Limiter
}

var _ RateLimiterInterface = (*RateLimiter)(nil)

// NewRateLimiter は1秒あたりrps回まで許可するRateLimiterを生成します。
// rpsが0以下の場合は無制限になります。
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if rps <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Wait はトークンが得られるまで待機します。コンテキストがキャンセルされた場合はエラーを返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if err := rl.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}
