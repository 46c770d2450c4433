package ai

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"
)

// Gateway wraps a Completer with the shared retry policy, a per-attempt
// timeout and an optional request rate limit.
// A Gateway is safe for concurrent use.
type Gateway struct {
	completer Completer
	config    *ProviderConfig
	limiter   *rate.Limiter
	logger    *slog.Logger

	// jitter returns the random part of a backoff delay.
	jitter func() time.Duration
	// sleep waits between attempts.
	sleep func(ctx context.Context, d time.Duration) error
}

// GatewayOption customizes a Gateway.
type GatewayOption func(*Gateway)

// WithJitter replaces the uniform [0,1s) backoff jitter.
func WithJitter(fn func() time.Duration) GatewayOption {
	return func(g *Gateway) {
		g.jitter = fn
	}
}

// WithSleep replaces the context-aware sleep used between attempts.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) GatewayOption {
	return func(g *Gateway) {
		g.sleep = fn
	}
}

// WithLogger sets the gateway logger.
func WithLogger(logger *slog.Logger) GatewayOption {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// NewGateway creates a gateway around completer using the retry, timeout and
// rate settings of config. The config is normalized but not validated.
func NewGateway(completer Completer, config *ProviderConfig, opts ...GatewayOption) *Gateway {
	config.Normalize()
	g := &Gateway{
		completer: completer,
		config:    config,
		logger: slog.Default().With(
			"component", "gateway",
			"provider", completer.Kind().String(),
			"model", completer.Model(),
		),
		jitter: uniformSecond,
		sleep:  sleepContext,
	}
	if config.RequestsPerMinute > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(config.RequestsPerMinute/60.0), 1)
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Call sends prompt to the provider, retrying failed attempts.
// Retry k (k >= 1) is preceded by a delay of BaseDelay*2^(k-1) plus jitter.
// When all attempts fail the returned error wraps ErrExhausted and the last
// attempt's error. A cancelled context stops retrying and returns ctx.Err().
func (g *Gateway) Call(ctx context.Context, prompt string) (string, error) {
	attempts := g.config.Attempts()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			delay := Backoff(g.config.BaseDelay, attempt-1) + g.jitter()
			g.logger.Debug("retrying provider call", "attempt", attempt, "delay", delay, "error", lastErr)
			if err := g.sleep(ctx, delay); err != nil {
				return "", err
			}
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}

		text, err := g.attempt(ctx, prompt)
		if err == nil {
			if attempt > 1 {
				g.logger.Debug("provider call succeeded after retry", "attempt", attempt)
			}
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
		g.logger.Warn("provider call failed", "attempt", attempt, "max_attempts", attempts, "error", err)
	}
	return "", fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempts, lastErr)
}

func (g *Gateway) attempt(ctx context.Context, prompt string) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}
	return g.completer.Complete(ctx, prompt)
}

func uniformSecond() time.Duration {
	return time.Duration(rand.Int64N(int64(time.Second)))
}
