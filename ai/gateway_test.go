package ai_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/poiesic/qagen/ai"
	"github.com/poiesic/qagen/ai/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSleep captures backoff delays without waiting.
type recordingSleep struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordingSleep) sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	return ctx.Err()
}

func newTestGateway(completer ai.Completer, jitter time.Duration) (*ai.Gateway, *recordingSleep) {
	rec := &recordingSleep{}
	cfg := ai.NewProviderConfig(ai.WithModel("m"))
	gw := ai.NewGateway(completer, cfg,
		ai.WithSleep(rec.sleep),
		ai.WithJitter(func() time.Duration { return jitter }),
	)
	return gw, rec
}

func TestGateway_Success(t *testing.T) {
	completer := mock.NewMockCompleter().WithCompleteFunc(func(ctx context.Context, prompt string) (string, error) {
		return "  answer  ", nil
	})
	gw, rec := newTestGateway(completer, 0)

	text, err := gw.Call(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "  answer  ", text, "gateway must not alter provider text")
	assert.Equal(t, 1, completer.CallCount())
	assert.Empty(t, rec.delays)
}

func TestGateway_ExhaustsAfterSixAttempts(t *testing.T) {
	boom := errors.New("connection refused")
	completer := mock.NewMockCompleter().WithCompleteFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", boom
	})
	gw, rec := newTestGateway(completer, 250*time.Millisecond)

	text, err := gw.Call(context.Background(), "prompt")
	assert.Empty(t, text)
	assert.ErrorIs(t, err, ai.ErrExhausted)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 6, completer.CallCount())

	want := []time.Duration{
		1*time.Second + 250*time.Millisecond,
		2*time.Second + 250*time.Millisecond,
		4*time.Second + 250*time.Millisecond,
		8*time.Second + 250*time.Millisecond,
		16*time.Second + 250*time.Millisecond,
	}
	assert.Equal(t, want, rec.delays)
}

func TestGateway_RecoversOnRetry(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	completer := mock.NewMockCompleter().WithCompleteFunc(func(ctx context.Context, prompt string) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls < 3 {
			return "", ai.ErrMalformedResponse
		}
		return "ok", nil
	})
	gw, rec := newTestGateway(completer, 0)

	text, err := gw.Call(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 3, completer.CallCount())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, rec.delays)
}

func TestGateway_StopsOnCancelledContext(t *testing.T) {
	completer := mock.NewMockCompleter().WithCompleteFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("fail")
	})
	gw, _ := newTestGateway(completer, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gw.Call(ctx, "prompt")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ai.ErrExhausted)
	assert.Equal(t, 0, completer.CallCount())
}

func TestGateway_AppliesTimeout(t *testing.T) {
	completer := mock.NewMockCompleter().WithCompleteFunc(func(ctx context.Context, prompt string) (string, error) {
		_, ok := ctx.Deadline()
		if !ok {
			return "", errors.New("no deadline")
		}
		return "ok", nil
	})
	cfg := ai.NewProviderConfig(ai.WithModel("m"), ai.WithTimeout(time.Minute))
	gw := ai.NewGateway(completer, cfg)

	text, err := gw.Call(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

func TestGateway_DefaultJitterWithinOneSecond(t *testing.T) {
	completer := mock.NewMockCompleter().WithCompleteFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("fail")
	})
	rec := &recordingSleep{}
	cfg := ai.NewProviderConfig(ai.WithModel("m"))
	gw := ai.NewGateway(completer, cfg, ai.WithSleep(rec.sleep))

	_, err := gw.Call(context.Background(), "prompt")
	require.ErrorIs(t, err, ai.ErrExhausted)
	require.Len(t, rec.delays, 5)
	for k, d := range rec.delays {
		floor := ai.Backoff(time.Second, k+1)
		assert.GreaterOrEqual(t, d, floor)
		assert.Less(t, d, floor+time.Second)
	}
}
