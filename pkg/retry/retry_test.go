package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSucceedsOnLaterAttempt(t *testing.T) {
	var slept []time.Duration
	calls := 0

	p := Policy{
		Attempts: 3,
		Delay:    Linear(time.Second),
		Sleep: func(_ context.Context, d time.Duration) {
			slept = append(slept, d)
		},
	}

	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("boom")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	// linear curve: 1s after the first failure, 2s after the second
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, slept)
}

func TestDoExhaustsAttempts(t *testing.T) {
	boom := errors.New("boom")
	calls := 0

	p := Policy{
		Attempts: 3,
		Delay:    Linear(time.Second),
		Sleep:    func(context.Context, time.Duration) {},
	}

	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return boom
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestDoNoSleepAfterLastAttempt(t *testing.T) {
	sleeps := 0

	p := Policy{
		Attempts: 2,
		Delay:    Linear(time.Second),
		Sleep:    func(context.Context, time.Duration) { sleeps++ },
	}

	_ = p.Do(context.Background(), func(context.Context) error {
		return errors.New("boom")
	})

	assert.Equal(t, 1, sleeps)
}

func TestDoSingleAttemptByDefault(t *testing.T) {
	calls := 0

	err := Policy{}.Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
