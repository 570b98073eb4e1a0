package retry

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noBackoff(int) time.Duration { return 0 }

func TestDoSucceedsFirstAttempt(t *testing.T) {
	p := Policy{MaxAttempts: 3, Backoff: noBackoff}

	calls := 0
	err := p.Do(func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRecoversAfterTransientFailures(t *testing.T) {
	p := Policy{MaxAttempts: 3, Backoff: noBackoff}

	calls := 0
	err := p.Do(func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoSurfacesLastErrorAfterExhaustion(t *testing.T) {
	p := Policy{MaxAttempts: 3, Backoff: noBackoff}
	final := errors.New("still down")

	calls := 0
	err := p.Do(func() error {
		calls++
		if calls == 3 {
			return final
		}
		return errors.New("earlier failure")
	})

	require.ErrorIs(t, err, final)
	assert.Equal(t, 3, calls)
}

func TestDoTreatsZeroAttemptsAsOne(t *testing.T) {
	p := Policy{MaxAttempts: 0, Backoff: noBackoff}

	calls := 0
	_ = p.Do(func() error {
		calls++
		return errors.New("nope")
	})

	assert.Equal(t, 1, calls)
}

func TestExponentialBackoffDoubles(t *testing.T) {
	backoff := ExponentialBackoff(time.Second)

	assert.Equal(t, time.Second, backoff(0))
	assert.Equal(t, 2*time.Second, backoff(1))
	assert.Equal(t, 4*time.Second, backoff(2))
}

func TestDefaultPolicy(t *testing.T) {
	p := Default()
	assert.Equal(t, 3, p.MaxAttempts)
	assert.Equal(t, time.Second, p.Backoff(0))
}
