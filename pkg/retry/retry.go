package retry

import "time"

// BackoffFunc returns how long to wait after the given zero-based attempt.
type BackoffFunc func(attempt int) time.Duration

// Policy is an explicit retry policy: how many times to run an operation and
// how long to sleep between failures. Attempts are silent; only the error
// from the final attempt is surfaced.
type Policy struct {
	MaxAttempts int
	Backoff     BackoffFunc
}

// ExponentialBackoff doubles the delay on each attempt: base, 2*base, 4*base...
func ExponentialBackoff(base time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		return base << uint(attempt)
	}
}

// Default matches the storefront's remote-load policy: 3 attempts with
// exponential backoff starting at one second.
func Default() Policy {
	return Policy{MaxAttempts: 3, Backoff: ExponentialBackoff(time.Second)}
}

// Do runs fn until it succeeds or MaxAttempts is exhausted, sleeping between
// failed attempts. Returns nil on the first success, otherwise the error of
// the last attempt.
func (p Policy) Do(fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts-1 && p.Backoff != nil {
			time.Sleep(p.Backoff(i))
		}
	}
	return err
}
