package fetch

import (
	"crypto/rand"
	"math/big"
	"time"
)

// RetryPolicy bounds fetch attempts and produces the randomized backoff
// between them. It is parameterized into the fetchers rather than inlined so
// the schedule can be unit-tested in isolation.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy mirrors the source sites' tolerance: two attempts with a
// short randomized pause between them.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 2,
		BaseDelay:   time.Second,
		MaxDelay:    2 * time.Second,
	}
}

// Attempts returns the bounded attempt count, never less than one.
func (p RetryPolicy) Attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

// Backoff returns a wait uniformly drawn from [BaseDelay, MaxDelay).
func (p RetryPolicy) Backoff() time.Duration {
	if p.MaxDelay <= p.BaseDelay {
		return p.BaseDelay
	}
	return p.BaseDelay + randomJitter(p.MaxDelay-p.BaseDelay)
}

func randomJitter(limit time.Duration) time.Duration {
	if limit <= 0 {
		return 0
	}
	bound := big.NewInt(int64(limit))
	n, err := rand.Int(rand.Reader, bound)
	if err != nil {
		return limit / 2
	}
	return time.Duration(n.Int64())
}
