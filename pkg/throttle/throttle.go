package throttle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avdeev21/accounts/pkg/clock"
)

// ErrStoreUnavailable marks counter-store failures. Admission must fail
// loudly on it, never silently pass.
var ErrStoreUnavailable = errors.New("throttle: counter store unavailable")

// Rule is one fixed-window counting dimension.
type Rule struct {
	Name   string
	Limit  int
	Period time.Duration
}

// Admission rules. Limits and periods mirror the service's historical
// brute-force policy: a global per-IP ceiling plus tight per-IP and
// per-email windows on the authentication endpoint.
var (
	RuleRequestsPerIP  = Rule{Name: "req/ip", Limit: 300, Period: 5 * time.Minute}
	RuleLoginsPerIP    = Rule{Name: "logins/ip", Limit: 5, Period: 20 * time.Second}
	RuleLoginsPerEmail = Rule{Name: "logins/email", Limit: 5, Period: 20 * time.Second}
)

// CounterStore is shared mutable state visible to every running instance.
// Incr must be atomic per key: two concurrent requests may not both observe
// the pre-increment count.
type CounterStore interface {
	// Incr increments key and returns the new count. The key is dropped
	// once ttl elapses.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Limiter evaluates fixed-window-by-bucket admission rules against a
// counter store.
type Limiter struct {
	store CounterStore
	clock clock.Clock
}

func NewLimiter(store CounterStore, clk clock.Clock) *Limiter {
	return &Limiter{store: store, clock: clk}
}

// Allow counts one request for (rule, value) and reports whether it is
// within the rule's budget. Counting happens before the comparison, so a
// rejected request still consumes a slot and the increment-and-compare pair
// is race-free.
func (l *Limiter) Allow(ctx context.Context, rule Rule, value string) (bool, error) {
	bucket := l.clock.Now().Unix() / int64(rule.Period/time.Second)
	key := fmt.Sprintf("throttle:%s:%d:%s", rule.Name, bucket, value)

	count, err := l.store.Incr(ctx, key, rule.Period)
	if err != nil {
		return false, err
	}
	return count <= int64(rule.Limit), nil
}
