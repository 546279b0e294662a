package selection

import (
	"context"
	"sync"
	"time"
)

// RetryPolicy controls what happens when a group whose last load failed is
// expanded again. A zero Cooldown retries on the very next expansion.
type RetryPolicy struct {
	Cooldown time.Duration
}

// Load is a pending deferred-children fetch handed to the host to run off
// the interaction loop. Run invokes the provider at most once.
type Load struct {
	Group int
	Epoch uint64

	provider Provider
	once     sync.Once
	result   LoadResult
}

// LoadResult is delivered back to Store.CompleteLoad.
type LoadResult struct {
	Group    int
	Epoch    uint64
	Children []Record
	Err      error
}

// Run calls the provider and returns its result. Repeated calls return the
// first result without calling the provider again.
func (l *Load) Run(ctx context.Context) LoadResult {
	l.once.Do(func() {
		children, err := l.provider(ctx)
		l.result = LoadResult{Group: l.Group, Epoch: l.Epoch, Children: children, Err: err}
	})
	return l.result
}
