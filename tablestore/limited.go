package tablestore

import (
	"context"

	"golang.org/x/time/rate"
)

// Limited throttles the bytes moved through another Store.
type Limited struct {
	Store
	limiter *rate.Limiter
}

// NewLimited wraps s so that Put and Get move at most bytesPerSec bytes per
// second. A non-positive rate returns s unchanged.
func NewLimited(s Store, bytesPerSec int) Store {
	if bytesPerSec <= 0 {
		return s
	}
	return &Limited{
		Store:   s,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec),
	}
}

// wait blocks until n bytes may pass, in bursts no larger than the limiter
// allows.
func (l *Limited) wait(ctx context.Context, n int) error {
	burst := l.limiter.Burst()
	for n > 0 {
		step := min(n, burst)
		if err := l.limiter.WaitN(ctx, step); err != nil {
			return err
		}
		n -= step
	}
	return nil
}

// Put implements Store.
func (l *Limited) Put(ctx context.Context, name string, data []byte) error {
	if err := l.wait(ctx, len(data)); err != nil {
		return err
	}
	return l.Store.Put(ctx, name, data)
}

// Get implements Store.
func (l *Limited) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := l.Store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := l.wait(ctx, len(data)); err != nil {
		return nil, err
	}
	return data, nil
}
