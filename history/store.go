// Package history remembers which ranges have already been requested per
// key, so later queries only fetch what is missing.
package history

import (
	"context"
	"time"

	"github.com/xuenqlve/rangekit/errors"
	"github.com/xuenqlve/rangekit/ranges"
)

const DefaultTTL = time.Hour

type Store[T ranges.Number] interface {
	// Add records r as requested for key.
	Add(ctx context.Context, key string, r ranges.Range[T]) error
	// Ranges returns every range recorded for key, merged.
	Ranges(ctx context.Context, key string) ([]ranges.Range[T], error)
	Forget(ctx context.Context, key string) error
}

func checkKey(key string) error {
	if key == "" {
		return errors.ErrEmptyKey
	}
	return nil
}
