package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/smartintruesdell/CubeCobra/internal/domain"
	"github.com/smartintruesdell/CubeCobra/internal/repository"
)

const defaultUpdateRetries = 5

// updateWithRetry runs read, apply, save until save succeeds. Only
// repository.ErrStaleVersion triggers another attempt; any error from read or
// apply is returned immediately and nothing is written. apply must not keep
// state between attempts since it sees a fresh snapshot each time.
func updateWithRetry[T any](
	ctx context.Context,
	attempts int,
	read func(ctx context.Context) (T, error),
	apply func(snapshot T) error,
	save func(ctx context.Context, snapshot T) error,
) (T, error) {
	var zero T
	if attempts <= 0 {
		attempts = defaultUpdateRetries
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		snapshot, err := read(ctx)
		if err != nil {
			return zero, err
		}
		if err := apply(snapshot); err != nil {
			return zero, err
		}

		err = save(ctx, snapshot)
		if err == nil {
			return snapshot, nil
		}
		if !errors.Is(err, repository.ErrStaleVersion) {
			return zero, err
		}
	}

	return zero, fmt.Errorf("%w: gave up after %d concurrent updates", domain.ErrConflict, attempts)
}
