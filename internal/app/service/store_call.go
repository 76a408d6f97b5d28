package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pinshop/internal/common"
)

// storeCall runs fn with its own deadline and classifies what comes back.
// Domain outcomes (not found, conflict) pass through untouched; a deadline
// becomes ErrStoreTimeout and anything else ErrStore.
func storeCall(ctx context.Context, timeout time.Duration, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return classifyStoreErr(fn(ctx))
}

func storeQuery[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := storeCall(ctx, timeout, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	return out, err
}

func classifyStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrConflict):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", common.ErrStoreTimeout, err)
	}
	return fmt.Errorf("%w: %w", common.ErrStore, err)
}
