package health

import (
	"context"
	"runtime"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck fails when the process runs more goroutines than the
// threshold, a cheap signal for goroutine leaks.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(ctx context.Context) error {
		if count := runtime.NumGoroutine(); count > threshold {
			return errors.Errorf("too many goroutines: %d > %d", count, threshold)
		}
		return nil
	}
}
