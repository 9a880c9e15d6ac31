package retry

import (
	"fmt"
	"time"
)

// Do runs fn up to attempts times, sleeping between tries. The last
// error is wrapped so callers can still unwrap the cause.
func Do(attempts int, sleep time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts-1 {
			time.Sleep(sleep)
		}
	}
	return fmt.Errorf("after %d attempts, last error: %w", attempts, err)
}
