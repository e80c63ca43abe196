package push

import (
	"context"
	"time"
)

// CallAsync fires a push send in the background with its own deadline so a
// slow Expo endpoint never blocks the request that triggered it. Errors go
// to the supplied callback, typically a logger.
func CallAsync(fn func(ctx context.Context) error, onErr func(error)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := fn(ctx); err != nil && onErr != nil {
			onErr(err)
		}
	}()
}
