package subscription

import (
	"context"
	"time"
)

type Fetcher interface {
	FetchSubscription(ctx context.Context, userID string) (Raw, error)
}

// Observer receives fetch timings, typically a metrics sink.
type Observer interface {
	FetchObserved(d time.Duration, failed bool)
}
