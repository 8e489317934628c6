package expiration

import (
	"context"

	"vpn-subpage/internal/stories/subs"
)

type (
	// Storage provides database operations
	Storage interface {
		ListExpiredSubscriptions(ctx context.Context) ([]*subs.Subscription, error)
		UpdateSubscription(ctx context.Context, criteria subs.GetCriteria, params subs.UpdateParams) (*subs.Subscription, error)
		GetStatistics(ctx context.Context) (*subs.Statistics, error)
	}

	// Reporter receives the subscription counts after each run
	Reporter interface {
		SubscriptionsCounted(stats subs.Statistics)
	}
)
