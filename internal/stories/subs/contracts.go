package subs

import (
	"context"
)

type Storage interface {
	CreateSubscription(ctx context.Context, subscription Subscription) (*Subscription, error)
	GetLatestSubscriptionByTelegramID(ctx context.Context, telegramID string) (*Subscription, error)
}
