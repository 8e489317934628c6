package subs

import (
	"context"
	"fmt"
	"time"
)

type Service struct {
	storage Storage
	now     func() time.Time
}

func NewService(storage Storage) *Service {
	return &Service{
		storage: storage,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a subscription, filling the status and traffic limit defaults.
func (s *Service) Create(ctx context.Context, subscription Subscription) (*Subscription, error) {
	if subscription.UserID == 0 {
		return nil, fmt.Errorf("subscription without user")
	}
	if subscription.Status == "" {
		subscription.Status = StatusPending
	}
	if subscription.TrafficLimit == 0 {
		subscription.TrafficLimit = DefaultTrafficLimit
	}

	created, err := s.storage.CreateSubscription(ctx, subscription)
	if err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	return created, nil
}

// Overview returns the user's latest subscription, or nil when the user or the
// subscription does not exist.
func (s *Service) Overview(ctx context.Context, telegramID string) (*Overview, error) {
	sub, err := s.storage.GetLatestSubscriptionByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("get latest subscription: %w", err)
	}
	if sub == nil {
		return nil, nil
	}

	return &Overview{
		TelegramID:     telegramID,
		Username:       sub.VPNUsername,
		Status:         sub.Status,
		ExpiresAt:      sub.ExpiresAt,
		DaysLeft:       sub.DaysLeft(s.now()),
		TrafficUsed:    sub.TrafficUsed,
		TrafficLimit:   sub.TrafficLimit,
		TrafficPercent: sub.TrafficPercent(),
	}, nil
}
