package subscription

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
)

// Service loads a user's subscription and turns it into the display model.
type Service struct {
	fetcher  Fetcher
	logger   *slog.Logger
	observer Observer
	now      func() time.Time
}

type ServiceOption func(*Service)

// WithObserver reports the duration and outcome of every fetch.
func WithObserver(o Observer) ServiceOption {
	return func(s *Service) {
		s.observer = o
	}
}

func NewService(fetcher Fetcher, logger *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches and normalizes the subscription of userID. Fetch failures are
// returned as *NetworkError.
func (s *Service) Load(ctx context.Context, userID string) (UserSubscription, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return UserSubscription{}, ErrMissingUserID
	}

	started := s.now()
	raw, err := s.fetcher.FetchSubscription(ctx, userID)
	if s.observer != nil {
		s.observer.FetchObserved(s.now().Sub(started), err != nil)
	}
	if err != nil {
		var netErr *NetworkError
		if !errors.As(err, &netErr) {
			netErr = &NetworkError{UserID: userID, Err: err}
		}
		s.logger.Error("Failed to fetch subscription",
			slog.String("user_id", userID),
			slog.Int("status_code", netErr.StatusCode),
			slog.Any("error", err))
		return UserSubscription{}, netErr
	}

	return Normalize(userID, raw), nil
}
