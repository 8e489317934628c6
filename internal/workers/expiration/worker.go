package expiration

import (
	"context"
	"fmt"
	"log/slog"

	"vpn-subpage/internal/stories/subs"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs the worker daily at 00:10.
const DefaultSchedule = "10 0 * * *"

// Worker handles marking expired subscriptions
type Worker struct {
	storage  Storage
	logger   *slog.Logger
	cron     *cron.Cron
	schedule string
	reporter Reporter
}

type Option func(*Worker)

// WithReporter publishes subscription counts after every run.
func WithReporter(r Reporter) Option {
	return func(w *Worker) {
		w.reporter = r
	}
}

// NewWorker creates a new expiration worker
func NewWorker(storage Storage, logger *slog.Logger, schedule string, opts ...Option) *Worker {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	w := &Worker{
		storage:  storage,
		logger:   logger,
		cron:     cron.New(),
		schedule: schedule,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Name returns the worker name
func (w *Worker) Name() string {
	return "expiration"
}

// Start starts the expiration worker
func (w *Worker) Start() error {
	_, err := w.cron.AddFunc(w.schedule, func() {
		ctx := context.Background()
		w.logger.Info("Running expiration worker")
		if _, err := w.Run(ctx); err != nil {
			w.logger.Error("Expiration worker failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule expiration worker: %w", err)
	}

	w.cron.Start()
	return nil
}

// Stop stops the worker and waits for a running job to finish
func (w *Worker) Stop() {
	w.logger.Info("Stopping expiration worker")
	<-w.cron.Stop().Done()
}

// Run marks every active subscription past its expiry as expired and returns
// how many were updated. Failures on single subscriptions are logged and skipped.
func (w *Worker) Run(ctx context.Context) (int, error) {
	w.logger.Info("Starting expiration worker execution")

	subscriptions, err := w.storage.ListExpiredSubscriptions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list expired subscriptions: %w", err)
	}

	w.logger.Info("Found expired subscriptions", "count", len(subscriptions))

	expiredStatus := subs.StatusExpired
	expired := 0
	for _, sub := range subscriptions {
		criteria := subs.GetCriteria{IDs: []int64{sub.ID}}
		params := subs.UpdateParams{Status: &expiredStatus}

		_, err := w.storage.UpdateSubscription(ctx, criteria, params)
		if err != nil {
			w.logger.Error("Failed to expire subscription",
				"subscription_id", sub.ID,
				"error", err)
			continue
		}

		expired++
		w.logger.Info("Subscription expired",
			"subscription_id", sub.ID,
			"user_id", sub.UserID)
	}

	w.logger.Info("Expiration worker execution completed", "expired", expired)
	w.report(ctx)
	return expired, nil
}

func (w *Worker) report(ctx context.Context) {
	if w.reporter == nil {
		return
	}

	stats, err := w.storage.GetStatistics(ctx)
	if err != nil {
		w.logger.Warn("Failed to collect subscription statistics", "error", err)
		return
	}
	w.reporter.SubscriptionsCounted(*stats)
}
