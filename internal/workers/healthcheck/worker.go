package healthcheck

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	defaultInterval = 30 * time.Second
	httpTimeout     = 10 * time.Second
)

// Target is an upstream probed with GET; only 200 counts as healthy.
type Target struct {
	Name string
	URL  string
}

type targetStatus struct {
	isUp         bool
	since        time.Time
	failureCount int
}

type Worker struct {
	targets    []Target
	reporter   Reporter
	interval   time.Duration
	logger     *slog.Logger
	httpClient *http.Client
	now        func() time.Time

	statusMu sync.RWMutex
	statuses map[string]*targetStatus

	lifecycleMu sync.Mutex
	started     bool
	stopped     bool
	stopCh      chan struct{}
	doneCh      chan struct{}
}

func NewWorker(targets []Target, reporter Reporter, interval time.Duration, logger *slog.Logger) *Worker {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Worker{
		targets:  targets,
		reporter: reporter,
		interval: interval,
		logger:   logger,
		httpClient: &http.Client{
			Timeout: httpTimeout,
		},
		now:      time.Now,
		statuses: make(map[string]*targetStatus),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (w *Worker) Name() string {
	return "healthcheck"
}

func (w *Worker) Start() error {
	w.lifecycleMu.Lock()
	defer w.lifecycleMu.Unlock()
	if w.started || w.stopped {
		return nil
	}
	w.started = true

	w.logger.Info("Starting health check worker",
		"interval", w.interval,
		"targets", len(w.targets))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				w.logger.Error("Panic in healthcheck worker goroutine", "panic", r)
			}
		}()
		w.run()
	}()
	return nil
}

// Stop is safe to call more than once and before Start.
func (w *Worker) Stop() {
	w.lifecycleMu.Lock()
	defer w.lifecycleMu.Unlock()
	if w.stopped {
		return
	}
	w.stopped = true

	w.logger.Info("Stopping health check worker")
	close(w.stopCh)
	if w.started {
		<-w.doneCh
	}
}

func (w *Worker) run() {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w.CheckAll(ctx)
	for {
		select {
		case <-ticker.C:
			w.CheckAll(ctx)
		case <-w.stopCh:
			return
		}
	}
}

// CheckAll probes every target once.
func (w *Worker) CheckAll(ctx context.Context) {
	for _, target := range w.targets {
		w.updateStatus(target, w.probe(ctx, target))
	}
}

// Up reports the last known state of a target. Unknown targets are down.
func (w *Worker) Up(name string) bool {
	w.statusMu.RLock()
	defer w.statusMu.RUnlock()

	status, ok := w.statuses[name]
	return ok && status.isUp
}

func (w *Worker) probe(ctx context.Context, target Target) bool {
	endpoint := target.URL
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "http://" + endpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		w.logger.Error("Failed to create health check request",
			"target", target.Name,
			"error", err)
		return false
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		w.logger.Warn("Health check failed",
			"target", target.Name,
			"endpoint", endpoint,
			"error", err)
		return false
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		w.logger.Warn("Health check returned non-OK status",
			"target", target.Name,
			"endpoint", endpoint,
			"status", resp.StatusCode)
		return false
	}

	w.logger.Debug("Health check passed", "target", target.Name)
	return true
}

func (w *Worker) updateStatus(target Target, isUp bool) {
	if w.reporter != nil {
		w.reporter.UpstreamHealth(target.Name, isUp)
	}

	w.statusMu.Lock()
	defer w.statusMu.Unlock()

	now := w.now()
	prev, exists := w.statuses[target.Name]
	if !exists {
		w.statuses[target.Name] = &targetStatus{isUp: isUp, since: now, failureCount: boolToFailures(isUp)}
		if !isUp {
			w.logger.Error("Upstream down", "target", target.Name, "failed_checks", 1)
		}
		return
	}

	switch {
	case prev.isUp && !isUp:
		prev.isUp = false
		prev.failureCount = 1
		prev.since = now
		w.logger.Error("Upstream down", "target", target.Name, "failed_checks", 1)
	case !prev.isUp && !isUp:
		prev.failureCount++
		w.logger.Warn("Upstream still down", "target", target.Name, "failed_checks", prev.failureCount)
	case !prev.isUp && isUp:
		downtime := now.Sub(prev.since)
		prev.isUp = true
		prev.failureCount = 0
		prev.since = now
		w.logger.Info("Upstream recovered", "target", target.Name, "downtime", downtime.Round(time.Second))
	}
}

func boolToFailures(isUp bool) int {
	if isUp {
		return 0
	}
	return 1
}
