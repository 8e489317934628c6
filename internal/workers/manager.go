package workers

import (
	"fmt"
	"log/slog"
	"sync"
)

// Manager manages multiple workers
type Manager struct {
	workers []Worker
	logger  *slog.Logger

	mu      sync.Mutex
	running []Worker
}

// NewManager creates a new worker manager
func NewManager(logger *slog.Logger, workers ...Worker) *Manager {
	return &Manager{
		workers: workers,
		logger:  logger,
	}
}

// Start starts all workers. When one fails the ones already started are stopped.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Starting worker manager", "worker_count", len(m.workers))

	for _, worker := range m.workers {
		m.logger.Info("Starting worker", "name", worker.Name())
		if err := worker.Start(); err != nil {
			m.stopRunning()
			return fmt.Errorf("failed to start worker %s: %w", worker.Name(), err)
		}
		m.running = append(m.running, worker)
		m.logger.Info("Worker started successfully", "name", worker.Name())
	}

	m.logger.Info("All workers started successfully")
	return nil
}

// Stop stops the workers that are running. Calling it again, or after a
// failed Start, is a no-op.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info("Stopping all workers")
	m.stopRunning()
	m.logger.Info("All workers stopped")
}

func (m *Manager) stopRunning() {
	for _, worker := range m.running {
		m.logger.Info("Stopping worker", "name", worker.Name())
		worker.Stop()
	}
	m.running = nil
}
