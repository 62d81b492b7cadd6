package service

import (
	"context"
	"sync"
	"time"

	"github.com/ebudgetmo/ebudgetmo-backend/internal/domain"
	"github.com/rs/zerolog"
)

// BillsRefresher recomputes the upcoming bills projection
type BillsRefresher interface {
	Refresh() []domain.UpcomingBill
}

// NotificationRecomputer regenerates the notification list
type NotificationRecomputer interface {
	Recompute() []domain.Notification
}

// RefreshWorker drives the periodic recomputation of time-dependent views:
// one ticker for the bills projection and one for notifications
type RefreshWorker struct {
	bills                BillsRefresher
	notifications        NotificationRecomputer
	logger               zerolog.Logger
	billsInterval        time.Duration
	notificationInterval time.Duration
	stopCh               chan struct{}
	doneCh               chan struct{}
	mu                   sync.Mutex
	running              bool
}

// RefreshWorkerConfig holds configuration for the refresh worker
type RefreshWorkerConfig struct {
	BillsInterval        time.Duration
	NotificationInterval time.Duration
}

// DefaultRefreshWorkerConfig refreshes both views once a minute
func DefaultRefreshWorkerConfig() RefreshWorkerConfig {
	return RefreshWorkerConfig{
		BillsInterval:        time.Minute,
		NotificationInterval: time.Minute,
	}
}

// NewRefreshWorker creates a new refresh worker
func NewRefreshWorker(bills BillsRefresher, notifications NotificationRecomputer, logger zerolog.Logger, config RefreshWorkerConfig) *RefreshWorker {
	if config.BillsInterval <= 0 {
		config.BillsInterval = time.Minute
	}
	if config.NotificationInterval <= 0 {
		config.NotificationInterval = time.Minute
	}

	return &RefreshWorker{
		bills:                bills,
		notifications:        notifications,
		logger:               logger.With().Str("component", "refresh_worker").Logger(),
		billsInterval:        config.BillsInterval,
		notificationInterval: config.NotificationInterval,
		stopCh:               make(chan struct{}),
		doneCh:               make(chan struct{}),
	}
}

// Start begins the background refresh loop
func (w *RefreshWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info().
		Dur("bills_interval", w.billsInterval).
		Dur("notification_interval", w.notificationInterval).
		Msg("Starting refresh worker")

	go w.run(ctx)
}

// Stop gracefully stops the refresh worker
func (w *RefreshWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping refresh worker")
	close(w.stopCh)
	<-w.doneCh
	w.logger.Info().Msg("Refresh worker stopped")
}

func (w *RefreshWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	// Run immediately on startup
	w.refreshBills()
	w.recomputeNotifications()

	billsTicker := time.NewTicker(w.billsInterval)
	defer billsTicker.Stop()
	notificationTicker := time.NewTicker(w.notificationInterval)
	defer notificationTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.setStopped()
			return
		case <-w.stopCh:
			w.setStopped()
			return
		case <-billsTicker.C:
			w.refreshBills()
		case <-notificationTicker.C:
			w.recomputeNotifications()
		}
	}
}

func (w *RefreshWorker) setStopped() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

func (w *RefreshWorker) refreshBills() {
	upcoming := w.bills.Refresh()
	w.logger.Debug().Int("upcoming", len(upcoming)).Msg("Refreshed upcoming bills")
}

func (w *RefreshWorker) recomputeNotifications() {
	list := w.notifications.Recompute()
	w.logger.Debug().Int("notifications", len(list)).Msg("Recomputed notifications")
}

// IsRunning returns whether the worker is currently running
func (w *RefreshWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
