package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/atakamran/LiftLegendsBack/internal/metrics"
	"github.com/robfig/cron"
)

type subscriptionReconciler interface {
	ReconcileAll(ctx context.Context) ([]int64, error)
}

// Reconciler runs the bulk subscription-expiry pass once a minute, matching
// the cadence the dashboard polls at. A failed pass is logged and the next
// tick retries from scratch.
type Reconciler struct {
	service subscriptionReconciler
	log     *slog.Logger
	cron    *cron.Cron
	timeout time.Duration
}

func NewReconciler(service subscriptionReconciler, log *slog.Logger) *Reconciler {
	return &Reconciler{
		service: service,
		log:     log,
		cron:    cron.New(),
		timeout: 30 * time.Second,
	}
}

func (r *Reconciler) Start() error {
	if err := r.cron.AddFunc("@every 1m", r.runOnce); err != nil {
		return err
	}
	r.cron.Start()
	r.log.Info("subscription reconciler started", slog.String("schedule", "@every 1m"))
	return nil
}

func (r *Reconciler) Stop() {
	r.cron.Stop()
}

func (r *Reconciler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	started := time.Now()
	userIDs, err := r.service.ReconcileAll(ctx)
	metrics.ReconciliationRuns.Inc()
	metrics.ReconciliationDuration.Observe(time.Since(started).Seconds())

	if err != nil {
		r.log.Error("subscription reconciliation failed", slog.Any("error", err))
		return
	}
	if len(userIDs) > 0 {
		r.log.Info("downgraded expired subscriptions", slog.Int("count", len(userIDs)))
	}
}
