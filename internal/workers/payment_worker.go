package workers

import (
	"context"
	"time"

	"healthtrack_backend/internal/logger"
	"healthtrack_backend/internal/services/payment"

	"gorm.io/gorm"
)

const reconcileBatchSize = 50

// PaymentWorker periodically re-verifies stale pending transactions against
// the gateway, converging payments whose webhook never arrived. It goes
// through the same idempotent transition primitive as the webhook and
// verify paths, so it is safe against live deliveries.
type PaymentWorker struct {
	db             *gorm.DB
	paymentService *payment.Service
	interval       time.Duration
	reconcileAfter time.Duration
}

func NewPaymentWorker(db *gorm.DB, paymentService *payment.Service, interval, reconcileAfter time.Duration) *PaymentWorker {
	return &PaymentWorker{
		db:             db,
		paymentService: paymentService,
		interval:       interval,
		reconcileAfter: reconcileAfter,
	}
}

// Start runs the reconciliation loop until the context is cancelled.
func (w *PaymentWorker) Start(ctx context.Context) {
	go w.reconcileLoop(ctx)
}

func (w *PaymentWorker) reconcileLoop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("payment worker stopped")
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-w.reconcileAfter)
			resolved, err := w.paymentService.ReconcilePending(ctx, w.db, cutoff, reconcileBatchSize)
			if err != nil {
				logger.WorkerLog("payment_worker", "reconcile_pending", err)
				continue
			}
			if resolved > 0 {
				logger.Info("reconciled stale pending payments", "count", resolved)
			}
		}
	}
}
