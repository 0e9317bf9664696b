package services

import (
	"auction-settlement/internal/domain"
	"auction-settlement/pkg/logger"
	"auction-settlement/pkg/utils"
	"context"
	"sync"
)

// SettlementRunner drives one closure sweep followed by one payment sweep
// and records the run. Sweeps never overlap within a process.
type SettlementRunner struct {
	closer    *AuctionCloser
	generator *PaymentGenerator
	runRepo   domain.SweepRunRepository
	clock     domain.Clock
	log       logger.Logger
	mu        sync.Mutex
}

func NewSettlementRunner(closer *AuctionCloser, generator *PaymentGenerator,
	runRepo domain.SweepRunRepository, clock domain.Clock, log logger.Logger) *SettlementRunner {
	return &SettlementRunner{
		closer:    closer,
		generator: generator,
		runRepo:   runRepo,
		clock:     clock,
		log:       log,
	}
}

// RunOnce closes expired auctions, then generates payments. Payments are
// not attempted when the closure sweep cannot list open auctions.
func (r *SettlementRunner) RunOnce(ctx context.Context) (*domain.SweepRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	run := &domain.SweepRun{
		ID:        utils.GenerateID("sweep"),
		StartedAt: r.clock.Now(),
		Status:    domain.SweepRunning,
	}
	if err := r.runRepo.CreateRun(ctx, run); err != nil {
		return nil, err
	}

	r.log.Info("Starting settlement run", "run_id", run.ID)

	closed, err := r.closer.CloseExpiredAuctions(ctx)
	run.AuctionsClosed = closed
	if err == nil {
		before := r.generator.PaymentsGenerated()
		err = r.generator.GeneratePayments(ctx)
		run.PaymentsGenerated = r.generator.PaymentsGenerated() - before
	}

	run.FinishedAt = r.clock.Now()
	run.Status = domain.SweepSucceeded
	if err != nil {
		run.Status = domain.SweepFailed
		run.Error = err.Error()
		r.log.Error("Settlement run failed", "run_id", run.ID, "error", err)
	}

	if ferr := r.runRepo.FinishRun(ctx, run); ferr != nil {
		r.log.Error("Failed to record settlement run", "run_id", run.ID, "error", ferr)
	}

	r.log.Info("Settlement run finished", "run_id", run.ID, "status", run.Status,
		"closed", run.AuctionsClosed, "payments", run.PaymentsGenerated)
	return run, err
}

// CloseExpired runs only the closure sweep.
func (r *SettlementRunner) CloseExpired(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closer.CloseExpiredAuctions(ctx)
}

// GeneratePayments runs only the payment sweep and returns how many
// payments it saved, including those saved before a failure.
func (r *SettlementRunner) GeneratePayments(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	before := r.generator.PaymentsGenerated()
	err := r.generator.GeneratePayments(ctx)
	return r.generator.PaymentsGenerated() - before, err
}

func (r *SettlementRunner) GetRun(ctx context.Context, runID string) (*domain.SweepRun, error) {
	return r.runRepo.GetRun(ctx, runID)
}
