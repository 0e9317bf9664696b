package services

import (
	"auction-settlement/internal/domain"
	"auction-settlement/pkg/logger"
	"context"

	"github.com/robfig/cron/v3"
)

// Settler is what drivers (cron, HTTP) need from the settlement runner.
type Settler interface {
	RunOnce(ctx context.Context) (*domain.SweepRun, error)
	CloseExpired(ctx context.Context) (int, error)
	GeneratePayments(ctx context.Context) (int, error)
	GetRun(ctx context.Context, runID string) (*domain.SweepRun, error)
}

// CronSweepScheduler triggers settlement runs on a cron spec, only on the
// instance that currently holds leadership.
type CronSweepScheduler struct {
	cron           *cron.Cron
	spec           string
	settler        Settler
	leaderElection domain.LeaderElection
	instanceID     string
	log            logger.Logger
}

func NewCronSweepScheduler(spec string, settler Settler, leaderElection domain.LeaderElection,
	instanceID string, log logger.Logger) *CronSweepScheduler {
	return &CronSweepScheduler{
		cron:           cron.New(cron.WithSeconds()),
		spec:           spec,
		settler:        settler,
		leaderElection: leaderElection,
		instanceID:     instanceID,
		log:            log,
	}
}

func (s *CronSweepScheduler) Start(ctx context.Context) error {
	s.log.Info("Starting sweep scheduler", "spec", s.spec)

	_, err := s.cron.AddFunc(s.spec, func() {
		s.runIfLeader(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop stops the cron and waits for a running sweep to finish.
func (s *CronSweepScheduler) Stop() error {
	s.log.Info("Stopping sweep scheduler")
	<-s.cron.Stop().Done()
	return nil
}

func (s *CronSweepScheduler) runIfLeader(ctx context.Context) {
	isLeader, err := s.leaderElection.IsLeader(ctx, s.instanceID)
	if err != nil {
		s.log.Error("Failed to check leadership", "instance_id", s.instanceID, "error", err)
		return
	}
	if !isLeader {
		s.log.Debug("Skipping settlement run, not leader", "instance_id", s.instanceID)
		return
	}

	if _, err := s.settler.RunOnce(ctx); err != nil {
		s.log.Error("Scheduled settlement run failed", "error", err)
	}
}
