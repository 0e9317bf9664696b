package services

import (
	"auction-settlement/internal/domain"
	"auction-settlement/pkg/logger"
	"context"
	"fmt"
	"time"
)

// AuctionCloser closes open auctions that have run for a week.
type AuctionCloser struct {
	auctionRepo domain.AuctionRepository
	notifier    domain.Notifier
	clock       domain.Clock
	log         logger.Logger
	totalClosed int
}

func NewAuctionCloser(auctionRepo domain.AuctionRepository, notifier domain.Notifier,
	clock domain.Clock, log logger.Logger) *AuctionCloser {
	return &AuctionCloser{
		auctionRepo: auctionRepo,
		notifier:    notifier,
		clock:       clock,
		log:         log,
	}
}

// CloseExpiredAuctions runs one closure sweep and returns how many auctions
// were closed and persisted. Failures of a single auction are logged and do
// not stop the sweep; only a failure to list open auctions is returned.
func (c *AuctionCloser) CloseExpiredAuctions(ctx context.Context) (int, error) {
	auctions, err := c.auctionRepo.OpenAuctions(ctx)
	if err != nil {
		c.log.Error("Failed to list open auctions", "error", err)
		return 0, err
	}

	now := c.clock.Now()
	closed := 0
	for _, auction := range auctions {
		outcome := c.closeAuction(ctx, auction, now)
		switch {
		case outcome.Stage == domain.ClosureSkipped:
			continue
		case outcome.Err != nil:
			c.log.Error("Failed to close auction", "auction_id", outcome.AuctionID,
				"stage", outcome.Stage, "error", outcome.Err)
		default:
			c.log.Info("Auction closed", "auction_id", outcome.AuctionID)
		}

		if outcome.Closed() {
			closed++
		}
	}

	c.totalClosed += closed
	c.log.Info("Closure sweep finished", "open", len(auctions), "closed", closed)
	return closed, nil
}

// closeAuction persists before notifying; a failed update means no notice.
// A panic from a collaborator is turned into a failed outcome for this
// auction only.
func (c *AuctionCloser) closeAuction(ctx context.Context, auction *domain.Auction, now time.Time) (outcome domain.ClosureOutcome) {
	outcome = domain.ClosureOutcome{AuctionID: auction.ID, Stage: domain.ClosureSkipped}
	defer func() {
		if r := recover(); r != nil {
			if outcome.Stage != domain.ClosurePersisted {
				outcome.Stage = domain.ClosureFailed
			}
			outcome.Err = fmt.Errorf("panic while closing auction: %v", r)
		}
	}()

	if !auction.EligibleForClosure(now) {
		return outcome
	}

	auction.Close(now)

	if err := c.auctionRepo.Update(ctx, auction); err != nil {
		outcome.Stage = domain.ClosureFailed
		outcome.Err = err
		return outcome
	}
	outcome.Stage = domain.ClosurePersisted

	if err := c.notifier.NotifyClosed(ctx, auction); err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.Stage = domain.ClosureNotified
	return outcome
}

// TotalClosed is the number of auctions closed by this closer across sweeps.
func (c *AuctionCloser) TotalClosed() int {
	return c.totalClosed
}
