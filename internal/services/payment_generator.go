package services

import (
	"auction-settlement/internal/domain"
	"auction-settlement/pkg/logger"
	"auction-settlement/pkg/utils"
	"context"
	"fmt"
)

// PaymentGenerator turns closed auctions into payments due on the next
// business day.
type PaymentGenerator struct {
	auctionRepo       domain.AuctionRepository
	paymentRepo       domain.PaymentRepository
	evaluator         domain.Evaluator
	clock             domain.Clock
	log               logger.Logger
	paymentsGenerated int
}

func NewPaymentGenerator(auctionRepo domain.AuctionRepository, paymentRepo domain.PaymentRepository,
	evaluator domain.Evaluator, clock domain.Clock, log logger.Logger) *PaymentGenerator {
	return &PaymentGenerator{
		auctionRepo: auctionRepo,
		paymentRepo: paymentRepo,
		evaluator:   evaluator,
		clock:       clock,
		log:         log,
	}
}

// GeneratePayments saves one payment per closed auction. The first error
// stops the sweep; payments saved before it stay saved.
func (g *PaymentGenerator) GeneratePayments(ctx context.Context) error {
	auctions, err := g.auctionRepo.ClosedAuctions(ctx)
	if err != nil {
		return err
	}

	for _, auction := range auctions {
		amount, err := g.evaluator.WinningAmount(auction)
		if err != nil {
			return fmt.Errorf("evaluate auction %s: %w", auction.ID, err)
		}

		now := g.clock.Now()
		payment := &domain.Payment{
			ID:        utils.GenerateID("payment"),
			AuctionID: auction.ID,
			Amount:    amount,
			DueDate:   domain.NextBusinessDay(now),
			CreatedAt: now,
		}

		if err := g.paymentRepo.Save(ctx, payment); err != nil {
			return fmt.Errorf("save payment for auction %s: %w", auction.ID, err)
		}

		g.paymentsGenerated++
		g.log.Info("Payment generated", "auction_id", auction.ID, "payment_id", payment.ID,
			"amount", payment.Amount.String(), "due_date", payment.DueDate.Format("2006-01-02"))
	}

	return nil
}

// PaymentsGenerated is the number of payments saved across sweeps.
func (g *PaymentGenerator) PaymentsGenerated() int {
	return g.paymentsGenerated
}
