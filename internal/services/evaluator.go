package services

import (
	"auction-settlement/internal/domain"
	"fmt"

	"github.com/shopspring/decimal"
)

// HighestBidEvaluator picks the largest bid as the winning amount.
type HighestBidEvaluator struct{}

func NewHighestBidEvaluator() *HighestBidEvaluator {
	return &HighestBidEvaluator{}
}

func (e *HighestBidEvaluator) WinningAmount(auction *domain.Auction) (decimal.Decimal, error) {
	if len(auction.Bids) == 0 {
		return decimal.Zero, fmt.Errorf("%w: %w: auction %s", domain.ErrEvaluation, domain.ErrNoBids, auction.ID)
	}

	highest := auction.Bids[0].Amount
	for _, bid := range auction.Bids {
		if bid.Amount.IsNegative() {
			return decimal.Zero, fmt.Errorf("%w: negative bid %s by %s on auction %s",
				domain.ErrEvaluation, bid.Amount, bid.BidderID, auction.ID)
		}
		if bid.Amount.GreaterThan(highest) {
			highest = bid.Amount
		}
	}

	return highest, nil
}
