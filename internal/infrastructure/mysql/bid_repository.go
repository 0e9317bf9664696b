package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"auction-settlement/internal/domain"
)

type MySQLBidRepository struct {
	db *sql.DB
}

func NewMySQLBidRepository(db *sql.DB) *MySQLBidRepository {
	return &MySQLBidRepository{db: db}
}

func (r *MySQLBidRepository) GetBids(ctx context.Context, auctionID string) ([]domain.Bid, error) {
	query := `
        SELECT bidder_id, amount, placed_at
        FROM bids
        WHERE auction_id = ?
        ORDER BY placed_at ASC, id ASC
    `

	rows, err := r.db.QueryContext(ctx, query, auctionID)
	if err != nil {
		return nil, fmt.Errorf("%w: bids of auction %s: %w", domain.ErrRepository, auctionID, err)
	}
	defer rows.Close()

	var bids []domain.Bid
	for rows.Next() {
		var bid domain.Bid

		if err := rows.Scan(&bid.BidderID, &bid.Amount, &bid.PlacedAt); err != nil {
			return nil, fmt.Errorf("%w: bids of auction %s: %w", domain.ErrRepository, auctionID, err)
		}

		bids = append(bids, bid)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: bids of auction %s: %w", domain.ErrRepository, auctionID, err)
	}
	return bids, nil
}
