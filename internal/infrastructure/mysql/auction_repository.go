package mysql

import (
	"auction-settlement/internal/domain"
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

type MySQLAuctionRepository struct {
	db   *sql.DB
	bids domain.BidRepository
}

func NewMySQLAuctionRepository(db *sql.DB, bids domain.BidRepository) *MySQLAuctionRepository {
	return &MySQLAuctionRepository{db: db, bids: bids}
}

// OpenAuctions returns open auctions, oldest first. Bids are not loaded.
func (r *MySQLAuctionRepository) OpenAuctions(ctx context.Context) ([]*domain.Auction, error) {
	query := `
        SELECT id, description, status, created_at, updated_at
        FROM auctions WHERE status = ?
        ORDER BY created_at ASC, id ASC
    `

	auctions, err := r.queryAuctions(ctx, query, int(domain.AuctionOpen))
	if err != nil {
		return nil, fmt.Errorf("%w: list open auctions: %w", domain.ErrRepository, err)
	}
	return auctions, nil
}

// ClosedAuctions returns closed auctions that have no payment yet, with
// their bids in placement order.
func (r *MySQLAuctionRepository) ClosedAuctions(ctx context.Context) ([]*domain.Auction, error) {
	query := `
        SELECT a.id, a.description, a.status, a.created_at, a.updated_at
        FROM auctions a
        LEFT JOIN payments p ON p.auction_id = a.id
        WHERE a.status = ? AND p.id IS NULL
        ORDER BY a.updated_at ASC, a.id ASC
    `

	auctions, err := r.queryAuctions(ctx, query, int(domain.AuctionClosed))
	if err != nil {
		return nil, fmt.Errorf("%w: list closed auctions: %w", domain.ErrRepository, err)
	}

	for _, auction := range auctions {
		bids, err := r.bids.GetBids(ctx, auction.ID)
		if err != nil {
			return nil, err
		}
		auction.Bids = bids
	}

	return auctions, nil
}

func (r *MySQLAuctionRepository) Update(ctx context.Context, auction *domain.Auction) error {
	query := `UPDATE auctions SET status = ?, updated_at = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, int(auction.Status), auction.UpdatedAt, auction.ID)
	if err != nil {
		return fmt.Errorf("%w: update auction %s: %w", domain.ErrRepository, auction.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: update auction %s: %w", domain.ErrRepository, auction.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %w: %s", domain.ErrRepository, domain.ErrAuctionNotFound, auction.ID)
	}
	return nil
}

func (r *MySQLAuctionRepository) queryAuctions(ctx context.Context, query string, args ...interface{}) ([]*domain.Auction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var auctions []*domain.Auction
	for rows.Next() {
		var auction domain.Auction
		var status int

		err := rows.Scan(&auction.ID, &auction.Description, &status,
			&auction.CreatedAt, &auction.UpdatedAt)
		if err != nil {
			return nil, err
		}

		auction.Status = domain.AuctionStatus(status)
		auctions = append(auctions, &auction)
	}

	return auctions, rows.Err()
}
