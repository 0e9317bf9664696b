package mysql

import (
	"auction-settlement/internal/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// erDupEntry is MySQL's duplicate key error number.
const erDupEntry = 1062

type MySQLPaymentRepository struct {
	db *sql.DB
}

func NewMySQLPaymentRepository(db *sql.DB) *MySQLPaymentRepository {
	return &MySQLPaymentRepository{db: db}
}

func (r *MySQLPaymentRepository) Save(ctx context.Context, payment *domain.Payment) error {
	query := `
        INSERT INTO payments (id, auction_id, amount, due_date, created_at)
        VALUES (?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		payment.ID, payment.AuctionID, payment.Amount,
		payment.DueDate, payment.CreatedAt)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == erDupEntry {
			return fmt.Errorf("%w: %w: %s", domain.ErrRepository, domain.ErrPaymentExists, payment.AuctionID)
		}
		return fmt.Errorf("%w: save payment for auction %s: %w", domain.ErrRepository, payment.AuctionID, err)
	}
	return nil
}
