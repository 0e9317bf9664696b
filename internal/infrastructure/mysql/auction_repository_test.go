package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	"auction-settlement/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var auctionColumns = []string{"id", "description", "status", "created_at", "updated_at"}

func newMock(t *testing.T) (*MySQLAuctionRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMySQLAuctionRepository(db, NewMySQLBidRepository(db)), mock
}

func TestMySQLAuctionRepository_OpenAuctions(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM auctions WHERE status = \?`).
		WithArgs(int(domain.AuctionOpen)).
		WillReturnRows(sqlmock.NewRows(auctionColumns).
			AddRow("a1", "Plasma TV", 0, created, created).
			AddRow("a2", "Fridge", 0, created.Add(time.Hour), created.Add(time.Hour)))

	auctions, err := repo.OpenAuctions(context.Background())
	require.NoError(t, err)

	require.Len(t, auctions, 2)
	assert.Equal(t, "a1", auctions[0].ID)
	assert.Equal(t, "Plasma TV", auctions[0].Description)
	assert.Equal(t, domain.AuctionOpen, auctions[0].Status)
	assert.Equal(t, created, auctions[0].CreatedAt)
	assert.Equal(t, "a2", auctions[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLAuctionRepository_OpenAuctionsWrapsErrors(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(`FROM auctions WHERE status = \?`).WillReturnError(errors.New("connection reset"))

	_, err := repo.OpenAuctions(context.Background())

	assert.True(t, errors.Is(err, domain.ErrRepository))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLAuctionRepository_ClosedAuctionsLoadsBids(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)
	closedAt := created.AddDate(0, 0, 8)

	mock.ExpectQuery(`LEFT JOIN payments p ON p.auction_id = a.id`).
		WithArgs(int(domain.AuctionClosed)).
		WillReturnRows(sqlmock.NewRows(auctionColumns).
			AddRow("play", "PlayStation", 1, created, closedAt))
	mock.ExpectQuery(`FROM bids`).
		WithArgs("play").
		WillReturnRows(sqlmock.NewRows([]string{"bidder_id", "amount", "placed_at"}).
			AddRow("joao", "500.00", created.Add(time.Hour)).
			AddRow("paulo", "800.00", created.Add(2*time.Hour)))

	auctions, err := repo.ClosedAuctions(context.Background())
	require.NoError(t, err)

	require.Len(t, auctions, 1)
	auction := auctions[0]
	assert.True(t, auction.IsClosed())
	require.Len(t, auction.Bids, 2)
	assert.Equal(t, "joao", auction.Bids[0].BidderID)
	assert.True(t, auction.Bids[1].Amount.Equal(decimal.NewFromInt(800)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLAuctionRepository_ClosedAuctionsBidError(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`LEFT JOIN payments`).
		WillReturnRows(sqlmock.NewRows(auctionColumns).AddRow("play", "PlayStation", 1, now, now))
	mock.ExpectQuery(`FROM bids`).WithArgs("play").WillReturnError(errors.New("timeout"))

	_, err := repo.ClosedAuctions(context.Background())

	assert.True(t, errors.Is(err, domain.ErrRepository))
	assert.Contains(t, err.Error(), "play")
}

func TestMySQLAuctionRepository_Update(t *testing.T) {
	repo, mock := newMock(t)
	at := time.Date(2024, time.May, 15, 9, 0, 0, 0, time.UTC)
	auction := &domain.Auction{ID: "a1"}
	auction.Close(at)

	mock.ExpectExec(`UPDATE auctions SET status = \?, updated_at = \? WHERE id = \?`).
		WithArgs(int(domain.AuctionClosed), at, "a1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), auction))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLAuctionRepository_UpdateMissingAuction(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(`UPDATE auctions`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &domain.Auction{ID: "ghost"})

	assert.True(t, errors.Is(err, domain.ErrRepository))
	assert.True(t, errors.Is(err, domain.ErrAuctionNotFound))
}

func TestMySQLAuctionRepository_UpdateFailure(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec(`UPDATE auctions`).WillReturnError(errors.New("deadlock"))

	err := repo.Update(context.Background(), &domain.Auction{ID: "a1"})

	assert.True(t, errors.Is(err, domain.ErrRepository))
}
