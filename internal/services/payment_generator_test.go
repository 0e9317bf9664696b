package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"auction-settlement/internal/domain"
	"auction-settlement/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(repo *fakeAuctionRepo, payments *fakePaymentRepo, evaluator domain.Evaluator, now time.Time) *PaymentGenerator {
	return NewPaymentGenerator(repo, payments, evaluator, fakeClock{now: now}, logger.NewNop())
}

func playStation() *domain.Auction {
	return newAuction("play").closed().
		bid("joao", 500).
		bid("paulo", 800).
		build()
}

func TestPaymentGenerator_usesWinningAmount(t *testing.T) {
	repo := &fakeAuctionRepo{auctions: []*domain.Auction{playStation()}}
	payments := &fakePaymentRepo{}
	wednesday := time.Date(2012, time.April, 11, 10, 0, 0, 0, time.UTC)

	err := newTestGenerator(repo, payments, NewHighestBidEvaluator(), wednesday).GeneratePayments(context.Background())
	require.NoError(t, err)

	require.Len(t, payments.saved, 1)
	payment := payments.saved[0]
	assert.True(t, payment.Amount.Equal(decimal.NewFromInt(800)), "amount %s", payment.Amount)
	assert.Equal(t, "play", payment.AuctionID)
	assert.NotEmpty(t, payment.ID)
	assert.True(t, payment.CreatedAt.Equal(wednesday))
}

func TestPaymentGenerator_dueDateRollsOverWeekends(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		wantDay int
		wantDOW domain.DayOfWeek
	}{
		{"saturday", time.Date(2012, time.April, 7, 10, 0, 0, 0, time.UTC), 9, domain.Monday},
		{"sunday", time.Date(2012, time.April, 8, 10, 0, 0, 0, time.UTC), 9, domain.Monday},
		{"monday", time.Date(2012, time.April, 9, 10, 0, 0, 0, time.UTC), 9, domain.Monday},
		{"friday", time.Date(2012, time.April, 13, 10, 0, 0, 0, time.UTC), 13, domain.Friday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeAuctionRepo{auctions: []*domain.Auction{playStation()}}
			payments := &fakePaymentRepo{}

			err := newTestGenerator(repo, payments, NewHighestBidEvaluator(), tt.now).GeneratePayments(context.Background())
			require.NoError(t, err)

			require.Len(t, payments.saved, 1)
			due := payments.saved[0].DueDate
			assert.Equal(t, tt.wantDay, due.Day())
			assert.Equal(t, tt.wantDOW, domain.DayOfWeekOf(due))
		})
	}
}

func TestPaymentGenerator_onePaymentPerClosedAuction(t *testing.T) {
	repo := &fakeAuctionRepo{auctions: []*domain.Auction{
		newAuction("a").closed().bid("joao", 100).build(),
		newAuction("open").bid("maria", 999).build(),
		newAuction("b").closed().bid("joao", 100).bid("maria", 250.5).build(),
	}}
	payments := &fakePaymentRepo{}
	generator := newTestGenerator(repo, payments, NewHighestBidEvaluator(), time.Date(2012, time.April, 10, 0, 0, 0, 0, time.UTC))

	require.NoError(t, generator.GeneratePayments(context.Background()))

	require.Len(t, payments.saved, 2)
	assert.Equal(t, "a", payments.saved[0].AuctionID)
	assert.Equal(t, "b", payments.saved[1].AuctionID)
	assert.True(t, payments.saved[1].Amount.Equal(decimal.RequireFromString("250.5")))
	assert.Equal(t, 2, generator.PaymentsGenerated())
}

func TestPaymentGenerator_evaluationErrorAbortsSweep(t *testing.T) {
	repo := &fakeAuctionRepo{auctions: []*domain.Auction{
		newAuction("a").closed().build(),
		newAuction("b").closed().build(),
		newAuction("c").closed().build(),
	}}
	payments := &fakePaymentRepo{}
	evaluator := fakeEvaluator{
		amounts: map[string]decimal.Decimal{"a": decimal.NewFromInt(10), "c": decimal.NewFromInt(30)},
		errs:    map[string]error{"b": domain.ErrEvaluation},
	}

	err := newTestGenerator(repo, payments, evaluator, sweepNow).GeneratePayments(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEvaluation))
	assert.Contains(t, err.Error(), "auction b")
	require.Len(t, payments.saved, 1)
	assert.Equal(t, "a", payments.saved[0].AuctionID)
}

func TestPaymentGenerator_auctionWithoutBidsAborts(t *testing.T) {
	repo := &fakeAuctionRepo{auctions: []*domain.Auction{newAuction("empty").closed().build()}}
	payments := &fakePaymentRepo{}

	err := newTestGenerator(repo, payments, NewHighestBidEvaluator(), sweepNow).GeneratePayments(context.Background())

	assert.True(t, errors.Is(err, domain.ErrNoBids))
	assert.Empty(t, payments.saved)
}

func TestPaymentGenerator_saveErrorPropagates(t *testing.T) {
	repo := &fakeAuctionRepo{auctions: []*domain.Auction{playStation()}}
	payments := &fakePaymentRepo{err: errStorage}
	generator := newTestGenerator(repo, payments, NewHighestBidEvaluator(), sweepNow)

	err := generator.GeneratePayments(context.Background())

	assert.True(t, errors.Is(err, errStorage))
	assert.Zero(t, generator.PaymentsGenerated())
}

func TestPaymentGenerator_listingErrorPropagates(t *testing.T) {
	repo := &fakeAuctionRepo{closedErr: errStorage}
	payments := &fakePaymentRepo{}

	err := newTestGenerator(repo, payments, NewHighestBidEvaluator(), sweepNow).GeneratePayments(context.Background())

	assert.True(t, errors.Is(err, errStorage))
	assert.Empty(t, payments.saved)
}
