package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"auction-settlement/internal/domain"

	"github.com/shopspring/decimal"
)

type fakeClock struct {
	now time.Time
}

func (c fakeClock) Now() time.Time { return c.now }

// callLog records collaborator calls across fakes so tests can check order.
type callLog struct {
	calls []string
}

func (l *callLog) add(call string) {
	if l != nil {
		l.calls = append(l.calls, call)
	}
}

type fakeAuctionRepo struct {
	auctions   []*domain.Auction
	openErr    error
	closedErr  error
	updateErrs map[string]error
	updated    []string
	log        *callLog
}

func (r *fakeAuctionRepo) OpenAuctions(ctx context.Context) ([]*domain.Auction, error) {
	r.log.add("open")
	if r.openErr != nil {
		return nil, r.openErr
	}
	var open []*domain.Auction
	for _, a := range r.auctions {
		if !a.IsClosed() {
			open = append(open, a)
		}
	}
	return open, nil
}

func (r *fakeAuctionRepo) ClosedAuctions(ctx context.Context) ([]*domain.Auction, error) {
	if r.closedErr != nil {
		return nil, r.closedErr
	}
	var closed []*domain.Auction
	for _, a := range r.auctions {
		if a.IsClosed() {
			closed = append(closed, a)
		}
	}
	return closed, nil
}

func (r *fakeAuctionRepo) Update(ctx context.Context, auction *domain.Auction) error {
	r.log.add("update:" + auction.ID)
	if err := r.updateErrs[auction.ID]; err != nil {
		return err
	}
	r.updated = append(r.updated, auction.ID)
	return nil
}

type fakeNotifier struct {
	errs     map[string]error
	panics   map[string]bool
	notified []string
	log      *callLog
}

func (n *fakeNotifier) NotifyClosed(ctx context.Context, auction *domain.Auction) error {
	n.log.add("notify:" + auction.ID)
	if n.panics[auction.ID] {
		panic("mailer exploded")
	}
	if err := n.errs[auction.ID]; err != nil {
		return err
	}
	n.notified = append(n.notified, auction.ID)
	return nil
}

type fakePaymentRepo struct {
	saved []*domain.Payment
	err   error
}

func (r *fakePaymentRepo) Save(ctx context.Context, payment *domain.Payment) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, payment)
	return nil
}

type fakeEvaluator struct {
	amounts map[string]decimal.Decimal
	errs    map[string]error
}

func (e fakeEvaluator) WinningAmount(auction *domain.Auction) (decimal.Decimal, error) {
	if err := e.errs[auction.ID]; err != nil {
		return decimal.Zero, err
	}
	return e.amounts[auction.ID], nil
}

type fakeRunRepo struct {
	mu        sync.Mutex
	runs      map[string]domain.SweepRun
	createErr error
	finishErr error
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{runs: make(map[string]domain.SweepRun)}
}

func (r *fakeRunRepo) CreateRun(ctx context.Context, run *domain.SweepRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.runs[run.ID] = *run
	return nil
}

func (r *fakeRunRepo) FinishRun(ctx context.Context, run *domain.SweepRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finishErr != nil {
		return r.finishErr
	}
	r.runs[run.ID] = *run
	return nil
}

func (r *fakeRunRepo) GetRun(ctx context.Context, runID string) (*domain.SweepRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[runID]
	if !ok {
		return nil, domain.ErrSweepNotFound
	}
	return &run, nil
}

// auctionBuilder builds test auctions: newAuction("a1").createdAt(t).bid("joao", 500).build()
type auctionBuilder struct {
	auction domain.Auction
}

func newAuction(id string) *auctionBuilder {
	return &auctionBuilder{auction: domain.Auction{
		ID:          id,
		Description: "auction " + id,
		CreatedAt:   time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC),
		Status:      domain.AuctionOpen,
	}}
}

func (b *auctionBuilder) createdAt(t time.Time) *auctionBuilder {
	b.auction.CreatedAt = t
	return b
}

func (b *auctionBuilder) closed() *auctionBuilder {
	b.auction.Status = domain.AuctionClosed
	return b
}

func (b *auctionBuilder) bid(bidder string, amount float64) *auctionBuilder {
	b.auction.Bids = append(b.auction.Bids, domain.Bid{
		BidderID: bidder,
		Amount:   decimal.NewFromFloat(amount),
	})
	return b
}

func (b *auctionBuilder) build() *domain.Auction {
	a := b.auction
	a.Bids = append([]domain.Bid(nil), b.auction.Bids...)
	return &a
}

var errStorage = errors.New("storage unavailable")
