package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Auction struct {
	ID          string
	Description string
	CreatedAt   time.Time
	Status      AuctionStatus
	Bids        []Bid
	UpdatedAt   time.Time
}

// Close marks the auction closed. There is no way back to open.
func (a *Auction) Close(at time.Time) {
	a.Status = AuctionClosed
	a.UpdatedAt = at
}

func (a *Auction) IsClosed() bool {
	return a.Status == AuctionClosed
}

// EligibleForClosure reports whether the auction is open and was created
// at least ClosureAge calendar days before now, counted in now's location.
func (a *Auction) EligibleForClosure(now time.Time) bool {
	if a.IsClosed() {
		return false
	}
	return DaysBetween(a.CreatedAt, now) >= ClosureAgeDays
}

type AuctionStatus int

const (
	AuctionOpen AuctionStatus = iota
	AuctionClosed
)

func (s AuctionStatus) String() string {
	switch s {
	case AuctionOpen:
		return "open"
	case AuctionClosed:
		return "closed"
	default:
		return "unknown"
	}
}

func ParseAuctionStatus(s string) (AuctionStatus, error) {
	switch s {
	case "open":
		return AuctionOpen, nil
	case "closed":
		return AuctionClosed, nil
	default:
		return AuctionOpen, fmt.Errorf("unknown auction status %q", s)
	}
}

type Bid struct {
	BidderID string          `json:"bidder_id"`
	Amount   decimal.Decimal `json:"amount"`
	PlacedAt time.Time       `json:"placed_at"`
}

type Payment struct {
	ID        string          `json:"id"`
	AuctionID string          `json:"auction_id"`
	Amount    decimal.Decimal `json:"amount"`
	DueDate   time.Time       `json:"due_date"`
	CreatedAt time.Time       `json:"created_at"`
}

type ClosureStage string

const (
	ClosureSkipped   ClosureStage = "skipped"
	ClosurePersisted ClosureStage = "persisted"
	ClosureNotified  ClosureStage = "notified"
	ClosureFailed    ClosureStage = "failed"
)

// ClosureOutcome is the result of one auction within a closure sweep.
type ClosureOutcome struct {
	AuctionID string
	Stage     ClosureStage
	Err       error
}

// Closed reports whether the auction counts towards the sweep total.
// A failed notification still counts: the update already went through.
func (o ClosureOutcome) Closed() bool {
	return o.Stage == ClosurePersisted || o.Stage == ClosureNotified
}

type AuctionEvent struct {
	Type      AuctionEventType `json:"type"`
	AuctionID string           `json:"auction_id"`
	Timestamp time.Time        `json:"timestamp"`
}

type AuctionEventType string

const (
	AuctionClosedEvent AuctionEventType = "auction_closed"
)

type SweepRun struct {
	ID                string         `json:"id"`
	StartedAt         time.Time      `json:"started_at"`
	FinishedAt        time.Time      `json:"finished_at"`
	AuctionsClosed    int            `json:"auctions_closed"`
	PaymentsGenerated int            `json:"payments_generated"`
	Status            SweepRunStatus `json:"status"`
	Error             string         `json:"error,omitempty"`
}

type SweepRunStatus string

const (
	SweepRunning   SweepRunStatus = "running"
	SweepSucceeded SweepRunStatus = "succeeded"
	SweepFailed    SweepRunStatus = "failed"
)
