package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Clock interface {
	Now() time.Time
}

// Repository interfaces
type AuctionRepository interface {
	OpenAuctions(ctx context.Context) ([]*Auction, error)
	ClosedAuctions(ctx context.Context) ([]*Auction, error)
	Update(ctx context.Context, auction *Auction) error
}

type BidRepository interface {
	GetBids(ctx context.Context, auctionID string) ([]Bid, error)
}

type PaymentRepository interface {
	Save(ctx context.Context, payment *Payment) error
}

type SweepRunRepository interface {
	CreateRun(ctx context.Context, run *SweepRun) error
	FinishRun(ctx context.Context, run *SweepRun) error
	GetRun(ctx context.Context, runID string) (*SweepRun, error)
}

// Evaluator picks the winning amount of a closed auction.
type Evaluator interface {
	WinningAmount(auction *Auction) (decimal.Decimal, error)
}

// Notification interfaces
type Notifier interface {
	NotifyClosed(ctx context.Context, auction *Auction) error
}

type EventSubscriber interface {
	SubscribeToAuctionEvents(ctx context.Context, handler EventHandler) error
}

type EventHandler func(event *AuctionEvent) error

type AuctionBroadcaster interface {
	BroadcastToAuction(ctx context.Context, auctionID string, message interface{}) error
}

// Cache interfaces
type AuctionStateCache interface {
	SetAuctionStatus(ctx context.Context, auctionID string, status AuctionStatus) error
	GetAuctionStatus(ctx context.Context, auctionID string) (AuctionStatus, error)
}

// Leader election interface
type LeaderElection interface {
	BecomeLeader(ctx context.Context, instanceID string) (bool, error)
	IsLeader(ctx context.Context, instanceID string) (bool, error)
	ReleaseLeadership(ctx context.Context, instanceID string) error
}

// WebSocket interfaces
type WebSocketConnection interface {
	Send(message interface{}) error
	Close() error
	UserID() string
	AuctionID() string
}

type ConnectionManager interface {
	RegisterConnection(userID, auctionID string, conn WebSocketConnection) error
	UnregisterConnection(userID, auctionID string) error
	GetConnectionsForAuction(auctionID string) []WebSocketConnection
	BroadcastToAuction(auctionID string, message interface{}) error
	CloseAndUnregisterConnections(auctionID string) error
}
